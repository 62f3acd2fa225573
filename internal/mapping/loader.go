package mapping

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for mapping files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported mapping format")

// Loader reads a mapping document from disk
type Loader struct {
	path string
}

// NewLoader creates a new mapping loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Path returns the mapping file location
func (l *Loader) Path() string {
	return l.path
}

// Load loads the mapping from a JSON or YAML file
func (l *Loader) Load() (*Mapping, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".yaml", ".yml":
		return l.loadYAML()
	default:
		return nil, fmt.Errorf("%w: %s (supported: .json, .yaml, .yml)", ErrUnsupportedFormat, ext)
	}
}

func (l *Loader) loadJSON() (*Mapping, error) {
	slog.Debug("Opening JSON mapping", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer file.Close()

	m, err := DecodeJSON(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	slog.Debug("Loaded mapping", "path", l.path, "categories", len(m.Categories), "entries", m.Len())
	return m, nil
}

// DecodeJSON reads a mapping object from r. Object members are consumed as a
// token stream so category order matches the document.
func DecodeJSON(r io.Reader) (*Mapping, error) {
	dec := jsontext.NewDecoder(r)

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind() != '{' {
		return nil, fmt.Errorf("expected object at top level, got %s", tok.Kind())
	}

	m := &Mapping{}
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		name := keyTok.String()

		var entries []Entry
		if err := json.UnmarshalDecode(dec, &entries); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		if err := m.add(name, entries); err != nil {
			return nil, err
		}
	}

	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}

	// the decoder accepts a stream of values; a mapping is exactly one
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level object")
	}

	return m, nil
}

func (l *Loader) loadYAML() (*Mapping, error) {
	slog.Debug("Opening YAML mapping", "path", l.path)

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}

	m, err := DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	slog.Debug("Loaded mapping", "path", l.path, "categories", len(m.Categories), "entries", m.Len())
	return m, nil
}

// DecodeYAML parses a YAML mapping document, walking the node tree to keep key order.
func DecodeYAML(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	m := &Mapping{}
	if len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping at top level", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		var entries []Entry
		if err := value.Decode(&entries); err != nil {
			return nil, fmt.Errorf("category %q: %w", key.Value, err)
		}
		if err := m.add(key.Value, entries); err != nil {
			return nil, err
		}
	}

	return m, nil
}
