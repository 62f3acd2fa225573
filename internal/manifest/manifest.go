package manifest

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kawaiicleanup/assetcopier/internal/config"
	"github.com/kawaiicleanup/assetcopier/internal/copier"
	"github.com/parquet-go/parquet-go"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// Record describes what happened to one mapping entry during a run
type Record struct {
	Category    string `json:"category" yaml:"category" parquet:"category"`
	ID          string `json:"id" yaml:"id" parquet:"id"`
	Source      string `json:"source" yaml:"source" parquet:"source"`
	Status      string `json:"status" yaml:"status" parquet:"status"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty" parquet:"reason"`
	SourceFile  string `json:"source_file,omitempty" yaml:"source_file,omitempty" parquet:"source_file"`
	Destination string `json:"destination" yaml:"destination" parquet:"destination"`
	Hash        string `json:"hash,omitempty" yaml:"hash,omitempty" parquet:"hash"`
}

// Manifest is the write-only record of a copy run
type Manifest struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	SourceDir string         `json:"source_dir" yaml:"source_dir"`
	TargetDir string         `json:"target_dir" yaml:"target_dir"`
	Mapping   string         `json:"mapping" yaml:"mapping"`
	Summary   copier.Summary `json:"summary" yaml:"summary"`
	Records   []Record       `json:"records" yaml:"records"`
}

// New builds a manifest for a finished run
func New(cfg config.Config, result *copier.Result) *Manifest {
	m := &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		SourceDir: cfg.SourceDir,
		TargetDir: cfg.TargetDir,
		Mapping:   cfg.MappingPath(),
		Summary:   result.Summary,
		Records:   make([]Record, 0, len(result.Outcomes)),
	}

	for _, o := range result.Outcomes {
		m.Records = append(m.Records, Record{
			Category:    o.Category,
			ID:          o.ID,
			Source:      o.Source,
			Status:      string(o.Status),
			Reason:      o.Reason,
			SourceFile:  o.SourceFile,
			Destination: o.Destination,
			Hash:        o.Hash,
		})
	}

	return m
}

// Save writes the manifest, choosing the encoding from the file extension.
// Parquet files hold the records only.
func Save(m *Manifest, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	slog.Debug("Saving manifest", "path", path, "format", ext, "records", len(m.Records))

	switch ext {
	case ".json":
		return saveJSON(m, path)
	case ".jsonl":
		return saveJSONL(m.Records, path)
	case ".yaml", ".yml":
		return saveYAML(m, path)
	case ".parquet":
		if err := parquet.WriteFile(path, m.Records); err != nil {
			return fmt.Errorf("failed to write parquet manifest: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: .json, .jsonl, .yaml, .parquet)", ext)
	}
}

func saveJSON(m *Manifest, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	return nil
}

func saveJSONL(records []Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	encoder := json.NewEncoder(w)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %s/%s: %w", r.Category, r.ID, err)
		}
	}

	return w.Flush()
}

func saveYAML(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}

// LoadRecords reads the records back from a manifest written by Save
func LoadRecords(path string) ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest file: %w", err)
		}
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
		return m.Records, nil
	case ".jsonl":
		return loadJSONL(path)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest file: %w", err)
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
		return m.Records, nil
	case ".parquet":
		records, err := parquet.ReadFile[Record](path)
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet manifest: %w", err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", ext)
	}
}

func loadJSONL(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	return records, nil
}

// Stale returns the copied records whose destination is gone or no longer
// matches the hash recorded at copy time. Missing records are skipped.
func Stale(records []Record) ([]Record, error) {
	var stale []Record
	for _, r := range records {
		if r.Status != string(copier.StatusCopied) {
			continue
		}

		data, err := os.ReadFile(r.Destination)
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, r)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", r.Destination, err)
		}

		sum := xxh3.Hash128(data).Bytes()
		if hex.EncodeToString(sum[:]) != r.Hash {
			stale = append(stale, r)
		}
	}

	return stale, nil
}
