package copier

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kawaiicleanup/assetcopier/internal/config"
	"github.com/kawaiicleanup/assetcopier/internal/mapping"
	"github.com/zeebo/xxh3"
)

// Each source folder keeps its rendered image in this subdirectory
const renderDir = "3D"

const imagePattern = "*.png"

var (
	ErrSourceNotFound  = errors.New("source directory not found")
	ErrTargetNotFound  = errors.New("target directory not found")
	ErrMappingNotFound = errors.New("mapping file not found")
)

// Copier copies mapped assets from the source tree into the target tree
type Copier struct {
	cfg    config.Config
	out    io.Writer
	dryRun bool
}

// Option configures a Copier
type Option func(*Copier)

// WithDryRun resolves every entry without touching the target tree
func WithDryRun(dryRun bool) Option {
	return func(c *Copier) {
		c.dryRun = dryRun
	}
}

// New creates a copier that writes its console report to out
func New(cfg config.Config, out io.Writer, opts ...Option) *Copier {
	c := &Copier{
		cfg: cfg,
		out: out,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is everything a run produced
type Result struct {
	Outcomes []Outcome
	Summary  Summary
}

// Run loads the mapping and copies every entry in stored order.
// Missing roots and an unreadable mapping abort the run before anything is written;
// per-entry problems are recorded as missing outcomes.
func (c *Copier) Run(ctx context.Context) (*Result, error) {
	fmt.Fprintln(c.out, "Starting asset copy process...")
	fmt.Fprintf(c.out, "Source: %s\n", c.cfg.SourceDir)
	fmt.Fprintf(c.out, "Target: %s\n", c.cfg.TargetDir)
	fmt.Fprintln(c.out)

	m, err := c.load()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Outcomes: make([]Outcome, 0, m.Len()),
	}

	for _, category := range m.Categories {
		fmt.Fprintf(c.out, "\n--- Processing %s ---\n", category.Name)
		for _, entry := range category.Entries {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("copy interrupted after %d assets: %w", result.Summary.Total, err)
			}

			outcome := c.CopyAsset(category.Name, entry)
			printOutcome(c.out, outcome, c.dryRun)

			result.Outcomes = append(result.Outcomes, outcome)
			result.Summary.Add(outcome)
		}
	}

	PrintSummary(c.out, result.Summary)

	return result, nil
}

func (c *Copier) load() (*mapping.Mapping, error) {
	if !isDir(c.cfg.SourceDir) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, c.cfg.SourceDir)
	}
	if !isDir(c.cfg.TargetDir) {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, c.cfg.TargetDir)
	}

	mappingPath := c.cfg.MappingPath()
	if _, err := os.Stat(mappingPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMappingNotFound, mappingPath)
	}

	m, err := mapping.NewLoader(mappingPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping: %w", err)
	}

	slog.Debug("Mapping loaded", "path", mappingPath, "categories", len(m.Categories), "entries", m.Len())
	return m, nil
}

// CopyAsset resolves the source image for one entry and copies it to
// <target>/<category>/<id>.png. It never returns an error: every failure
// becomes a missing outcome.
func (c *Copier) CopyAsset(category string, entry mapping.Entry) Outcome {
	outcome := Outcome{
		Category:    category,
		ID:          entry.ID,
		Source:      entry.Source,
		Status:      StatusMissing,
		Destination: filepath.Join(c.cfg.TargetDir, category, entry.FileName()),
	}

	srcFile, reason := ResolveSource(c.cfg.SourceDir, entry.Source)
	if srcFile == "" {
		outcome.Reason = reason
		slog.Debug("Source not resolved", "category", category, "id", entry.ID, "source", entry.Source, "reason", reason)
		return outcome
	}
	outcome.SourceFile = srcFile

	if c.dryRun {
		outcome.Status = StatusCopied
		return outcome
	}

	if err := os.MkdirAll(filepath.Dir(outcome.Destination), 0755); err != nil {
		slog.Error("Failed to create category directory", "path", filepath.Dir(outcome.Destination), "error", err)
		outcome.Reason = err.Error()
		return outcome
	}

	hash, err := copyFile(srcFile, outcome.Destination)
	if err != nil {
		slog.Error("Failed to copy asset", "source", srcFile, "destination", outcome.Destination, "error", err)
		outcome.Reason = err.Error()
		return outcome
	}

	outcome.Status = StatusCopied
	outcome.Hash = hash
	slog.Debug("Copied asset", "source", srcFile, "destination", outcome.Destination, "hash", hash)
	return outcome
}

// ResolveSource finds the image for a source folder name. It returns the
// file path, or an empty path and the reason it could not be found.
// When several images exist the lexicographically smallest name wins.
func ResolveSource(sourceRoot, sourceName string) (string, string) {
	dir := filepath.Join(sourceRoot, sourceName, renderDir)
	if !isDir(dir) {
		return "", ReasonFolderNotFound
	}

	matches, err := doublestar.Glob(os.DirFS(dir), imagePattern, doublestar.WithFilesOnly())
	if err != nil {
		slog.Warn("Failed to search source folder", "dir", dir, "error", err)
		return "", ReasonFileNotFound
	}
	if len(matches) == 0 {
		return "", ReasonFileNotFound
	}

	sort.Strings(matches)
	if len(matches) > 1 {
		slog.Debug("Multiple images found, using first by name", "dir", dir, "count", len(matches), "chosen", matches[0])
	}

	return filepath.Join(dir, matches[0]), ""
}

// copyFile copies src over dst, keeping the permission bits and modification
// time of src. It returns the hex xxh3-128 digest of the copied bytes.
func copyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat source file: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	hasher := xxh3.New()
	if _, err := io.Copy(io.MultiWriter(out, hasher), in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	// OpenFile only applies the mode on create
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", fmt.Errorf("failed to set timestamps: %w", err)
	}

	sum := hasher.Sum128().Bytes()
	return hex.EncodeToString(sum[:]), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
