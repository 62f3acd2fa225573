package copier

import (
	"fmt"
	"io"
	"strings"
)

// Status classifies the result of copying one entry
type Status string

const (
	StatusCopied  Status = "copied"
	StatusMissing Status = "missing"
)

// Reasons reported for missing entries
const (
	ReasonFolderNotFound = "folder not found"
	ReasonFileNotFound   = "3D PNG not found"
)

// Outcome is the result of resolve-and-copy for a single mapping entry
type Outcome struct {
	Category    string
	ID          string
	Source      string
	Status      Status
	Reason      string
	SourceFile  string
	Destination string
	Hash        string // xxh3-128 of the copied bytes
}

// Copied reports whether the entry was resolved to a source file
func (o Outcome) Copied() bool {
	return o.Status == StatusCopied
}

// Summary holds the running counters for a copy run
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Copied  int `json:"copied" yaml:"copied"`
	Missing int `json:"missing" yaml:"missing"`
}

// Add counts one outcome
func (s *Summary) Add(o Outcome) {
	s.Total++
	if o.Copied() {
		s.Copied++
	} else {
		s.Missing++
	}
}

// SuccessRate returns copied/total as a percentage. ok is false when nothing was processed.
func (s Summary) SuccessRate() (rate float64, ok bool) {
	if s.Total == 0 {
		return 0, false
	}
	return float64(s.Copied) / float64(s.Total) * 100, true
}

// FormatSuccessRate renders the success rate with one decimal place, or N/A for an empty run
func (s Summary) FormatSuccessRate() string {
	rate, ok := s.SuccessRate()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", rate)
}

var separator = strings.Repeat("=", 50)

// PrintSummary writes the end-of-run summary block
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintln(w, "Asset Copy Summary:")
	fmt.Fprintf(w, "  Total assets: %d\n", s.Total)
	fmt.Fprintf(w, "  Successfully copied: %d\n", s.Copied)
	fmt.Fprintf(w, "  Missing/Not found: %d\n", s.Missing)
	fmt.Fprintf(w, "  Success rate: %s\n", s.FormatSuccessRate())
	fmt.Fprintln(w, separator)
}

func printOutcome(w io.Writer, o Outcome, dryRun bool) {
	switch {
	case o.Copied() && dryRun:
		fmt.Fprintf(w, "→ Would copy: %s/%s.png (from %s)\n", o.Category, o.ID, o.Source)
	case o.Copied():
		fmt.Fprintf(w, "✓ Copied: %s/%s.png (from %s)\n", o.Category, o.ID, o.Source)
	default:
		fmt.Fprintf(w, "✗ Missing: %s (%s)\n", o.Source, o.Reason)
	}
}
