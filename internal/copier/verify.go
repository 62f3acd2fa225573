package copier

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kawaiicleanup/assetcopier/internal/mapping"
)

// CategoryCheck holds the verification result for one category
type CategoryCheck struct {
	Name    string
	Assets  int
	Missing []string
}

// VerifyResult is the outcome of checking every mapped destination on disk
type VerifyResult struct {
	Categories []CategoryCheck
	Total      int
	Found      int
	Missing    int
}

// OK reports whether every mapped asset exists
func (r *VerifyResult) OK() bool {
	return r.Missing == 0
}

// Verify checks that <targetDir>/<category>/<id>.png exists for every entry. Nothing is written.
func Verify(targetDir string, m *mapping.Mapping) *VerifyResult {
	result := &VerifyResult{}

	for _, category := range m.Categories {
		check := CategoryCheck{
			Name:   category.Name,
			Assets: len(category.Entries),
		}

		for _, entry := range category.Entries {
			result.Total++
			path := filepath.Join(targetDir, category.Name, entry.FileName())
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				result.Found++
				continue
			}
			check.Missing = append(check.Missing, path)
			result.Missing++
		}

		result.Categories = append(result.Categories, check)
	}

	return result
}

// PrintVerify writes a per-category report followed by totals
func PrintVerify(w io.Writer, r *VerifyResult) {
	fmt.Fprintln(w, "Checking categories:")
	fmt.Fprintln(w)

	for _, check := range r.Categories {
		for _, path := range check.Missing {
			fmt.Fprintf(w, "   ✗ Missing: %s\n", path)
		}
		status := "✓"
		if len(check.Missing) > 0 {
			status = "!"
		}
		fmt.Fprintf(w, "   %s %s: %d assets (%d missing)\n", status, check.Name, check.Assets, len(check.Missing))
	}

	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintln(w, "Verification Results:")
	fmt.Fprintf(w, "  Total assets in mapping: %d\n", r.Total)
	fmt.Fprintf(w, "  Files found: %d\n", r.Found)
	fmt.Fprintf(w, "  Missing files: %d\n", r.Missing)
	fmt.Fprintln(w, separator)
}
