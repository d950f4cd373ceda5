// Package report writes clustering results: the plain-text artifacts
// (.clusters, .groups, .stats, .info), a Parquet export and a terminal
// summary.
package report

import (
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-linkcom/pkg/edgelist"
)

// Paths names every artifact produced for one input.
type Paths struct {
	Clusters string
	Groups   string
	Stats    string
	Info     string
	Parquet  string
}

// PathsFor derives artifact names from an input source. The stem is the
// input's file name up to its first '.', placed in outDir when set and next
// to the input otherwise. stdin and S3 inputs default to the working
// directory.
func PathsFor(input, outDir string) Paths {
	name := edgelist.BaseName(input)

	dir := outDir
	if dir == "" {
		if input == "-" || strings.HasPrefix(input, "s3://") {
			dir = "."
		} else {
			dir = filepath.Dir(name)
		}
	}

	stem := filepath.Base(name)
	if i := strings.IndexByte(stem, '.'); i > 0 {
		stem = stem[:i]
	}

	base := filepath.Join(dir, stem)
	return Paths{
		Clusters: base + ".clusters",
		Groups:   base + ".groups",
		Stats:    base + ".stats",
		Info:     base + ".info",
		Parquet:  base + ".parquet",
	}
}
