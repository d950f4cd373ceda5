// Package edgelist reads undirected edge lists: one pair of integer node
// identifiers per line, from local files, snappy streams, stdin or S3.
package edgelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

var (
	ErrMalformedLine     = errors.New("malformed edge line")
	ErrUnsupportedSource = errors.New("unsupported edge list source")
)

const maxLineBytes = 1 << 20

// Parse reads pairs from r. Blank lines and lines starting with '#' or '%'
// are skipped; columns after the first two are ignored.
func Parse(r io.Reader) ([]linkcom.RawPair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []linkcom.RawPair
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == '%' {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected two node ids, got %q", ErrMalformedLine, line, text)
		}
		a, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, line, err)
		}
		b, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, line, err)
		}
		out = append(out, linkcom.RawPair{A: linkcom.NodeID(a), B: linkcom.NodeID(b)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}
	return out, nil
}
