package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

// WriteClusters writes one line per cluster listing its edges as "a,b ".
func WriteClusters(w io.Writer, res *linkcom.Result) error {
	bw := bufio.NewWriter(w)
	for _, c := range res.Clusters {
		for _, e := range res.ExternalEdges(c) {
			fmt.Fprintf(bw, "%d,%d ", e.A, e.B)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGroups writes one line per cluster listing its distinct nodes in
// ascending order.
func WriteGroups(w io.Writer, res *linkcom.Result) error {
	bw := bufio.NewWriter(w)
	for _, c := range res.Clusters {
		for _, n := range res.ExternalNodes(c) {
			fmt.Fprintf(bw, "%d ", n)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteStats writes "mc nc" per cluster.
func WriteStats(w io.Writer, res *linkcom.Result) error {
	bw := bufio.NewWriter(w)
	for _, c := range res.Clusters {
		fmt.Fprintf(bw, "%d %d\n", c.EdgeCount(), c.NodeCount())
	}
	return bw.Flush()
}

// WriteInfo writes the run summary: both densities, the cluster count and
// the threshold.
func WriteInfo(w io.Writer, res *linkcom.Result) error {
	_, err := fmt.Fprintf(w,
		"The partition density is: %s\n"+
			"The partition density not counting one-edge clusters: %s\n"+
			"Number of clusters: %d\n"+
			"Threshold used: %f\n",
		res.Density.PartitionDensity,
		res.Density.ExcludingSingletons,
		len(res.Clusters),
		res.Threshold,
	)
	return err
}

// WriteText writes the four text artifacts.
func WriteText(p Paths, res *linkcom.Result) error {
	writers := []struct {
		path  string
		write func(io.Writer, *linkcom.Result) error
	}{
		{p.Clusters, WriteClusters},
		{p.Groups, WriteGroups},
		{p.Stats, WriteStats},
		{p.Info, WriteInfo},
	}
	for _, wr := range writers {
		write := wr.write
		if err := writeAtomic(wr.path, func(w io.Writer) error { return write(w, res) }); err != nil {
			return err
		}
	}
	return nil
}

// writeAtomic writes to a temporary file in the target directory and renames
// it into place, so readers never see a partial artifact.
func writeAtomic(path string, fill func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
