package report

import (
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

// EdgeRecord is one (cluster, edge) membership row of the Parquet export.
type EdgeRecord struct {
	ClusterID int64   `parquet:"cluster_id"`
	Source    int64   `parquet:"source"`
	Target    int64   `parquet:"target"`
	Edges     int32   `parquet:"mc"`
	Nodes     int32   `parquet:"nc"`
	Threshold float64 `parquet:"threshold"`
}

// Records flattens a result into export rows, in cluster then edge order.
func Records(res *linkcom.Result) []EdgeRecord {
	var rows []EdgeRecord
	for _, c := range res.Clusters {
		mc, nc := int32(c.EdgeCount()), int32(c.NodeCount())
		for _, e := range res.ExternalEdges(c) {
			rows = append(rows, EdgeRecord{
				ClusterID: int64(c.ID),
				Source:    int64(e.A),
				Target:    int64(e.B),
				Edges:     mc,
				Nodes:     nc,
				Threshold: res.Threshold,
			})
		}
	}
	return rows
}

// WriteParquet writes the result as a zstd-compressed Parquet file.
func WriteParquet(w io.Writer, res *linkcom.Result) error {
	pw := parquet.NewGenericWriter[EdgeRecord](w, parquet.Compression(&parquet.Zstd))

	if rows := Records(res); len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			_ = pw.Close()
			return err
		}
	}
	return pw.Close()
}

// WriteParquetFile writes the Parquet export to path atomically.
func WriteParquetFile(path string, res *linkcom.Result) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteParquet(w, res) })
}
