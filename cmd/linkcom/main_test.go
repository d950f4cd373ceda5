package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-linkcom/pkg/config"
	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

const paw = "# triangle with a pendant edge\n1 2\n2 3\n1 3\n3 4\n"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paw.pairs")
	require.NoError(t, os.WriteFile(path, []byte(paw), 0o644))
	return path
}

func TestCluster(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()
	metricsFile := filepath.Join(outDir, "metrics", "linkcom.prom")

	stdout, stderr, err := execute(t, "", input, "0.5",
		"--out-dir", outDir,
		"--format", "both",
		"--metrics-file", metricsFile,
		"--workers", "2",
	)
	require.NoError(t, err, stderr)

	clusters, err := os.ReadFile(filepath.Join(outDir, "paw.clusters"))
	require.NoError(t, err)
	assert.Equal(t, "1,2 1,3 2,3 \n3,4 \n", string(clusters))

	info, err := os.ReadFile(filepath.Join(outDir, "paw.info"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "The partition density is: 0.750000\n")
	assert.Contains(t, string(info), "Threshold used: 0.500000\n")

	for _, name := range []string{"paw.groups", "paw.stats", "paw.parquet"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `linkcom_runs_total{status="success"} 1`)

	assert.Contains(t, stdout, "Partition density")
	assert.Contains(t, stderr, `"msg":"clustering complete"`)
	assert.Contains(t, stderr, `"run_id"`)
}

func TestCluster_Stdin(t *testing.T) {
	outDir := t.TempDir()

	stdout, _, err := execute(t, paw, "-", "1", "--out-dir", outDir, "--quiet", "--log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stats, err := os.ReadFile(filepath.Join(outDir, "stdin.stats"))
	require.NoError(t, err)
	assert.Equal(t, "1 2\n2 3\n1 2\n", string(stats))
}

func TestCluster_Errors(t *testing.T) {
	input := writeInput(t)

	_, _, err := execute(t, "", input, "abc", "--log-level", "error")
	assert.True(t, errors.Is(err, linkcom.ErrInvalidThreshold), "got %v", err)

	_, _, err = execute(t, "", input, "1.5", "--log-level", "error")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig), "got %v", err)

	_, _, err = execute(t, "", input, "0.5", "--format", "csv")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig), "got %v", err)

	_, _, err = execute(t, "")
	assert.Error(t, err, "input is required")

	_, _, err = execute(t, "", filepath.Join(t.TempDir(), "missing.pairs"), "0.5", "--log-level", "error")
	assert.Error(t, err)
}

func TestSweep(t *testing.T) {
	input := writeInput(t)
	outDir := t.TempDir()

	stdout, stderr, err := execute(t, "", "sweep", input,
		"--start", "0", "--stop", "1", "--step", "0.5",
		"--concurrency", "2",
		"--out-dir", outDir,
		"--log-format", "text",
	)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Threshold sweep")
	assert.Contains(t, stdout, "* 0.5000")
	assert.Contains(t, stderr, "best threshold selected")

	info, err := os.ReadFile(filepath.Join(outDir, "paw.info"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Threshold used: 0.500000\n")
}

func TestSweep_InvalidRange(t *testing.T) {
	input := writeInput(t)

	_, _, err := execute(t, "", "sweep", input, "--start", "0.9", "--stop", "0.1")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig), "got %v", err)
}

// blockedOutDir returns an --out-dir value that cannot be created because a
// regular file sits at its parent path.
func blockedOutDir(t *testing.T) string {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	return filepath.Join(blocker, "out")
}

func TestCluster_WriteFailureRecorded(t *testing.T) {
	input := writeInput(t)
	metricsFile := filepath.Join(t.TempDir(), "linkcom.prom")

	_, _, err := execute(t, "", input, "0.5",
		"--out-dir", blockedOutDir(t),
		"--metrics-file", metricsFile,
		"--log-level", "error",
	)
	require.Error(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err, "metrics must be flushed when artifacts fail to write")
	assert.Contains(t, string(prom), `linkcom_runs_total{status="error"} 1`)
	assert.NotContains(t, string(prom), `linkcom_runs_total{status="success"}`)
}

func TestSweep_WriteFailureRecorded(t *testing.T) {
	input := writeInput(t)
	metricsFile := filepath.Join(t.TempDir(), "linkcom.prom")

	_, _, err := execute(t, "", "sweep", input,
		"--step", "0.5",
		"--out-dir", blockedOutDir(t),
		"--metrics-file", metricsFile,
		"--log-level", "error",
		"--quiet",
	)
	require.Error(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `linkcom_runs_total{status="error"} 1`)
	assert.NotContains(t, string(prom), `linkcom_runs_total{status="success"}`)
	assert.Contains(t, string(prom), "linkcom_sweep_points_total 3")
}
