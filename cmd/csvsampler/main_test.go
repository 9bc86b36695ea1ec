package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fr0glo/productsampler/pkg/table"
)

func writeProducts(t *testing.T, path string, n int) {
	b := strings.Builder{}
	b.WriteString("id,name\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,product-%d\n", i, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "products.csv")
	out := filepath.Join(dir, "sample.csv")
	metrics := filepath.Join(dir, "csvsampler.prom")
	writeProducts(t, in, 1000)

	args := []string{
		"-sampler.input-path=" + in,
		"-sampler.output-path=" + out,
		"-metrics.textfile=" + metrics,
		"-log.level=warn",
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, run("csvsampler", args, stdout, stderr))
	assert.Contains(t, stdout.String(), "Sampled:     500 rows (seed 42)")

	first, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 501, strings.Count(string(first), "\n"))
	assert.True(t, strings.HasPrefix(string(first), "id,name\n"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `csvsampler_runs_total{status="success"} 1`)
	assert.Contains(t, string(prom), "csvsampler_rows_sampled_total 500")

	// Deterministic across process runs.
	require.NoError(t, run("csvsampler", args, &bytes.Buffer{}, &bytes.Buffer{}))
	second, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeProducts(t, filepath.Join(dir, "products.csv"), 20)

	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(`
input_path: products.csv
output_path: nested/sample.csv
count: 5
storage:
  backend: filesystem
  filesystem:
    dir: %s
`, dir)), 0o644))

	stdout := &bytes.Buffer{}
	require.NoError(t, run("csvsampler", []string{"-config.file=" + configFile}, stdout, &bytes.Buffer{}))

	b, err := os.ReadFile(filepath.Join(dir, "nested", "sample.csv"))
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(b), "\n"))
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.csv")
	writeProducts(t, small, 300)

	for name, tc := range map[string]struct {
		args    []string
		wantErr error
	}{
		"missing input": {
			args:    []string{"-sampler.input-path=" + filepath.Join(dir, "missing.csv"), "-sampler.output-path=" + filepath.Join(dir, "out1.csv")},
			wantErr: table.ErrNotFound,
		},
		"not enough rows": {
			args:    []string{"-sampler.input-path=" + small, "-sampler.output-path=" + filepath.Join(dir, "out2.csv")},
			wantErr: table.ErrInvalidArgument,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := run("csvsampler", append(tc.args, "-log.level=error"), &bytes.Buffer{}, &bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "unexpected error: %v", err)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no output may be created on failure")
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run("csvsampler", []string{"-sampler.count=-1"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is invalid")

	err = run("csvsampler", []string{"-no-such-flag"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}
