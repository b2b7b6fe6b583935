package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-varnorm/internal/extract"
	"github.com/inodb/vibe-varnorm/internal/store"
)

// setupHome points HOME at an empty directory so no user config is read.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeText(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	setupHome(t)
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vibe-varnorm version dev")
}

func TestExtract_File(t *testing.T) {
	setupHome(t)
	path := writeText(t, t.TempDir(), "abstract.txt", "The variant MTHFR:c.677C>T is important.")

	out, errOut, err := execute(t, "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "#Document\tVariant\nabstract.txt\tMTHFR:c.677C>T\n", out)
	assert.Contains(t, errOut, "Extracted 1 mentions from 1 documents")
}

func TestExtract_DirectoryKeepsDocumentOrder(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	writeText(t, dir, "a.txt", "BRAF p.V600E in melanoma")
	writeText(t, dir, "b.txt", "We used H3K4me3 antibody in this experiment.")
	writeText(t, dir, "c.txt", "Carriers of rs7412 and del(15)(q11.2q13.1).")

	out, _, err := execute(t, "extract", "--workers", "3", "--normalize", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#Document\tVariant\tNormalized\tNorm_category\tNorm_confidence", lines[0])
	assert.Equal(t, "a.txt\tp.V600E\tp.V600E\thgvs_protein\t0.950", lines[1])
	assert.Equal(t, "c.txt\trs7412\trs7412\tdbsnp\t1.000", lines[2])
	assert.Equal(t, "c.txt\tdel(15)(q11.2q13.1)\tdel(15)(q11.2q13.1)\tchr_aberration\t0.900", lines[3])
}

func TestExtract_StoreAndMetrics(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	path := writeText(t, dir, "abstract.txt", "BRAF p.Val600Glu (c.1799T>A) was found.")
	dbPath := filepath.Join(dir, "runs.db")
	promPath := filepath.Join(dir, "extract.prom")

	_, errOut, err := execute(t, "extract",
		"--store", dbPath, "--store-driver", store.DriverSQLite,
		"--metrics-file", promPath, "-o", filepath.Join(dir, "out.tsv"), path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Recording run")

	st, err := store.Open(store.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	mentions, err := st.MentionsByRun(runs[0].ID)
	require.NoError(t, err)
	require.Len(t, mentions, 2)
	assert.Equal(t, "p.V600E", mentions[0].Normalized)
	assert.Equal(t, "c.1799T>A", mentions[1].Normalized)

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "varnorm_extract_accepted_total")

	out, err := os.ReadFile(filepath.Join(dir, "out.tsv"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "abstract.txt\tp.Val600Glu\n")
}

func TestExtract_ConfigErrors(t *testing.T) {
	setupHome(t)
	path := writeText(t, t.TempDir(), "abstract.txt", "BRAF V600E")

	_, _, err := execute(t, "extract", "--method", "crf", path)
	assert.ErrorIs(t, err, extract.ErrUnknownMethod)

	_, _, err = execute(t, "extract", "--method", "hybrid", path)
	assert.ErrorIs(t, err, extract.ErrModelUnavailable)

	_, _, err = execute(t, "extract", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_ConfigFile(t *testing.T) {
	home := setupHome(t)
	writeText(t, home, ".vibe-varnorm.yaml", "extract:\n  min_confidence: 0.3\n  strict_blacklist: false\n")
	path := writeText(t, t.TempDir(), "abstract.txt", "Loss of H3K4me3 mutation signal")

	out, _, err := execute(t, "extract", path)
	require.NoError(t, err)
	assert.Contains(t, out, "abstract.txt\tH3K4me3\n")

	// Flags win over the config file.
	out, _, err = execute(t, "extract", "--strict-blacklist=true", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "H3K4me3")
}

func TestNormalize(t *testing.T) {
	setupHome(t)
	out, _, err := execute(t, "normalize", "NM_004333.4(BRAF):c.1799T>A", "p.Val600Glu", "rs113488022")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "NM_004333.4(BRAF):c.1799T>A\tc.1799T>A\thgvs_dna_c\t0.950\t"))
	assert.True(t, strings.HasPrefix(lines[2], "p.Val600Glu\tp.V600E\thgvs_protein\t0.950\t"))
	assert.Equal(t, "rs113488022\trs113488022\tdbsnp\t1.000\tid=113488022", lines[3])
}

func TestGroup(t *testing.T) {
	setupHome(t)
	out, _, err := execute(t, "group", "p.Val600Glu", "rs1", "V600E")
	require.NoError(t, err)
	assert.Equal(t, "#Group\tNormalized\tVariant\n"+
		"1\tp.V600E\tp.Val600Glu\n"+
		"1\tp.V600E\tV600E\n"+
		"2\trs1\trs1\n", out)

	out, _, err = execute(t, "group", "--threshold", "0.99", "p.Val600Glu", "V600E")
	require.NoError(t, err)
	assert.Equal(t, "#Group\tNormalized\tVariant\n"+
		"1\tp.val600glu\tp.Val600Glu\n"+
		"2\tv600e\tV600E\n", out)
}

func TestCompare(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	pred := writeText(t, dir, "predicted.txt", "c.677C>T\np.Val600Glu\nrs1\n")
	ref := writeText(t, dir, "reference.txt", "# gold standard\nc.677C>T\nV600E\nrs2\n")

	out, errOut, err := execute(t, "compare", "--predicted", pred, "--reference", ref)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "p.Val600Glu\tV600E\tp.V600E\tnormalized_match", lines[1])
	assert.Contains(t, errOut, "Comparison Summary (4 variants)")
	assert.Contains(t, errOut, "jaccard")

	_, _, err = execute(t, "compare", "--predicted", pred)
	assert.Error(t, err)
}

func TestConfigSetGet(t *testing.T) {
	home := setupHome(t)

	out, _, err := execute(t, "config", "set", "extract.method", "hybrid")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, ".vibe-varnorm.yaml"))

	out, _, err = execute(t, "config", "get", "extract.method")
	require.NoError(t, err)
	assert.Equal(t, "hybrid\n", out)

	out, _, err = execute(t, "config", "get", "extract.min_confidence")
	require.NoError(t, err)
	assert.Equal(t, "0.7\n", out)

	_, _, err = execute(t, "config", "get", "no.such.key")
	assert.Error(t, err)
}
