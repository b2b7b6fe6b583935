package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordCandidates("dbsnp", 3)
	r.RecordVeto("protein_short")
	r.RecordAccepted("dbsnp", 1)
	r.RecordNormalization("dbsnp")
	r.ObserveExtraction(time.Millisecond)
}

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.RecordCandidates("dbsnp", 3)
	p.RecordCandidates("dbsnp", 0)
	p.RecordCandidates("hgvs_dna_c", 2)
	p.RecordVeto("protein_short")
	p.RecordVeto("protein_short")
	p.RecordAccepted("dbsnp", 2)
	p.RecordNormalization("hgvs_protein")

	assert.Equal(t, 3.0, testutil.ToFloat64(p.candidates.WithLabelValues("dbsnp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.candidates.WithLabelValues("hgvs_dna_c")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.vetoes.WithLabelValues("protein_short")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.accepted.WithLabelValues("dbsnp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.normalizations.WithLabelValues("hgvs_protein")))
}

func TestPrometheus_Histogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.ObserveExtraction(2 * time.Millisecond)
	p.ObserveExtraction(3 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(p.latency))
	n, err := testutil.GatherAndCount(reg, "varnorm_extract_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheus_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)
	assert.Panics(t, func() { NewPrometheus(reg) })
}

func TestWriteFile(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)
	p.RecordVeto("protein_short")

	path := filepath.Join(t.TempDir(), "varnorm.prom")
	require.NoError(t, WriteFile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `varnorm_extract_vetoes_total{category="protein_short"} 1`))
}
