package pattern

import (
	"regexp"
	"sync"
)

// Regex fragments shared by the default patterns. Every pattern is
// compiled case-insensitive.
const (
	// refPrefix is an optional reference sequence or gene symbol such as
	// "NM_000059.3:", "MTHFR:" or "NM_004333.4(BRAF):".
	refPrefix = `(?:\b[A-Z0-9][A-Z0-9_.\-]*(?:\([A-Z0-9_.\-]+\))?:)?`

	// dnaPos covers plain, UTR (*, -) and intronic (+/-offset) positions.
	dnaPos   = `[*\-]?\d+(?:[+\-]\d+)?`
	dnaRange = dnaPos + `(?:_` + dnaPos + `)?`
	dnaEdit  = `(?:[ACGTN]+>[ACGTN]+|delins[ACGTN]+|del[ACGTN]*|dup[ACGTN]*|ins[ACGTN]+|inv|=)`

	genomicRange = `\d+(?:_\d+)?`

	rnaEdit = `(?:[ACGUN]+>[ACGUN]+|delins[ACGUN]+|del[ACGUN]*|dup[ACGUN]*|ins[ACGUN]+|inv|=)`

	aminoAcid = `(?:Ala|Arg|Asn|Asp|Cys|Gln|Glu|Gly|His|Ile|Leu|Lys|Met|Phe|Pro|Ser|Thr|Trp|Tyr|Val|Sec|Pyl|Ter|Xaa|[ACDEFGHIKLMNPQRSTVWYUOX*])`

	frameshift = `fs(?:Ter|\*)?\d*`
	extension  = `ext(?:Ter|\*|-)?(?:\?|\d+)?`

	proteinEdit = `(?:delins(?:` + aminoAcid + `){1,20}` +
		`|del|dup` +
		`|ins(?:` + aminoAcid + `){1,20}` +
		`|` + frameshift +
		`|` + extension +
		`|` + aminoAcid + `(?:` + frameshift + `|` + extension + `)?` +
		`|=|\?)`
	proteinBody = `(?:` + aminoAcid + `\d+(?:_` + aminoAcid + `\d+)?` + proteinEdit + `|=|\?|0\??)`

	chromName = `(?:[1-9]|1\d|2[0-2]|X|Y|MT|M)`
	band      = `(?:[pq](?:\d{1,2}(?:\.\d{1,3})?|ter)|cen)`
	bandList  = band + `{1,4}`
)

// Names of the default patterns.
const (
	NameRepeat        = "repeat_expansion"
	NameHGVSProtein   = "hgvs_protein"
	NameHGVSCoding    = "hgvs_dna_c"
	NameHGVSGenomic   = "hgvs_dna_g"
	NameHGVSNonCoding = "hgvs_dna_n"
	NameHGVSRNA       = "hgvs_rna"
	NameAberration    = "chr_aberration"
	NameChrAllele     = "chr_position_allele"
	NameChrPosition   = "chr_position"
	NameDbSNP         = "dbsnp"
	NameProteinShort  = "protein_short"
	NameNumericRange  = "numeric_range"
)

func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// DefaultSpecs returns the built-in pattern table, most specific first.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:           NameRepeat,
			Category:       CategoryRepeat,
			Regex:          compile(refPrefix + `\bc\.-?\d+(?:_-?\d+)?[ACGTN]{1,6}(?:\[\d+\]|\[>\d+\]|>\d+)`),
			BaseConfidence: 0.9,
			Specificity:    95,
		},
		{
			Name:           NameHGVSProtein,
			Category:       CategoryHGVSProtein,
			Regex:          compile(refPrefix + `\bp\.(?:\(` + proteinBody + `\)|` + proteinBody + `)`),
			BaseConfidence: 0.95,
			Specificity:    90,
		},
		{
			Name:           NameHGVSCoding,
			Category:       CategoryHGVSCoding,
			Regex:          compile(refPrefix + `\bc\.` + dnaRange + dnaEdit),
			BaseConfidence: 0.95,
			Specificity:    85,
		},
		{
			Name:           NameHGVSGenomic,
			Category:       CategoryHGVSGenomic,
			Regex:          compile(refPrefix + `\b[gmo]\.` + genomicRange + dnaEdit),
			BaseConfidence: 0.95,
			Specificity:    84,
		},
		{
			Name:           NameHGVSNonCoding,
			Category:       CategoryHGVSNonCoding,
			Regex:          compile(refPrefix + `\bn\.` + dnaRange + dnaEdit),
			BaseConfidence: 0.9,
			Specificity:    83,
		},
		{
			Name:           NameHGVSRNA,
			Category:       CategoryHGVSRNA,
			Regex:          compile(refPrefix + `\br\.` + dnaRange + rnaEdit),
			BaseConfidence: 0.9,
			Specificity:    82,
		},
		{
			Name:     NameAberration,
			Category: CategoryChrAberration,
			Regex: compile(`\b(?:del|dup|inv|ins|der|t|i|r)` +
				`\((?:\d{1,2}|X|Y)(?:;(?:\d{1,2}|X|Y)){0,3}\)` +
				`\(` + bandList + `(?:;` + bandList + `){0,3}\)`),
			BaseConfidence: 0.9,
			Specificity:    80,
		},
		{
			Name:           NameChrAllele,
			Category:       CategoryChrPosition,
			Regex:          compile(`\bchr` + chromName + `:\d+:?[ACGTN]+[>:/]?[ACGTN]+\b`),
			BaseConfidence: 0.9,
			Specificity:    70,
		},
		{
			Name:           NameChrPosition,
			Category:       CategoryChrPosition,
			Regex:          compile(`\bchr` + chromName + `:\d+(?:[\-_]\d+)?\b`),
			BaseConfidence: 0.75,
			Specificity:    60,
		},
		{
			Name:           NameDbSNP,
			Category:       CategoryDbSNP,
			Regex:          compile(`\brs\d+\b`),
			BaseConfidence: 0.98,
			Specificity:    50,
		},
		{
			// Histone modification suffixes are absorbed so a mark such as
			// H3K4me3 surfaces as one candidate for the blacklist.
			Name:     NameProteinShort,
			Category: CategoryProteinShort,
			Regex: compile(`\b[ACDEFGHIKLMNPQRSTVWY][1-9]\d{0,4}` +
				`(?:[ACDEFGHIKLMNPQRSTVWY](?:\d{1,3}(?:me[1-3]?|ac|ub|ph|cr))?\b|\*)`),
			BaseConfidence: 0.6,
			Specificity:    20,
			Short:          true,
		},
		{
			Name:           NameNumericRange,
			Category:       CategoryNumericRange,
			Regex:          compile(`\b\d+_\d+(?:delins[ACGTN]+|del[ACGTN]*|dup[ACGTN]*|ins[ACGTN]+|inv)?\b`),
			BaseConfidence: 0.4,
			Specificity:    10,
			Short:          true,
		},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared registry built from DefaultSpecs.
// It panics if the built-in table is invalid.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(DefaultSpecs()...)
		if err != nil {
			panic("pattern: invalid default registry: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
