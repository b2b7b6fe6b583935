package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/inodb/vibe-varnorm/internal/metrics"
	"github.com/inodb/vibe-varnorm/internal/pattern"
)

// refPart matches a reference sequence or gene symbol prefix, separated
// from the variant by a colon or whitespace.
const refPart = `(?:([A-Z0-9][A-Z0-9_.\-]*(?:\([A-Z0-9_.\-]+\))?)(?::|\s+))?`

var (
	reDbSNP = regexp.MustCompile(`(?i)^rs(\d+)$`)

	// c.677C>T, NM_000059.3:c.5946delT, r.76a>c, g.100_102inv
	reNucleotide = regexp.MustCompile(`(?i)^` + refPart +
		`([cgmnor])\.([*\-]?\d+(?:[+\-]\d+)?)(?:_([*\-]?\d+(?:[+\-]\d+)?))?` +
		`([ACGTUN]+>[ACGTUN]+|delins[ACGTUN]+|del[ACGTUN]*|dup[ACGTUN]*|ins[ACGTUN]+|inv|=)$`)

	// HTT:c.52CAG[>36], c.54_116CAG[21], c.52CAG>36
	reRepeat = regexp.MustCompile(`(?i)^` + refPart +
		`c\.(-?\d+(?:_-?\d+)?)([ACGTN]{1,6})(?:\[(>?\d+)\]|>(\d+))$`)

	reProtein = regexp.MustCompile(`(?i)^` + refPart + `p\.(.+)$`)
	reBareAA  = regexp.MustCompile(`(?i)^` + refPart + `([A-Z*].*\d.*)$`)

	// chr7:140753336A>T, 12:25245350:C:A, 12-25245350-C-A
	reChromAllele = regexp.MustCompile(`(?i)^(?:chr)?(\d{1,2}|X|Y|MT|M)[:\-](\d+)[:\-]?([ACGTN]+)(?:>|[:\-/])?([ACGTN]+)$`)
	// chr7:140753336, chrX:1000-2000
	reChromPosition = regexp.MustCompile(`(?i)^(?:chr)?(\d{1,2}|X|Y|MT|M):(\d+)(?:[\-_](\d+))?$`)

	// del(15)(q11.2q13.1), t(9;22)(q34;q11)
	reAberration = regexp.MustCompile(`(?i)^(del|dup|inv|ins|der|t|i|r)\(([0-9XY;]+)\)\(([0-9pqtercn.;]+)\)$`)
	reChromList  = regexp.MustCompile(`(?i)^(?:\d{1,2}|X|Y)(?:;(?:\d{1,2}|X|Y))*$`)
	reBandList   = regexp.MustCompile(`(?i)^(?:(?:[pq](?:\d{1,2}(?:\.\d{1,3})?|ter)|cen)+)(?:;(?:(?:[pq](?:\d{1,2}(?:\.\d{1,3})?|ter)|cen)+))*$`)
)

// Normalizer renders variant strings in canonical form. It is safe for
// concurrent use.
type Normalizer struct {
	metrics metrics.Recorder
}

// New creates a normalizer.
func New() *Normalizer {
	return &Normalizer{metrics: metrics.Nop{}}
}

// SetMetrics sets the telemetry recorder.
func (n *Normalizer) SetMetrics(r metrics.Recorder) {
	n.metrics = r
}

type parser func(s string) (NormalizedVariant, bool)

// parsers run in order; the first match wins.
var parsers = []parser{
	parseDbSNP,
	parseNucleotide,
	parseRepeat,
	parseProtein,
	parseChromosomal,
	parseAberration,
}

// Normalize parses raw and renders it canonically. Blank input gives an
// empty normalized string with confidence 0. Input no parser recognizes
// is passed through lowercased with confidence 0.1.
func (n *Normalizer) Normalize(raw string) NormalizedVariant {
	v := normalize(raw)
	n.metrics.RecordNormalization(string(v.Category))
	return v
}

// NormalizeAll normalizes each entry of raws independently.
func (n *Normalizer) NormalizeAll(raws []string) []NormalizedVariant {
	out := make([]NormalizedVariant, len(raws))
	for i, r := range raws {
		out[i] = n.Normalize(r)
	}
	return out
}

func normalize(raw string) NormalizedVariant {
	s := norm.NFKC.String(strings.TrimSpace(raw))
	s = strings.TrimSpace(s)
	if s == "" {
		return NormalizedVariant{Original: raw, Category: pattern.CategoryUnknown}
	}

	for _, p := range parsers {
		if v, ok := p(s); ok {
			v.Original = raw
			return v
		}
	}

	return NormalizedVariant{
		Original:   raw,
		Normalized: strings.ToLower(s),
		Category:   pattern.CategoryUnknown,
		Confidence: ConfidenceUnparsed,
	}
}

func parseDbSNP(s string) (NormalizedVariant, bool) {
	m := reDbSNP.FindStringSubmatch(s)
	if m == nil {
		return NormalizedVariant{}, false
	}
	return NormalizedVariant{
		Normalized: "rs" + m[1],
		Category:   pattern.CategoryDbSNP,
		Confidence: ConfidenceExact,
		Components: map[string]string{"id": m[1]},
	}, true
}

func nucleotideCategory(prefix string) pattern.Category {
	switch prefix {
	case "c":
		return pattern.CategoryHGVSCoding
	case "n":
		return pattern.CategoryHGVSNonCoding
	case "r":
		return pattern.CategoryHGVSRNA
	}
	return pattern.CategoryHGVSGenomic
}

func parseNucleotide(s string) (NormalizedVariant, bool) {
	m := reNucleotide.FindStringSubmatch(s)
	if m == nil {
		return NormalizedVariant{}, false
	}
	ref, prefix, start, end, edit := m[1], strings.ToLower(m[2]), m[3], m[4], m[5]

	// RNA bases are written lowercase, DNA bases uppercase.
	bases := strings.ToUpper
	if prefix == "r" {
		bases = strings.ToLower
	}

	comps := map[string]string{KeyPrefix: prefix, KeyStart: start}
	if ref != "" {
		comps[KeyReference] = ref
	}
	if end != "" {
		comps[KeyEnd] = end
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('.')
	b.WriteString(start)
	if end != "" {
		b.WriteByte('_')
		b.WriteString(end)
	}

	conf := ConfidenceStructural
	lower := strings.ToLower(edit)
	switch {
	case strings.HasPrefix(lower, "delins"):
		seq := bases(edit[6:])
		comps[KeyEdit], comps[KeySequence] = EditDelins, seq
		b.WriteString("delins" + seq)
	case strings.HasPrefix(lower, "del"):
		seq := bases(edit[3:])
		comps[KeyEdit] = EditDeletion
		if seq != "" {
			comps[KeySequence] = seq
		}
		b.WriteString("del" + seq)
	case strings.HasPrefix(lower, "dup"):
		seq := bases(edit[3:])
		comps[KeyEdit] = EditDuplication
		if seq != "" {
			comps[KeySequence] = seq
		}
		b.WriteString("dup" + seq)
	case strings.HasPrefix(lower, "ins"):
		seq := bases(edit[3:])
		comps[KeyEdit], comps[KeySequence] = EditInsertion, seq
		b.WriteString("ins" + seq)
	case lower == "inv":
		comps[KeyEdit] = EditInversion
		b.WriteString("inv")
	case lower == "=":
		comps[KeyEdit] = EditIdentity
		b.WriteString("=")
	default:
		refBases, altBases, _ := strings.Cut(edit, ">")
		refBases, altBases = bases(refBases), bases(altBases)
		comps[KeyEdit], comps[KeyRef], comps[KeyAlt] = EditSubstitution, refBases, altBases
		b.WriteString(refBases + ">" + altBases)
		conf = ConfidenceSubstitution
	}

	return NormalizedVariant{
		Normalized: b.String(),
		Category:   nucleotideCategory(prefix),
		Confidence: conf,
		Components: comps,
	}, true
}

func parseRepeat(s string) (NormalizedVariant, bool) {
	m := reRepeat.FindStringSubmatch(s)
	if m == nil {
		return NormalizedVariant{}, false
	}
	ref, pos, unit := m[1], m[2], strings.ToUpper(m[3])
	count := m[4]
	if count == "" {
		count = ">" + m[5]
	}

	comps := map[string]string{
		KeyPrefix:   "c",
		KeyPosition: pos,
		KeyUnit:     unit,
		KeyCount:    count,
		KeyEdit:     EditRepeat,
	}
	if ref != "" {
		comps[KeyReference] = ref
	}
	return NormalizedVariant{
		Normalized: "c." + pos + unit + "[" + count + "]",
		Category:   pattern.CategoryRepeat,
		Confidence: ConfidenceStructural,
		Components: comps,
	}, true
}

// canonicalChrom renders a chromosome name without the chr prefix:
// numbers without leading zeros, X and Y uppercase, MT as M.
func canonicalChrom(c string) (string, bool) {
	switch strings.ToUpper(c) {
	case "X", "Y":
		return strings.ToUpper(c), true
	case "M", "MT":
		return "M", true
	}
	c = strings.TrimLeft(c, "0")
	if c == "" || len(c) > 2 {
		return "", false
	}
	if len(c) == 2 && (c[0] > '2' || (c[0] == '2' && c[1] > '2')) {
		return "", false
	}
	return c, true
}

func parseChromosomal(s string) (NormalizedVariant, bool) {
	if m := reChromAllele.FindStringSubmatch(s); m != nil {
		chrom, ok := canonicalChrom(m[1])
		if !ok {
			return NormalizedVariant{}, false
		}
		ref, alt := strings.ToUpper(m[3]), strings.ToUpper(m[4])
		return NormalizedVariant{
			Normalized: "chr" + chrom + ":" + m[2] + ref + ">" + alt,
			Category:   pattern.CategoryChrPosition,
			Confidence: ConfidenceStructural,
			Components: map[string]string{
				KeyChrom:    chrom,
				KeyPosition: m[2],
				KeyRef:      ref,
				KeyAlt:      alt,
				KeyEdit:     EditSubstitution,
			},
		}, true
	}

	m := reChromPosition.FindStringSubmatch(s)
	if m == nil {
		return NormalizedVariant{}, false
	}
	chrom, ok := canonicalChrom(m[1])
	if !ok {
		return NormalizedVariant{}, false
	}
	comps := map[string]string{KeyChrom: chrom, KeyPosition: m[2]}
	normalized := "chr" + chrom + ":" + m[2]
	if m[3] != "" {
		comps[KeyEnd] = m[3]
		normalized += "-" + m[3]
	}
	return NormalizedVariant{
		Normalized: normalized,
		Category:   pattern.CategoryChrPosition,
		Confidence: ConfidenceStructural,
		Components: comps,
	}, true
}

func parseAberration(s string) (NormalizedVariant, bool) {
	m := reAberration.FindStringSubmatch(s)
	if m == nil || !reChromList.MatchString(m[2]) || !reBandList.MatchString(m[3]) {
		return NormalizedVariant{}, false
	}
	kind := strings.ToLower(m[1])
	chroms := strings.ToUpper(m[2])
	bands := strings.ToLower(m[3])
	return NormalizedVariant{
		Normalized: kind + "(" + chroms + ")(" + bands + ")",
		Category:   pattern.CategoryChrAberration,
		Confidence: ConfidenceStructural,
		Components: map[string]string{
			KeyType:  kind,
			KeyChrom: chroms,
			KeyBands: bands,
		},
	}, true
}
