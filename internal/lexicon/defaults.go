package lexicon

// Built-in terms. Blacklist entries are compared case-insensitively
// against the whole candidate text. Keywords match whole words; a
// trailing '*' lets a keyword match any word it begins, so "mutation*"
// also covers "mutations" and "mutational". Negative keywords are kept
// to phrases that cannot be a gene symbol: "kit" alone would penalize
// every KIT mutation.
var (
	defaultBlacklist = []string{
		// Histone marks that look like short protein changes.
		"H3K4me1", "H3K4me2", "H3K4me3", "H3K9me2", "H3K9me3", "H3K9ac",
		"H3K27me3", "H3K27ac", "H3K36me3", "H3K79me2", "H4K16ac", "H4K20me1",
		"H2A", "H2B", "H3K4", "H3K9", "H3K27", "H3K36",
		// Gene, receptor and kinase names with letter-digit-letter shape.
		"E2F", "S6K", "G9A", "A2A", "P2X", "P2Y", "C3A", "C5A", "F8A", "T4L",
		"P4H", "K2P",
		// Reagent, buffer and instrument codes.
		"A549", "H1299", "K562", "T7", "SP6", "M13", "G418", "T4", "P3X",
		"C18", "D10", "F12", "H33", "E64",
	}

	defaultPositive = []string{
		"mutation*", "mutant*", "variant*", "pathogenic", "allele*",
		"polymorphism*", "substitution*", "missense", "nonsense", "frameshift*",
		"carrier*", "germline", "somatic", "heterozygous", "homozygous",
		"genotype*", "snp*", "deletion*", "insertion*", "duplication*", "splice*",
	}

	defaultNegative = []string{
		"buffer*", "antibody", "antibodies", "protocol*", "reagent*",
		"assay kit", "extraction kit", "kit (", "catalog*", "catalogue*",
		"dilution*", "incubation*", "incubated", "clone #", "clone no",
		"primer*", "cell line*", "culture medium", "growth medium",
		"chip-seq", "immunoprecipitation", "western blot*", "staining",
	}
)

// DefaultTerms returns a copy of the built-in term lists.
func DefaultTerms() Terms {
	return Terms{
		Blacklist: append([]string(nil), defaultBlacklist...),
		Positive:  append([]string(nil), defaultPositive...),
		Negative:  append([]string(nil), defaultNegative...),
	}
}
