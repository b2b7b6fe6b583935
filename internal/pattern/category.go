// Package pattern holds the registry of variant mention patterns.
package pattern

// Category identifies the kind of variant notation a pattern recognizes.
type Category string

// Variant categories.
const (
	CategoryHGVSCoding    Category = "hgvs_dna_c"
	CategoryHGVSGenomic   Category = "hgvs_dna_g" // g., m. and o. prefixes
	CategoryHGVSNonCoding Category = "hgvs_dna_n"
	CategoryHGVSRNA       Category = "hgvs_rna"
	CategoryHGVSProtein   Category = "hgvs_protein"
	CategoryProteinShort  Category = "protein_short"
	CategoryDbSNP         Category = "dbsnp"
	CategoryChrPosition   Category = "chr_position"
	CategoryChrAberration Category = "chr_aberration"
	CategoryRepeat        Category = "repeat_expansion"
	CategoryNumericRange  Category = "numeric_range"
	CategoryUnknown       Category = "unknown"
)

// IsDNA reports whether c is one of the HGVS nucleotide categories.
func (c Category) IsDNA() bool {
	switch c {
	case CategoryHGVSCoding, CategoryHGVSGenomic, CategoryHGVSNonCoding:
		return true
	}
	return false
}

// IsProtein reports whether c is a protein-level category.
func (c Category) IsProtein() bool {
	return c == CategoryHGVSProtein || c == CategoryProteinShort
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}
