package normalize

import "strings"

// aminoAcidOneToThree converts single letter amino acid codes to three letter codes.
var aminoAcidOneToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'U': "Sec", 'O': "Pyl",
	'*': "Ter", 'X': "Xaa",
}

// aminoAcidThreeToOne maps lowercased three-letter codes to single letters.
var aminoAcidThreeToOne map[string]byte

func init() {
	aminoAcidThreeToOne = make(map[string]byte, len(aminoAcidOneToThree))
	for one, three := range aminoAcidOneToThree {
		aminoAcidThreeToOne[strings.ToLower(three)] = one
	}
}

// ToOneLetter converts a one or three letter amino acid code to its
// single letter form. Lookup is case-insensitive; "*" and "Ter" both
// give "*".
func ToOneLetter(code string) (string, bool) {
	switch len(code) {
	case 1:
		c := upper(code[0])
		if _, ok := aminoAcidOneToThree[c]; ok {
			return string(c), true
		}
	case 3:
		if c, ok := aminoAcidThreeToOne[strings.ToLower(code)]; ok {
			return string(c), true
		}
	}
	return "", false
}

// ToThreeLetter converts a one or three letter amino acid code to its
// three letter form, e.g. "v" -> "Val", "*" -> "Ter".
func ToThreeLetter(code string) (string, bool) {
	one, ok := ToOneLetter(code)
	if !ok {
		return "", false
	}
	return aminoAcidOneToThree[one[0]], true
}

// ThreeToOne rewrites a run of three letter codes such as "ArgSer" as
// single letters ("RS"). Unrecognized input is returned unchanged.
func ThreeToOne(s string) string {
	if len(s) == 0 || len(s)%3 != 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += 3 {
		c, ok := aminoAcidThreeToOne[strings.ToLower(s[i:i+3])]
		if !ok {
			return s
		}
		b.WriteByte(c)
	}
	return b.String()
}

// OneToThree rewrites a run of single letter codes such as "RS" as
// three letter codes ("ArgSer"). Unrecognized input is returned unchanged.
func OneToThree(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		three, ok := aminoAcidOneToThree[upper(s[i])]
		if !ok {
			return s
		}
		b.WriteString(three)
	}
	return b.String()
}

// scanAminoAcid reads one amino acid code at s[i:], preferring a three
// letter code over a single letter. It returns the single letter form
// and the number of bytes consumed, or 0, 0.
func scanAminoAcid(s string, i int) (byte, int) {
	if i+3 <= len(s) {
		if c, ok := aminoAcidThreeToOne[strings.ToLower(s[i:i+3])]; ok {
			return c, 3
		}
	}
	if i < len(s) {
		c := upper(s[i])
		if _, ok := aminoAcidOneToThree[c]; ok {
			return c, 1
		}
	}
	return 0, 0
}

// scanAminoAcids reads a run of amino acid codes until a non-code byte.
func scanAminoAcids(s string, i int) (string, int) {
	var b strings.Builder
	start := i
	for i < len(s) {
		c, n := scanAminoAcid(s, i)
		if n == 0 {
			break
		}
		b.WriteByte(c)
		i += n
	}
	return b.String(), i - start
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
