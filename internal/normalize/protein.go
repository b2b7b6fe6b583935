package normalize

import (
	"strings"

	"github.com/inodb/vibe-varnorm/internal/pattern"
)

// proteinChange is a parsed HGVS protein edit in single letter codes.
type proteinChange struct {
	ref1, ref2 byte
	pos1, pos2 string
	edit       string
	alt        byte   // substitution, frameshift or extension residue
	seq        string // inserted residues
	stop       string // frameshift or extension stop distance
	extTail    string // rendered extension suffix, e.g. "*?" or "-5"
}

// wholeProteinEdits are p. descriptions without a position.
var wholeProteinEdits = map[string]string{
	"=":  EditIdentity,
	"?":  EditUnknown,
	"0":  EditDeletion,
	"0?": EditDeletion,
}

// parseProtein accepts p. descriptions in one or three letter code,
// with or without a reference prefix or parentheses, and bare changes
// such as V600E.
func parseProtein(s string) (NormalizedVariant, bool) {
	var ref, body string
	if m := reProtein.FindStringSubmatch(s); m != nil {
		ref, body = m[1], m[2]
	} else if m := reBareAA.FindStringSubmatch(s); m != nil {
		ref, body = m[1], m[2]
	} else {
		return NormalizedVariant{}, false
	}

	predicted := false
	if len(body) > 2 && body[0] == '(' && body[len(body)-1] == ')' {
		body = body[1 : len(body)-1]
		predicted = true
	}

	comps := map[string]string{KeyPrefix: "p"}
	if ref != "" {
		comps[KeyReference] = ref
	}
	if predicted {
		comps[KeyPredicted] = "true"
	}

	if edit, ok := wholeProteinEdits[body]; ok {
		comps[KeyEdit] = edit
		return NormalizedVariant{
			Normalized: "p." + body,
			Category:   pattern.CategoryHGVSProtein,
			Confidence: ConfidenceStructural,
			Components: comps,
		}, true
	}

	pc, ok := parseProteinBody(body)
	if !ok {
		return NormalizedVariant{}, false
	}

	comps[KeyEdit] = pc.edit
	comps[KeyRef] = string(pc.ref1)
	comps[KeyStart] = pc.pos1
	if pc.pos2 != "" {
		comps[KeyRef] += "_" + string(pc.ref2)
		comps[KeyEnd] = pc.pos2
	}
	if pc.seq != "" {
		comps[KeySequence] = pc.seq
	}
	if pc.stop != "" {
		comps[KeyStopDistance] = pc.stop
	}
	switch {
	case pc.edit == EditFrameshift && pc.alt != 0:
		comps[KeyNewAA] = string(pc.alt)
	case pc.alt != 0:
		comps[KeyAlt] = string(pc.alt)
	}

	conf := ConfidenceStructural
	if pc.edit == EditSubstitution {
		conf = ConfidenceSubstitution
	}
	return NormalizedVariant{
		Normalized: pc.render(),
		Category:   pattern.CategoryHGVSProtein,
		Confidence: conf,
		Components: comps,
	}, true
}

func parseProteinBody(body string) (proteinChange, bool) {
	var pc proteinChange

	i := 0
	var (
		n  int
		ok bool
	)
	if pc.ref1, n = scanAminoAcid(body, i); n == 0 {
		return pc, false
	}
	i += n
	if pc.pos1, n = scanDigits(body, i); n == 0 {
		return pc, false
	}
	i += n

	if i < len(body) && body[i] == '_' {
		i++
		if pc.ref2, n = scanAminoAcid(body, i); n == 0 {
			return pc, false
		}
		i += n
		if pc.pos2, n = scanDigits(body, i); n == 0 {
			return pc, false
		}
		i += n
	}
	ranged := pc.pos2 != ""

	rest := body[i:]
	lower := strings.ToLower(rest)
	switch {
	case lower == "=":
		pc.edit = EditIdentity
	case lower == "?":
		pc.edit = EditUnknown
	case lower == "del":
		pc.edit = EditDeletion
	case lower == "dup":
		pc.edit = EditDuplication
	case strings.HasPrefix(lower, "delins"):
		pc.edit = EditDelins
		if pc.seq, n = scanAminoAcids(rest, 6); n == 0 || 6+n != len(rest) {
			return pc, false
		}
	case strings.HasPrefix(lower, "ins"):
		pc.edit = EditInsertion
		if pc.seq, n = scanAminoAcids(rest, 3); n == 0 || 3+n != len(rest) || !ranged {
			return pc, false
		}
	case strings.HasPrefix(lower, "fs"):
		pc.edit = EditFrameshift
		if pc.stop, ok = parseStop(rest[2:]); !ok {
			return pc, false
		}
	case strings.HasPrefix(lower, "ext"):
		pc.edit = EditExtension
		if pc.extTail, pc.stop, ok = parseExtension(rest[3:], pc.ref1); !ok {
			return pc, false
		}
	default:
		if pc.alt, n = scanAminoAcid(rest, 0); n == 0 {
			return pc, false
		}
		tail := rest[n:]
		lowerTail := strings.ToLower(tail)
		switch {
		case tail == "":
			pc.edit = EditSubstitution
			if pc.ref1 == '*' && pc.alt != '*' {
				// Stop-loss written as a plain substitution.
				pc.edit = EditExtension
				pc.extTail, pc.stop = "*?", "?"
			}
		case strings.HasPrefix(lowerTail, "fs"):
			pc.edit = EditFrameshift
			pc.stop, ok = parseStop(tail[2:])
		case strings.HasPrefix(lowerTail, "ext"):
			pc.edit = EditExtension
			pc.extTail, pc.stop, ok = parseExtension(tail[3:], pc.ref1)
		default:
			return pc, false
		}
		if tail != "" && !ok {
			return pc, false
		}
	}

	// Only deletions, duplications and insertions span a range.
	if ranged {
		switch pc.edit {
		case EditDeletion, EditDuplication, EditInsertion, EditDelins:
		default:
			return pc, false
		}
	}
	return pc, true
}

func (pc proteinChange) render() string {
	var b strings.Builder
	b.WriteString("p.")
	b.WriteByte(pc.ref1)
	b.WriteString(pc.pos1)
	if pc.pos2 != "" {
		b.WriteByte('_')
		b.WriteByte(pc.ref2)
		b.WriteString(pc.pos2)
	}
	switch pc.edit {
	case EditSubstitution:
		b.WriteByte(pc.alt)
	case EditIdentity:
		b.WriteByte('=')
	case EditUnknown:
		b.WriteByte('?')
	case EditDeletion:
		b.WriteString("del")
	case EditDuplication:
		b.WriteString("dup")
	case EditInsertion:
		// Inserted runs use three letter codes: a one letter run such as
		// "SER" would re-read as a single residue.
		b.WriteString("ins" + OneToThree(pc.seq))
	case EditDelins:
		b.WriteString("delins" + OneToThree(pc.seq))
	case EditFrameshift:
		// New residue and stop distance vary between reports of the same
		// frameshift; they are kept in Components only.
		b.WriteString("fs")
	case EditExtension:
		if pc.alt != 0 {
			b.WriteByte(pc.alt)
		}
		b.WriteString("ext" + pc.extTail)
	}
	return b.String()
}

// parseStop reads an optional stop codon (Ter, * or X) followed by an
// optional distance or "?".
func parseStop(s string) (string, bool) {
	s = trimStop(s)
	switch {
	case s == "":
		return "", true
	case s == "?":
		return "?", true
	case isDigits(s):
		return s, true
	}
	return "", false
}

// parseExtension reads the part after "ext". N-terminal extensions
// ("-5") keep their sign; C-terminal ones render as "*N" or "*?".
func parseExtension(s string, ref byte) (tail, stop string, ok bool) {
	if strings.HasPrefix(s, "-") && isDigits(s[1:]) {
		return s, s, true
	}
	stop, ok = parseStop(s)
	if !ok {
		return "", "", false
	}
	if stop == "" {
		if ref != '*' && s == "" {
			return "", "", true
		}
		stop = "?"
	}
	return "*" + stop, stop, true
}

func trimStop(s string) string {
	switch {
	case len(s) >= 3 && strings.EqualFold(s[:3], "ter"):
		return s[3:]
	case len(s) >= 1 && (s[0] == '*' || s[0] == 'X' || s[0] == 'x'):
		return s[1:]
	}
	return s
}

func scanDigits(s string, i int) (string, int) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	return s[i:j], j - i
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, n := scanDigits(s, 0)
	return n == len(s)
}
