// Package output provides tab-delimited formatters for mentions,
// equivalence groups and comparisons.
package output

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-varnorm/internal/equiv"
	"github.com/inodb/vibe-varnorm/internal/extract"
	"github.com/inodb/vibe-varnorm/internal/normalize"
)

// MentionWriter writes accepted mentions in tab-delimited format.
type MentionWriter struct {
	w       *bufio.Writer
	columns []string
	details bool
	norm    bool
}

// NewMentionWriter creates a new mention writer. details adds category,
// confidence, offsets and context columns; norm adds the normalized form.
func NewMentionWriter(w io.Writer, details, norm bool) *MentionWriter {
	columns := []string{"#Document", "Variant"}
	if details {
		columns = append(columns, "Category", "Pattern", "Confidence", "Start", "End",
			"Context_before", "Context_after")
	}
	if norm {
		columns = append(columns, "Normalized", "Norm_category", "Norm_confidence")
	}
	return &MentionWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
		details: details,
		norm:    norm,
	}
}

// WriteHeader writes the header line.
func (mw *MentionWriter) WriteHeader() error {
	_, err := mw.w.WriteString(strings.Join(mw.columns, "\t") + "\n")
	return err
}

// Write writes a single mention. nv is ignored unless the writer was
// created with norm set.
func (mw *MentionWriter) Write(docID string, m extract.Match, nv normalize.NormalizedVariant) error {
	values := []string{orDash(docID), m.Variant}
	if mw.details {
		values = append(values,
			string(m.Category),
			orDash(m.Pattern),
			formatFloat(m.Confidence),
			strconv.Itoa(m.Start),
			strconv.Itoa(m.End),
			orDash(cleanField(m.ContextBefore)),
			orDash(cleanField(m.ContextAfter)),
		)
	}
	if mw.norm {
		values = append(values,
			orDash(nv.Normalized),
			string(nv.Category),
			formatFloat(nv.Confidence),
		)
	}
	_, err := mw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (mw *MentionWriter) Flush() error {
	return mw.w.Flush()
}

// NormalizationWriter writes one row per normalized variant.
type NormalizationWriter struct {
	w *bufio.Writer
}

// NewNormalizationWriter creates a new normalization writer.
func NewNormalizationWriter(w io.Writer) *NormalizationWriter {
	return &NormalizationWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (nw *NormalizationWriter) WriteHeader() error {
	_, err := nw.w.WriteString("#Original\tNormalized\tCategory\tConfidence\tComponents\n")
	return err
}

// Write writes a single normalized variant. Components are rendered as
// sorted key=value pairs separated by semicolons.
func (nw *NormalizationWriter) Write(v normalize.NormalizedVariant) error {
	values := []string{
		cleanField(v.Original),
		orDash(v.Normalized),
		string(v.Category),
		formatFloat(v.Confidence),
		orDash(formatComponents(v.Components)),
	}
	_, err := nw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (nw *NormalizationWriter) Flush() error {
	return nw.w.Flush()
}

// GroupWriter writes equivalence groups, one member per line.
type GroupWriter struct {
	w *bufio.Writer
}

// NewGroupWriter creates a new group writer.
func NewGroupWriter(w io.Writer) *GroupWriter {
	return &GroupWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (gw *GroupWriter) WriteHeader() error {
	_, err := gw.w.WriteString("#Group\tNormalized\tVariant\n")
	return err
}

// WriteGroups writes each group's members numbered from 1 in group order.
func (gw *GroupWriter) WriteGroups(groups []equiv.EquivalenceGroup) error {
	for i, g := range groups {
		id := strconv.Itoa(i + 1)
		for _, m := range g.Members {
			if _, err := gw.w.WriteString(id + "\t" + orDash(g.Normalized) + "\t" + cleanField(m) + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (gw *GroupWriter) Flush() error {
	return gw.w.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// cleanField replaces tabs and line breaks so a value stays in its column.
func cleanField(s string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}

func formatComponents(comps map[string]string) string {
	if len(comps) == 0 {
		return ""
	}
	keys := make([]string, 0, len(comps))
	for k := range comps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + comps[k]
	}
	return strings.Join(parts, ";")
}
