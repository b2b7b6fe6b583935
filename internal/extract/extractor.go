// Package extract finds variant mentions in free text, scores them
// against the lexicon and selects the accepted set.
package extract

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-varnorm/internal/lexicon"
	"github.com/inodb/vibe-varnorm/internal/metrics"
	"github.com/inodb/vibe-varnorm/internal/pattern"
)

// Extractor runs the pattern registry over text. It holds no mutable
// state after configuration and is safe for concurrent use.
type Extractor struct {
	registry *pattern.Registry
	lexicon  *lexicon.Lexicon
	cfg      Config
	method   Method
	model    MentionModel
	logger   *zap.Logger
	metrics  metrics.Recorder
}

// New creates an extractor. A nil registry or lexicon selects the
// built-in one. An invalid config returns an error wrapping
// ErrUnknownMethod or describing the bad value.
func New(reg *pattern.Registry, lex *lexicon.Lexicon, cfg Config) (*Extractor, error) {
	method, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid extract config: %w", err)
	}
	if reg == nil {
		reg = pattern.DefaultRegistry()
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	cfg.Method = string(method)
	return &Extractor{
		registry: reg,
		lexicon:  lex,
		cfg:      cfg,
		method:   method,
		logger:   zap.NewNop(),
		metrics:  metrics.Nop{},
	}, nil
}

// SetLogger sets the logger for debug and warning messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// SetMetrics sets the telemetry recorder.
func (e *Extractor) SetMetrics(r metrics.Recorder) {
	e.metrics = r
}

// SetModel injects the learned recognizer used by the model and hybrid
// methods.
func (e *Extractor) SetModel(m MentionModel) {
	e.model = m
}

// Config returns the effective configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Method returns the configured recognition method.
func (e *Extractor) Method() Method {
	return e.method
}

// Extract returns every non-overlapping pattern match in text, ordered
// by start offset, each carrying its pattern's base confidence.
// When spans overlap the higher specificity wins, then the longer span,
// then the earlier registered pattern.
func (e *Extractor) Extract(text string) []Candidate {
	if text == "" {
		return nil
	}

	var cands []Candidate
	for i, s := range e.registry.Specs() {
		locs := s.Regex.FindAllStringIndex(text, -1)
		e.metrics.RecordCandidates(s.Name, len(locs))
		for _, loc := range locs {
			if loc[1] <= loc[0] {
				continue
			}
			cands = append(cands, Candidate{
				Text:        text[loc[0]:loc[1]],
				Category:    s.Category,
				Pattern:     s.Name,
				Start:       loc[0],
				End:         loc[1],
				Confidence:  s.BaseConfidence,
				Specificity: s.Specificity,
				Short:       s.Short,
				rank:        i,
			})
		}
	}

	out := resolveOverlaps(cands)
	e.logger.Debug("extracted candidates",
		zap.Int("matches", len(cands)),
		zap.Int("resolved", len(out)))
	return out
}

// resolveOverlaps visits candidates in priority order and accepts each
// one only if no already accepted candidate overlaps it.
func resolveOverlaps(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}

	idx := buildSpanIndex(cands)
	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return outranks(cands[order[a]], cands[order[b]])
	})

	accepted := make([]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, i := range order {
		c := cands[i]
		blocked := false
		for _, j := range idx.overlapping(c.Start, c.End) {
			if accepted[j] {
				blocked = true
				break
			}
		}
		if !blocked {
			accepted[i] = true
			out = append(out, c)
		}
	}

	sortByStart(out)
	return out
}

func outranks(a, b Candidate) bool {
	if a.Specificity != b.Specificity {
		return a.Specificity > b.Specificity
	}
	if a.Len() != b.Len() {
		return a.Len() > b.Len()
	}
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.Start < b.Start
}

func sortByStart(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		return cands[i].End < cands[j].End
	})
}

// Window returns up to width characters of text on each side of the
// byte span [start, end).
func Window(text string, start, end, width int) lexicon.Context {
	start = clampOffset(start, len(text))
	end = clampOffset(end, len(text))
	if end < start {
		end = start
	}
	if width <= 0 {
		return lexicon.Context{}
	}
	from := backRunes(text, start, width)
	to := forwardRunes(text, end, width)
	return lexicon.Context{
		Before: text[from:start],
		After:  text[end:to],
	}
}

// Score applies the blacklist and keyword adjustments to a candidate as
// produced by Extract. A vetoed candidate has confidence 0.
func (e *Extractor) Score(c Candidate, text string) Candidate {
	ctx := Window(text, c.Start, c.End, e.cfg.ContextWindow)
	if e.lexicon.IsBlacklisted(c.Text, ctx, e.cfg.StrictBlacklist) {
		c.Vetoed = true
		c.Confidence = 0
		e.metrics.RecordVeto(string(c.Category))
		e.logger.Debug("candidate vetoed",
			zap.String("text", c.Text),
			zap.String("pattern", c.Pattern),
			zap.Int("start", c.Start))
		return c
	}
	c.Confidence = e.lexicon.Adjust(c.Confidence, c.Short, ctx)
	return c
}

// ScoreAll scores every candidate. The input slice is not modified.
func (e *Extractor) ScoreAll(cands []Candidate, text string) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		out[i] = e.Score(c, text)
	}
	return out
}

// Recognize extracts, scores and selects mentions in text using the
// configured method and minimum confidence.
func (e *Extractor) Recognize(text string) ([]string, error) {
	kept, err := e.recognize(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(kept))
	for i, c := range kept {
		out[i] = c.Text
	}
	return out, nil
}

// RecognizeDetailed is Recognize returning full match records.
func (e *Extractor) RecognizeDetailed(text string) ([]Match, error) {
	kept, err := e.recognize(text)
	if err != nil {
		return nil, err
	}
	return e.toMatches(kept, text), nil
}

func (e *Extractor) recognize(text string) ([]Candidate, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveExtraction(time.Since(start)) }()

	var cands []Candidate
	switch e.method {
	case MethodPattern:
		cands = e.ScoreAll(e.Extract(text), text)
	case MethodModel:
		mc, err := e.predict(text)
		if err != nil {
			return nil, err
		}
		cands = mc
	case MethodHybrid:
		mc, err := e.predict(text)
		if err != nil {
			return nil, err
		}
		// Model candidates sit below every pattern, so they only fill
		// spans no pattern claimed.
		cands = resolveOverlaps(append(e.ScoreAll(e.Extract(text), text), mc...))
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, e.method)
	}

	kept := selectCandidates(cands, e.cfg.MinConfidence)
	counts := make(map[pattern.Category]int)
	for _, c := range kept {
		counts[c.Category]++
	}
	for cat, n := range counts {
		e.metrics.RecordAccepted(string(cat), n)
	}
	return kept, nil
}

// predict runs the injected model and sanitizes its output.
func (e *Extractor) predict(text string) ([]Candidate, error) {
	if e.model == nil {
		return nil, fmt.Errorf("%s method: %w", e.method, ErrModelUnavailable)
	}
	if text == "" {
		return nil, nil
	}
	raw, err := e.model.Predict(text)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", e.model.Name(), err)
	}

	out := make([]Candidate, 0, len(raw))
	for _, c := range raw {
		if c.Start < 0 || c.End > len(text) || c.Start >= c.End {
			e.logger.Warn("dropping model candidate with invalid span",
				zap.String("model", e.model.Name()),
				zap.Int("start", c.Start),
				zap.Int("end", c.End))
			continue
		}
		c.Text = text[c.Start:c.End]
		if c.Category == "" {
			c.Category = pattern.CategoryUnknown
		}
		if c.Pattern == "" {
			c.Pattern = "model:" + e.model.Name()
		}
		c.Confidence = lexicon.Clamp(c.Confidence)
		c.Specificity = 0
		c.rank = e.registry.Len()

		ctx := Window(text, c.Start, c.End, e.cfg.ContextWindow)
		if e.lexicon.IsBlacklisted(c.Text, ctx, e.cfg.StrictBlacklist) {
			c.Vetoed = true
			c.Confidence = 0
			e.metrics.RecordVeto(string(c.Category))
		}
		out = append(out, c)
	}
	return out, nil
}

func (e *Extractor) toMatches(cands []Candidate, text string) []Match {
	out := make([]Match, len(cands))
	for i, c := range cands {
		ctx := Window(text, c.Start, c.End, e.cfg.ContextWindow)
		out[i] = Match{
			Variant:       c.Text,
			Confidence:    c.Confidence,
			Category:      c.Category,
			Pattern:       c.Pattern,
			ContextBefore: ctx.Before,
			ContextAfter:  ctx.After,
			Start:         c.Start,
			End:           c.End,
		}
	}
	return out
}

func clampOffset(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
