package pattern

import (
	"fmt"
	"regexp"
)

// Spec describes one recognizable variant syntax.
type Spec struct {
	Name           string
	Category       Category
	Regex          *regexp.Regexp
	BaseConfidence float64
	// Specificity decides which candidate survives when spans overlap.
	// Higher wins.
	Specificity int
	// Short marks low-specificity syntaxes (bare amino-acid changes,
	// numeric ranges) that collide with lab jargon and need positive
	// context to keep their score.
	Short bool
}

// Registry is an immutable, ordered set of pattern specs.
// It is safe for concurrent use.
type Registry struct {
	specs  []Spec
	byName map[string]int
}

// NewRegistry validates specs and returns a registry that preserves
// their registration order.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs:  make([]Spec, 0, len(specs)),
		byName: make(map[string]int, len(specs)),
	}
	ranks := make(map[int]string, len(specs))

	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("pattern spec with category %q has no name", s.Category)
		}
		if s.Regex == nil {
			return nil, fmt.Errorf("pattern %q: nil regex", s.Name)
		}
		if s.BaseConfidence < 0 || s.BaseConfidence > 1 {
			return nil, fmt.Errorf("pattern %q: base confidence %.2f outside [0,1]", s.Name, s.BaseConfidence)
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern name %q", s.Name)
		}
		if other, dup := ranks[s.Specificity]; dup {
			return nil, fmt.Errorf("pattern %q: specificity %d already used by %q", s.Name, s.Specificity, other)
		}
		ranks[s.Specificity] = s.Name
		r.byName[s.Name] = len(r.specs)
		r.specs = append(r.specs, s)
	}

	return r, nil
}

// Specs returns the registered specs in registration order.
// The returned slice must not be modified.
func (r *Registry) Specs() []Spec {
	return r.specs
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Lookup returns the spec with the given name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Spec{}, false
	}
	return r.specs[i], true
}

// Index returns the registration position of the named spec, or -1.
func (r *Registry) Index(name string) int {
	i, ok := r.byName[name]
	if !ok {
		return -1
	}
	return i
}
