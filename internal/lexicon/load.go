package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads YAML term overrides from path and merges them into the
// built-in terms. An override file may also drop built-in terms by
// setting replace: true.
//
//	replace: false
//	blacklist: [BRD4]
//	positive: [oncogenic, "driver*"]
//	negative: [plasmid*]
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file: %w", err)
	}

	var override struct {
		Terms   Terms `yaml:",inline"`
		Replace bool  `yaml:"replace"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing lexicon file %s: %w", path, err)
	}

	terms := override.Terms
	if !override.Replace {
		terms = Merge(DefaultTerms(), override.Terms)
	}
	return New(terms)
}

// Merge appends the lists in extra to base. Duplicates are removed
// when the Lexicon is built.
func Merge(base, extra Terms) Terms {
	return Terms{
		Blacklist: append(base.Blacklist, extra.Blacklist...),
		Positive:  append(base.Positive, extra.Positive...),
		Negative:  append(base.Negative, extra.Negative...),
	}
}
