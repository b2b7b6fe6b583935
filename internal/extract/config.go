package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects how mentions are recognized.
type Method string

const (
	MethodPattern Method = "pattern"
	MethodModel   Method = "model"
	MethodHybrid  Method = "hybrid"
)

var (
	// ErrUnknownMethod is returned for a recognition method name that is
	// not registered.
	ErrUnknownMethod = errors.New("unknown recognition method")
	// ErrModelUnavailable is returned when a model-backed method is
	// requested but no MentionModel was injected.
	ErrModelUnavailable = errors.New("mention model not available")
)

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodPattern, MethodModel, MethodHybrid:
		return m, nil
	case "":
		return MethodPattern, nil
	}
	return "", fmt.Errorf("%w %q (want pattern, model or hybrid)", ErrUnknownMethod, s)
}

// Config holds extraction settings.
type Config struct {
	MinConfidence   float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	ContextWindow   int     `yaml:"context_window" mapstructure:"context_window"`
	Method          string  `yaml:"method" mapstructure:"method"`
	StrictBlacklist bool    `yaml:"strict_blacklist" mapstructure:"strict_blacklist"`
	Workers         int     `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the default extraction settings.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.7,
		ContextWindow:   50,
		Method:          string(MethodPattern),
		StrictBlacklist: true,
	}
}

// Validate checks cfg and returns the parsed method.
func (c Config) Validate() (Method, error) {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return "", fmt.Errorf("min confidence %.2f outside [0,1]", c.MinConfidence)
	}
	if c.ContextWindow < 0 {
		return "", fmt.Errorf("negative context window %d", c.ContextWindow)
	}
	return ParseMethod(c.Method)
}
