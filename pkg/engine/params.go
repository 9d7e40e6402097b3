package engine

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/germanamz/aicall/pkg/providers/provider"
)

const (
	// DefaultMaxTokens is used when Params.MaxTokens is zero.
	DefaultMaxTokens = 1000
	// DefaultTemperature is used when Params.Temperature is nil.
	DefaultTemperature = 0.7
	// MinTemperature and MaxTemperature bound Params.Temperature.
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Params are the caller-supplied inputs of one invocation. Only Provider and
// Prompt are required.
type Params struct {
	Provider     string   // Provider name, matched case-insensitively.
	APIKey       string   //nolint:gosec // caller-supplied credential, not a hardcoded secret
	Prompt       string   // User prompt.
	SystemPrompt string   // Optional instruction text.
	Model        string   // Overrides config file and profile default.
	MaxTokens    int      // Zero means DefaultMaxTokens.
	Temperature  *float64 // Nil means DefaultTemperature; explicit zero is kept.
	Endpoint     string   // Overrides config file and profile default.
	ConfigFile   string   // Optional provider config file.
}

// Validate rejects parameters outside their allowed range. It performs no
// resolution work and no I/O.
func (p Params) Validate() error {
	if _, err := provider.Parse(p.Provider); err != nil {
		return fmt.Errorf("engine: %w: %w", ErrInvalidParameter, err)
	}

	if strings.TrimSpace(p.Prompt) == "" {
		return fmt.Errorf("engine: %w: prompt is required", ErrInvalidParameter)
	}

	if p.Temperature != nil {
		t := *p.Temperature
		if math.IsNaN(t) || t < MinTemperature || t > MaxTemperature {
			return fmt.Errorf("engine: %w: temperature %v outside [%.1f, %.1f]", ErrInvalidParameter, t, MinTemperature, MaxTemperature)
		}
	}

	if p.MaxTokens < 0 {
		return fmt.Errorf("engine: %w: max tokens must be positive, got %d", ErrInvalidParameter, p.MaxTokens)
	}

	if p.Endpoint != "" {
		if err := validateEndpoint(p.Endpoint); err != nil {
			return err
		}
	}

	return nil
}

func (p Params) temperature() float64 {
	if p.Temperature == nil {
		return DefaultTemperature
	}
	return *p.Temperature
}

func (p Params) maxTokens() int {
	if p.MaxTokens == 0 {
		return DefaultMaxTokens
	}
	return p.MaxTokens
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("engine: %w: endpoint: %w", ErrInvalidParameter, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("engine: %w: endpoint %q must be an absolute http(s) URL", ErrInvalidParameter, endpoint)
	}
	return nil
}
