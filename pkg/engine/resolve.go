package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/providers/provider"
)

// Source names where a resolved value came from.
type Source string

const (
	SourceParam   Source = "param"
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceDefault Source = "default"
)

// Resolved is an invocation with every field decided. Producing one performs
// no network I/O.
type Resolved struct {
	Profile      Profile
	APIKey       string //nolint:gosec // resolved credential, not a hardcoded secret
	Model        string
	Endpoint     string // {model} already substituted.
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64

	KeySource      Source
	ModelSource    Source
	EndpointSource Source
}

// Resolve validates p and fills in the API key, model and endpoint.
//
// Precedence per field: explicit parameter, then the config file entry for the
// provider, then (API key only) the provider's environment variable, then
// (model and endpoint only) the profile default.
func (e *Engine) Resolve(p Params) (Resolved, error) {
	if err := p.Validate(); err != nil {
		return Resolved{}, err
	}

	id, _ := provider.Parse(p.Provider)
	prof, ok := e.profiles[id]
	if !ok {
		return Resolved{}, fmt.Errorf("engine: %w: no profile for %s", ErrInvalidParameter, id)
	}

	fileCfg, err := e.loadOverrides(p.ConfigFile, id)
	if err != nil {
		return Resolved{}, err
	}

	r := Resolved{
		Profile:      prof,
		Prompt:       p.Prompt,
		SystemPrompt: p.SystemPrompt,
		MaxTokens:    p.maxTokens(),
		Temperature:  p.temperature(),
	}

	switch {
	case strings.TrimSpace(p.APIKey) != "":
		r.APIKey, r.KeySource = strings.TrimSpace(p.APIKey), SourceParam
	case fileCfg.APIKey != "":
		r.APIKey, r.KeySource = fileCfg.APIKey, SourceConfig
	default:
		if v, ok := e.env.Lookup(prof.EnvVar); ok {
			r.APIKey, r.KeySource = v, SourceEnv
		}
	}
	if r.APIKey == "" {
		return Resolved{}, fmt.Errorf("engine: %s: %w: pass an API key, add ApiKey to the config file or set %s",
			id, ErrMissingCredential, prof.EnvVar)
	}

	switch {
	case p.Model != "":
		r.Model, r.ModelSource = p.Model, SourceParam
	case fileCfg.Model != "":
		r.Model, r.ModelSource = fileCfg.Model, SourceConfig
	default:
		r.Model, r.ModelSource = prof.DefaultModel, SourceDefault
	}

	var endpoint string
	switch {
	case p.Endpoint != "":
		endpoint, r.EndpointSource = p.Endpoint, SourceParam
	case fileCfg.Endpoint != "":
		if err := validateEndpoint(fileCfg.Endpoint); err != nil {
			return Resolved{}, fmt.Errorf("engine: config file entry for %s: %w", id, err)
		}
		endpoint, r.EndpointSource = fileCfg.Endpoint, SourceConfig
	default:
		endpoint, r.EndpointSource = prof.DefaultEndpoint, SourceDefault
	}
	if endpoint == "" {
		return Resolved{}, fmt.Errorf("engine: %s: %w: the provider has no default endpoint; pass one explicitly", id, ErrMissingEndpoint)
	}
	r.Endpoint = modeladapter.ExpandEndpoint(endpoint, r.Model)

	return r, nil
}

// loadOverrides returns the config file entry for id. A missing file and a
// malformed file both yield no override; the malformed case is logged, or
// rejected when the engine runs with strict config.
func (e *Engine) loadOverrides(path string, id provider.ID) (ProviderConfig, error) {
	if path == "" {
		return ProviderConfig{}, nil
	}

	cfg, err := LoadConfig(path, e.env)
	switch {
	case err == nil:
	case errors.Is(err, ErrConfigNotFound):
		e.log.Debug("config file not found, using no overrides", "path", path)
		return ProviderConfig{}, nil
	case e.strictConfig:
		return ProviderConfig{}, fmt.Errorf("engine: %w: %w", ErrInvalidParameter, err)
	default:
		e.log.Warn("ignoring unreadable config file", "path", path, "err", err)
		return ProviderConfig{}, nil
	}

	pc, _ := cfg.Lookup(id)
	return pc, nil
}
