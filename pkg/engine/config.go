package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/germanamz/aicall/pkg/providers/provider"
	"gopkg.in/yaml.v3"
)

// ProviderConfig holds per-provider overrides read from the config file.
// Every field is optional.
type ProviderConfig struct {
	APIKey   string `json:"ApiKey,omitempty" yaml:"ApiKey,omitempty"` //nolint:gosec // configuration field, not a hardcoded secret
	Endpoint string `json:"Endpoint,omitempty" yaml:"Endpoint,omitempty"`
	Model    string `json:"Model,omitempty" yaml:"Model,omitempty"`
}

// Config maps provider names to their overrides, e.g.
//
//	{"OpenAI": {"ApiKey": "${OPENAI_API_KEY}", "Model": "gpt-4o"}}
type Config map[string]ProviderConfig

// Lookup returns the entry for id. Names match case-insensitively; an exact
// match wins over a case-folded one.
func (c Config) Lookup(id provider.ID) (ProviderConfig, bool) {
	if pc, ok := c[string(id)]; ok {
		return pc, true
	}
	for name, pc := range c {
		if strings.EqualFold(name, string(id)) {
			return pc, true
		}
	}
	return ProviderConfig{}, false
}

// LoadConfig reads a provider config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. ${VAR} references in values are
// expanded against env so keys can stay out of the file.
//
// A missing file wraps ErrConfigNotFound and a parse failure wraps
// ErrConfigMalformed, so callers can tell the two apart.
func LoadConfig(path string, env Env) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("engine: load config: %w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("engine: load config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("engine: parse config %s: %w: %w", path, ErrConfigMalformed, err)
	}

	for name, pc := range cfg {
		cfg[name] = ProviderConfig{
			APIKey:   strings.TrimSpace(env.Expand(pc.APIKey)),
			Endpoint: strings.TrimSpace(env.Expand(pc.Endpoint)),
			Model:    strings.TrimSpace(env.Expand(pc.Model)),
		}
	}

	return cfg, nil
}

// SaveConfig writes cfg as indented JSON (or YAML for .yaml/.yml paths) with
// owner-only permissions, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("engine: create config dir: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("engine: marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("engine: write config: %w", err)
	}

	return nil
}
