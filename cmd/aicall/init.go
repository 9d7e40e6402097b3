package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/aicall/pkg/engine"
	"github.com/germanamz/aicall/pkg/providers/provider"
	"github.com/spf13/cobra"
)

// azureEndpointRef is written for Azure since it has no default endpoint.
const azureEndpointRef = "${AZURE_OPENAI_ENDPOINT}"

func (a *app) initCmd() *cobra.Command {
	var (
		names []string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a provider config file",
		Long: "Create a provider config file. Without --providers an interactive wizard asks which\n" +
			"providers to configure. API keys are written as ${VAR} references by default so the\n" +
			"file can be shared without leaking secrets.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.v.GetString("config")
			if path == "" {
				return usageError{errors.New("no config path; pass --config")}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			var (
				cfg engine.Config
				err error
			)
			if len(names) > 0 {
				cfg, err = defaultConfig(names)
			} else {
				cfg, err = runWizard()
			}
			if err != nil {
				return err
			}

			if err := engine.SaveConfig(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "providers", nil, "configure these providers without prompting (comma separated)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// defaultEntry references the provider's key variable instead of a literal key.
func defaultEntry(p engine.Profile) engine.ProviderConfig {
	pc := engine.ProviderConfig{
		APIKey: "${" + p.EnvVar + "}",
		Model:  p.DefaultModel,
	}
	if p.RequiresEndpoint() {
		pc.Endpoint = azureEndpointRef
	}
	return pc
}

func defaultConfig(names []string) (engine.Config, error) {
	cfg := make(engine.Config, len(names))
	for _, name := range names {
		id, err := provider.Parse(name)
		if err != nil {
			return nil, usageError{err}
		}
		p, _ := engine.LookupProfile(id)
		cfg[string(id)] = defaultEntry(p)
	}
	return cfg, nil
}

func runWizard() (engine.Config, error) {
	profiles := engine.Profiles()
	options := make([]huh.Option[string], 0, len(profiles))
	for _, p := range profiles {
		options = append(options, huh.NewOption(string(p.ID), string(p.ID)))
	}

	var selected []string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Providers to configure").
			Options(options...).
			Validate(func(v []string) error {
				if len(v) == 0 {
					return errors.New("select at least one provider")
				}
				return nil
			}).
			Value(&selected),
	)).Run(); err != nil {
		return nil, err
	}

	cfg := make(engine.Config, len(selected))
	for _, name := range selected {
		p, _ := engine.LookupProfile(provider.ID(name))
		entry, err := wizardProvider(p)
		if err != nil {
			return nil, err
		}
		cfg[name] = entry
	}

	return cfg, nil
}

func wizardProvider(p engine.Profile) (engine.ProviderConfig, error) {
	entry := defaultEntry(p)

	endpointHint := "Leave empty for " + p.DefaultEndpoint
	if p.RequiresEndpoint() {
		endpointHint = "Required; {model} is replaced with the deployment name"
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API key").
			Description("A literal key or a ${VAR} reference").
			Value(&entry.APIKey),
		huh.NewInput().
			Title("Model").
			Value(&entry.Model),
		huh.NewInput().
			Title("Endpoint").
			Description(endpointHint).
			Validate(endpointValidator(p)).
			Value(&entry.Endpoint),
	).Title(string(p.ID))).Run()

	return entry, err
}

func endpointValidator(p engine.Profile) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		switch {
		case s == "" && p.RequiresEndpoint():
			return fmt.Errorf("%s needs an endpoint", p.ID)
		case s == "", strings.HasPrefix(s, "${"):
			return nil
		case !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://"):
			return errors.New("must be an http(s) URL")
		}
		return nil
	}
}
