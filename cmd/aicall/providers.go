package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/germanamz/aicall/cmd/aicall/internal/styles"
	"github.com/germanamz/aicall/pkg/engine"
	"github.com/spf13/cobra"
)

type providerRow struct {
	Name            string `json:"name"`
	DefaultModel    string `json:"default_model"`
	DefaultEndpoint string `json:"default_endpoint,omitempty"`
	EnvVar          string `json:"env_var"`
	Auth            string `json:"auth"`
	KeySet          bool   `json:"key_set"`
}

func (a *app) providersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported providers and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rows := providerRows(engine.EnvFromOS())
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			_, err := fmt.Fprintln(a.out, renderProviders(rows))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func providerRows(env engine.Env) []providerRow {
	profiles := engine.Profiles()
	rows := make([]providerRow, 0, len(profiles))
	for _, p := range profiles {
		_, set := env.Lookup(p.EnvVar)
		rows = append(rows, providerRow{
			Name:            string(p.ID),
			DefaultModel:    p.DefaultModel,
			DefaultEndpoint: p.DefaultEndpoint,
			EnvVar:          p.EnvVar,
			Auth:            p.AuthScheme,
			KeySet:          set,
		})
	}
	return rows
}

func renderProviders(rows []providerRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers("PROVIDER", "MODEL", "KEY", "AUTH", "ENDPOINT").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			return styles.TableCellStyle
		})

	for _, r := range rows {
		key := styles.DimStyle.Render(r.EnvVar)
		if r.KeySet {
			key = styles.SuccessStyle.Render(r.EnvVar + " ✓")
		}
		endpoint := r.DefaultEndpoint
		if endpoint == "" {
			endpoint = styles.DimStyle.Render("(required)")
		}
		t.Row(r.Name, r.DefaultModel, key, r.Auth, endpoint)
	}

	return t.Render()
}
