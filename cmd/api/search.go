// ABOUTME: search command: runs one aggregation from the terminal
// ABOUTME: Prints the results as a table or as the same JSON the API returns

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelsearch-api/core/domain"
	"modelsearch-api/pkg/config"
	"modelsearch-api/pkg/featureflags"
)

func runSearch(cmd *cobra.Command, v *viper.Viper, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q (use table or json)", format)
	}

	cfg, err := loadConfig(func() (*config.Config, error) { return config.Load(v) })
	if err != nil {
		return err
	}
	// stdout carries only the results; source warnings go to stderr
	cfg.Log.Level = "warn"
	cfg.Metrics.Enabled = false

	a, err := buildApp(cfg, newLogger(cfg, cmd.ErrOrStderr()), featureflags.NewEnvManager("FEATURE_"))
	if err != nil {
		return err
	}

	results, err := a.service.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	return writeTable(cmd.OutOrStdout(), results)
}

func writeJSON(w io.Writer, results []domain.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeTable(w io.Writer, results []domain.SearchResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("Source", "Title", "Author", "URL")
	for _, r := range results {
		if err := table.Append([]string{string(r.Source), r.Title, r.Author, r.URL}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d results\n", len(results))
	return err
}
