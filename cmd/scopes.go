package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-scopes/framework/container"
)

var scopesFormat string

var scopesCmd = &cobra.Command{
	Use:   "scopes [name...]",
	Short: "Dump the example directory's scopes",
	Long: `Dump every scope of the example application, or only the named ones.
Nothing is materialized by dumping.

Examples:
  go-scopes scopes
  go-scopes scopes usecase network
  go-scopes scopes --format yaml
  go-scopes scopes -f json | jq '.[].entries'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _, err := bootstrap()
		if err != nil {
			return err
		}

		snaps, err := selectSnapshots(k.Directory(), args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch scopesFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snaps)
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(snaps)
		case "table":
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Scope", "Children", "Key", "Type", "Lazy", "Materialized"})
			for _, s := range snaps {
				children := strings.Join(s.Children, ", ")
				if len(s.Entries) == 0 {
					t.AppendRow(table.Row{s.Name, children, "", "", "", ""})
				}
				for _, e := range s.Entries {
					t.AppendRow(table.Row{s.Name, children, e.Key, e.Type, e.Lazy, e.Materialized})
				}
				t.AppendSeparator()
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		default:
			return fmt.Errorf("unknown format %q (table, json, yaml)", scopesFormat)
		}
	},
}

func selectSnapshots(dir *container.Directory, names []string) ([]container.Snapshot, error) {
	if len(names) == 0 {
		return dir.Snapshots(), nil
	}

	out := make([]container.Snapshot, 0, len(names))
	for _, name := range names {
		reg, ok := dir.Get(name)
		if !ok {
			return nil, fmt.Errorf("scope %q is not declared (have: %s)", name, strings.Join(dir.Names(), ", "))
		}
		out = append(out, reg.Snapshot())
	}
	return out, nil
}

func init() {
	scopesCmd.Flags().StringVarP(&scopesFormat, "format", "f", "table", "output format: table, json, yaml")
	rootCmd.AddCommand(scopesCmd)
}
