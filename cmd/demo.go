package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-scopes/app"
	"github.com/km-arc/go-scopes/framework/container"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Resolve the example services through the root",
	Long: `Build the example application and resolve its services through the root
resolver, showing which concrete type answered each request.

Examples:
  go-scopes demo
  SCOPES_LOG_LEVEL=debug go-scopes demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		k, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		root := k.Root
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Request", "Resolved", "Result"})

		network, ok := container.Get[app.NetworkService](root)
		t.AppendRow(row("NetworkService", network, ok, func() string { return network.Fetch("/ping") }))

		second, ok := container.GetNamed[app.NetworkService](root, app.SecondNetworker)
		t.AppendRow(row("NetworkService#"+app.SecondNetworker, second, ok, func() string { return second.Fetch("/ping") }))

		usecase, ok := container.Get[*app.UseCase](root)
		t.AppendRow(row("*UseCase", usecase, ok, func() string { return usecase.Profile("42") }))

		account, ok := container.Get[app.AccountService](root)
		t.AppendRow(row("AccountService", account, ok, func() string { return account.Owner("42") }))

		t.AppendFooter(table.Row{"", "factory runs", k.Accounts.Builds.Load()})
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func row(request string, v any, ok bool, use func() string) table.Row {
	if !ok {
		return table.Row{request, "-", "not found"}
	}
	return table.Row{request, fmt.Sprintf("%T", v), use()}
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
