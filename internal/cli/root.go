package cli

import (
	"fmt"
	"strings"

	"tagme-cli/internal/format"
	"tagme-cli/internal/store"
	"tagme-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Format     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tagme",
		Short:        "Organize files with a hierarchical tag tree (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tagme

  # Scriptable commands
  tagme tags list --tree
  tagme tags move 4 --into 2
  tagme files list --tag 2 --tag 7 --all-of
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Workspace directory (default: nearest .tagme, else ./.tagme)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format: table (default) or json")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newFilesCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openStore(app)
	if err != nil {
		return err
	}
	return tui.Run(s)
}

func openStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func jsonOutput(app *App) bool {
	return strings.EqualFold(strings.TrimSpace(app.Format), "json")
}
