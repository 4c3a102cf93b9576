package cli

import (
	"fmt"
	"strconv"

	"tagme-cli/internal/format"

	"github.com/spf13/cobra"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Scan, list and tag files",
	}
	cmd.AddCommand(newFilesScanCmd(app))
	cmd.AddCommand(newFilesListCmd(app))
	cmd.AddCommand(newFilesShowCmd(app))
	cmd.AddCommand(newFilesTagCmd(app))
	cmd.AddCommand(newFilesUntagCmd(app))
	return cmd
}

func newFilesScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <root>",
		Short: "Walk a directory and record its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := s.ScanDir(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"scanned": n}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d entries\n", n)
			return nil
		},
	}
}

func newFilesListCmd(app *App) *cobra.Command {
	var tagIDs []int64
	var allOf bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files, optionally filtered by tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			files, err := s.FilesByTags(cmd.Context(), tagIDs, allOf)
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": files})
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				kind := "file"
				if f.IsDirectory {
					kind = "dir"
				}
				rows = append(rows, []string{
					strconv.FormatInt(f.ID, 10), kind,
					strconv.FormatInt(f.SizeBytes, 10), f.Path,
				})
			}
			return format.WriteTable(cmd.OutOrStdout(), []string{"ID", "KIND", "SIZE", "PATH"}, rows)
		},
	}
	cmd.Flags().Int64SliceVar(&tagIDs, "tag", nil, "Filter by tag id (repeatable)")
	cmd.Flags().BoolVar(&allOf, "all-of", false, "Require every listed tag (default: any)")
	return cmd
}

func newFilesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file-id>",
		Short: "Show one file and its attached tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid file id: %s", args[0]))
			}
			fwt, err := s.FileWithTags(cmd.Context(), fileID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": fwt})
			}
			fmt.Fprintln(cmd.OutOrStdout(), fwt.File.Path)
			for _, t := range fwt.Tags {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d %s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func newFilesTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <path> <tag-id>",
		Short: "Attach a tag to a file (records the file if new)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tagID, err := parseTagID(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			fileID, err := s.AddFileTag(cmd.Context(), args[0], tagID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"fileId": fileID}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tagged file %d\n", fileID)
			return nil
		},
	}
}

func newFilesUntagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <file-id> <tag-id>",
		Short: "Detach a tag from a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid file id: %s", args[0]))
			}
			tagID, err := parseTagID(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RemoveFileTag(cmd.Context(), fileID, tagID); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
