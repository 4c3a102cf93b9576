package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tagme-cli/internal/dragdrop"
	"tagme-cli/internal/format"
	"tagme-cli/internal/model"
	"tagme-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag hierarchy",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsRenameCmd(app))
	cmd.AddCommand(newTagsColorCmd(app))
	cmd.AddCommand(newTagsMoveCmd(app))
	cmd.AddCommand(newTagsRmCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags in (parent, position) order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tags, err := s.GetAllTags(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": tags})
			}
			if tree {
				for _, line := range treeLines(tags) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				parent := "-"
				if t.ParentID != nil {
					parent = strconv.FormatInt(*t.ParentID, 10)
				}
				color := "-"
				if t.Color != nil {
					color = *t.Color
				}
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10), t.Name, parent,
					strconv.Itoa(t.Position), color,
				})
			}
			return format.WriteTable(cmd.OutOrStdout(), []string{"ID", "NAME", "PARENT", "POS", "COLOR"}, rows)
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Render as an indented tree")
	return cmd
}

func newTagsAddCmd(app *App) *cobra.Command {
	var parent int64
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag (appended last among its siblings)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var parentID *int64
			if cmd.Flags().Changed("parent") {
				parentID = &parent
			}
			var colorPtr *string
			if strings.TrimSpace(color) != "" {
				c := strings.TrimSpace(color)
				colorPtr = &c
			}
			id, err := s.CreateTag(cmd.Context(), args[0], parentID, colorPtr)
			if err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id}})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created tag %d\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&parent, "parent", 0, "Parent tag id (omit for root level)")
	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #88cc66")
	return cmd
}

func newTagsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTagID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RenameTag(cmd.Context(), id, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newTagsColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color <id> <color>",
		Short: "Set a tag's display color (use \"-\" to clear)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTagID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var color *string
			if args[1] != "-" {
				color = &args[1]
			}
			if err := s.SetTagColor(cmd.Context(), id, color); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newTagsMoveCmd(app *App) *cobra.Command {
	var before, after, into int64
	var toRoot bool
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Reparent and/or reorder a tag",
		Long: strings.TrimSpace(`
Move a tag relative to another. Exactly one of --before, --after, --into or
--root must be given. The move is rejected when the destination sits inside
the moved tag's own subtree.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTagID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			set := 0
			for _, changed := range []bool{
				cmd.Flags().Changed("before"),
				cmd.Flags().Changed("after"),
				cmd.Flags().Changed("into"),
				toRoot,
			} {
				if changed {
					set++
				}
			}
			if set != 1 {
				return writeErr(cmd, errors.New("provide exactly one of --before, --after, --into or --root"))
			}

			tags, err := s.GetAllTags(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			nodes := store.Nodes(tags)
			if _, ok := findTag(tags, id); !ok {
				return writeErr(cmd, errNotFound("tag", args[0]))
			}

			var act dragdrop.DropAction
			var ok bool
			switch {
			case toRoot:
				rootCount := 0
				for _, t := range tags {
					if t.ParentID == nil {
						rootCount++
					}
				}
				act = dragdrop.DropAction{Kind: dragdrop.DropToRoot, NewPosition: rootCount}
				ok = true
			case cmd.Flags().Changed("before"):
				// The before/after/into flags map onto the hover zones the
				// TUI drop path uses, so the same classifier and guard apply.
				act, ok = dragdrop.ClassifyDrop(nodes, id, before, 0.1)
			case cmd.Flags().Changed("after"):
				act, ok = dragdrop.ClassifyDrop(nodes, id, after, 0.9)
			default:
				act, ok = dragdrop.ClassifyDrop(nodes, id, into, 0.5)
			}
			if !ok {
				return writeErr(cmd, errors.New("invalid move: target is the tag itself or inside its subtree"))
			}

			if err := s.MoveTag(cmd.Context(), id, act.NewParentID, act.NewPosition); err != nil {
				return writeErr(cmd, err)
			}
			if jsonOutput(app) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"id":       id,
					"action":   string(act.Kind),
					"parentId": act.NewParentID,
					"position": act.NewPosition,
				}})
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&before, "before", 0, "Place before this tag id")
	cmd.Flags().Int64Var(&after, "after", 0, "Place after this tag id")
	cmd.Flags().Int64Var(&into, "into", 0, "Place as first child of this tag id")
	cmd.Flags().BoolVar(&toRoot, "root", false, "Move to the end of the root level")
	return cmd
}

func newTagsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTagID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeleteTag(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func parseTagID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tag id: %s", s)
	}
	return id, nil
}

func findTag(tags []model.Tag, id int64) (model.Tag, bool) {
	for _, t := range tags {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tag{}, false
}

// treeLines renders the tag forest as indented "id name" lines in
// (parent, position) order.
func treeLines(tags []model.Tag) []string {
	childrenOf := func(parent *int64) []model.Tag {
		out := []model.Tag{}
		for _, t := range tags {
			if parent == nil && t.ParentID == nil {
				out = append(out, t)
			} else if parent != nil && t.ParentID != nil && *t.ParentID == *parent {
				out = append(out, t)
			}
		}
		return out
	}

	var lines []string
	var walk func(parent *int64, depth int)
	walk = func(parent *int64, depth int) {
		for _, t := range childrenOf(parent) {
			lines = append(lines, fmt.Sprintf("%s%d %s", strings.Repeat("  ", depth), t.ID, t.Name))
			id := t.ID
			walk(&id, depth+1)
		}
	}
	walk(nil, 0)
	return lines
}
