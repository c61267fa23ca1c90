package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aide-studio/engine/internal/filetree"
	"github.com/aide-studio/engine/internal/models"
)

var filesCMD = &cobra.Command{
	Use:     "files",
	Aliases: []string{"file", "f"},
	Short:   "manage project files",
}

var filesListCMD = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "list files of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s := newSyncer()
		if err := s.SelectProject(ctx, args[0]); err != nil {
			return err
		}
		items := s.Mirror().Snapshot().Files
		if jsonOutput {
			return printJSON(out(cmd), items)
		}
		tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPATH\tLANGUAGE\tUPDATED")
		for _, f := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Path, orDash(f.Language), stamp(f.UpdatedAt))
		}
		return tw.Flush()
	},
}

var filesTreeCMD = &cobra.Command{
	Use:   "tree PROJECT_ID",
	Short: "print the folder tree of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s := newSyncer()
		if err := s.SelectProject(ctx, args[0]); err != nil {
			return err
		}
		tree := s.Mirror().FileTree()
		if jsonOutput {
			return printJSON(out(cmd), tree)
		}
		if tree.Placeholder {
			fmt.Fprintln(out(cmd), "(no files yet, showing starter layout)")
		}
		filetree.Walk(tree.Nodes, func(n *filetree.Node, depth int) {
			name := n.Name
			if n.Type == filetree.TypeFolder {
				name += "/"
			}
			fmt.Fprintf(out(cmd), "%s%s\n", strings.Repeat("  ", depth), name)
		})
		return nil
	},
}

var (
	addLanguage string
	addFrom     string
)

var filesAddCMD = &cobra.Command{
	Use:   "add PROJECT_ID PATH",
	Short: "add a file to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		in := models.CreateFileInput{ProjectID: args[0], Path: args[1]}
		if addFrom != "" {
			raw, err := os.ReadFile(filepath.Clean(addFrom))
			if err != nil {
				return err
			}
			content := string(raw)
			in.Content = &content
		}
		if addLanguage != "" {
			in.Language = &addLanguage
		}
		f, err := newSyncer().CreateFile(ctx, in)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), f)
		}
		fmt.Fprintln(out(cmd), f.ID)
		return nil
	},
}

func init() {
	filesAddCMD.Flags().StringVar(&addLanguage, "language", "", "language hint")
	filesAddCMD.Flags().StringVar(&addFrom, "from", "", "read content from a local file")

	filesCMD.AddCommand(filesListCMD, filesTreeCMD, filesAddCMD)
}
