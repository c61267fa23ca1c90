package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aide-studio/engine/internal/models"
)

var projectsCMD = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "p"},
	Short:   "manage projects",
}

var projectsListCMD = &cobra.Command{
	Use:   "list",
	Short: "list all projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s := newSyncer()
		if err := s.LoadProjects(ctx); err != nil {
			return err
		}
		items := s.Mirror().Snapshot().Projects
		if jsonOutput {
			return printJSON(out(cmd), items)
		}
		tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tMODE\tSTATUS\tUPDATED")
		for _, p := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Mode, p.Status, stamp(p.UpdatedAt))
		}
		return tw.Flush()
	},
}

var (
	createDescription string
	createMode        string
	createStatus      string
	createConfig      string
)

var projectsCreateCMD = &cobra.Command{
	Use:   "create NAME",
	Short: "create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		in := models.CreateProjectInput{Name: args[0], Mode: createMode, Status: createStatus}
		if createDescription != "" {
			in.Description = &createDescription
		}
		if createConfig != "" {
			if err := json.Unmarshal([]byte(createConfig), &in.Config); err != nil {
				return fmt.Errorf("--config must be a JSON object: %v", err)
			}
		}
		p, err := newSyncer().CreateProject(ctx, in)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), p)
		}
		fmt.Fprintln(out(cmd), p.ID)
		return nil
	},
}

var projectsDeleteCMD = &cobra.Command{
	Use:   "delete ID",
	Short: "delete a project; its files and chat history are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return newSyncer().DeleteProject(ctx, args[0])
	},
}

func init() {
	projectsCreateCMD.Flags().StringVar(&createDescription, "description", "", "project description")
	projectsCreateCMD.Flags().StringVar(&createMode, "mode", string(models.ModePlanner), "workflow mode")
	projectsCreateCMD.Flags().StringVar(&createStatus, "status", "", "initial status (default active)")
	projectsCreateCMD.Flags().StringVar(&createConfig, "config", "", "project config as a JSON object")

	projectsCMD.AddCommand(projectsListCMD, projectsCreateCMD, projectsDeleteCMD)
}
