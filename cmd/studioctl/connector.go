package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/pkg/utils"
)

var configCMD = &cobra.Command{
	Use:   "config",
	Short: "show or change the OpenRouter connector",
}

var configTest bool

var configShowCMD = &cobra.Command{
	Use:   "show",
	Short: "print the connector settings; the key is shown as a fingerprint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s := newSyncer()
		if err := s.LoadConnector(ctx); err != nil {
			return err
		}
		cfg := s.Mirror().Snapshot().Connector
		if cfg == nil {
			cfg = &models.ConnectorConfig{}
		}
		if cfg.APIKey != nil {
			fp := utils.Fingerprint(*cfg.APIKey)
			cfg.APIKey = &fp
		}
		if jsonOutput {
			return printJSON(out(cmd), cfg)
		}
		tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "connected\t%t\n", cfg.IsConnected)
		fmt.Fprintf(tw, "model\t%s\n", orDash(&cfg.SelectedModel))
		fmt.Fprintf(tw, "key\t%s\n", orDash(cfg.APIKey))
		if configTest {
			fmt.Fprintf(tw, "reachable\t%t\n", s.TestConnection(ctx))
		}
		return tw.Flush()
	},
}

var (
	setAPIKey       string
	setModel        string
	setModelConfigs string
)

var configSetCMD = &cobra.Command{
	Use:   "set",
	Short: "patch the connector settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var patch models.UpdateConnectorInput
		if cmd.Flags().Changed("api-key") {
			patch.APIKey = &setAPIKey
		}
		if cmd.Flags().Changed("model") {
			patch.SelectedModel = &setModel
		}
		if setModelConfigs != "" {
			if err := json.Unmarshal([]byte(setModelConfigs), &patch.ModelConfigs); err != nil {
				return fmt.Errorf("--model-configs must be a JSON object: %v", err)
			}
		}
		cfg, err := newSyncer().UpdateConnector(ctx, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "connected=%t model=%s\n", cfg.IsConnected, cfg.SelectedModel)
		return nil
	},
}

var modelsCMD = &cobra.Command{
	Use:   "models",
	Short: "list models offered by OpenRouter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		list, err := newSyncer().Client().Models(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), list)
		}
		tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCONTEXT\tPROMPT\tCOMPLETION")
		for _, m := range list.Data {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.ID, m.ContextLength, m.Pricing.Prompt, m.Pricing.Completion)
		}
		return tw.Flush()
	},
}

func init() {
	configShowCMD.Flags().BoolVar(&configTest, "test", false, "also send a one-message test chat")
	configSetCMD.Flags().StringVar(&setAPIKey, "api-key", "", "OpenRouter API key (empty falls back to OPENROUTER_API_KEY on the server)")
	configSetCMD.Flags().StringVar(&setModel, "model", "", "selected model id")
	configSetCMD.Flags().StringVar(&setModelConfigs, "model-configs", "", "per-model settings as a JSON object")

	configCMD.AddCommand(configShowCMD, configSetCMD)
}
