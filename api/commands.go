package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/config"
)

func newAPIClient() (*client.Client, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return client.New(cfg.UI.APIBaseURL, client.WithAPIPath(cfg.Server.APIPath)), nil
}

func printJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the stats of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient()
			if err != nil {
				return err
			}
			stats, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newListCmd() *cobra.Command {
	var filter client.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active items of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient()
			if err != nil {
				return err
			}
			items, err := c.ListItems(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&filter.Nome, "nome", "", "Only items whose nome contains this text")
	cmd.Flags().StringVar(&filter.Tipo, "tipo", "", "Only items whose tipo contains this text")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import items from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := c.ImportCSV(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		filter client.Filter
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active items as csv or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := c.ExportItems(cmd.Context(), filter, format, w); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Nome, "nome", "", "Only items whose nome contains this text")
	cmd.Flags().StringVar(&filter.Tipo, "tipo", "", "Only items whose tipo contains this text")
	cmd.Flags().StringVar(&format, "formato", "csv", "Output format: csv|json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
