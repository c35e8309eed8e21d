package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "gerenciador",
	Short: "Gerenciador de Itens - inventory items API and web front-end",
	Long: `gerenciador serves a CRUD API for inventory items together with a
browser front-end, and queries a running server from the command line.

Examples:
  # Run the API and the front-end on :8080 backed by SQLite
  gerenciador serve --db-driver sqlite --db-dsn itens.db

  # Show the stats of a running server
  gerenciador stats --server http://localhost:8080

  # List items whose tipo contains "Ferra"
  gerenciador list --tipo Ferra`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (yaml, toml or json)")
	flags.String("log-level", "info", "Log level: debug|info|warn|error")
	flags.String("log-format", "text", "Log format: text|json")
	flags.String("api-path", "/api", "Path of the items API")
	flags.String("server", "", "Base URL of a running server (client commands)")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindPFlag("server.api_path", flags.Lookup("api-path"))
	_ = v.BindPFlag("ui.api_base_url", flags.Lookup("server"))

	addServeFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
}

// @title Gerenciador de Itens API
// @version 1.0
// @description CRUD API for inventory items, dispatched on the endpoint query parameter.
// @host localhost:8080
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
