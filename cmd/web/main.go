package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/freight-tools/loadsheet/pkg/server"
	"github.com/freight-tools/loadsheet/pkg/services/config"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
	"github.com/freight-tools/loadsheet/pkg/services/report"
	"github.com/freight-tools/loadsheet/pkg/store/remote"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the spreadsheet exchange web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "loadsheet.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		cfgPath = env
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	geoIndex, err := geo.Load(cfg.Geography.Path)
	if err != nil {
		return fmt.Errorf("failed to load geography table: %w", err)
	}
	logger.Info().Int("provinces", len(geoIndex.Provinces())).Msg("geography table loaded")

	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	imports := importer.NewImporter(geoIndex, client,
		importer.WithPriceSource(client), importer.WithOrderSource(client))
	reports := report.NewEngine(client)

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Imports: imports,
			Reports: reports,
			Queries: client,
		},
	})

	return api.Start()
}
