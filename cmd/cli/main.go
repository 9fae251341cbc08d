package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/freight-tools/loadsheet/pkg/runtime/terminal"
	"github.com/freight-tools/loadsheet/pkg/services/config"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
	"github.com/freight-tools/loadsheet/pkg/services/report"
	"github.com/freight-tools/loadsheet/pkg/store/remote"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "loadsheet.yaml"
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		cfgPath = env
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	geoIndex, err := geo.Load(cfg.Geography.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)

	cli := terminal.NewCLI(terminal.Options{
		Imports: importer.NewImporter(geoIndex, client,
			importer.WithPriceSource(client), importer.WithOrderSource(client)),
		Reports: report.NewEngine(client),
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
