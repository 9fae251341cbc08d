package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/freight-tools/loadsheet/pkg/runtime/terminal/commands"
	"github.com/freight-tools/loadsheet/pkg/runtime/terminal/export"
	"github.com/freight-tools/loadsheet/pkg/services/report"
)

// CLI represents the command-line interface
type CLI struct {
	imports  commands.ImportService
	reports  commands.ReportService
	session  *report.Session
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Imports commands.ImportService
	Reports commands.ReportService
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		imports:  opts.Imports,
		reports:  opts.Reports,
		session:  report.NewSession(),
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadsheet",
		Short: "Spreadsheet import and profit reporting tool",
	}

	cmd.AddCommand(commands.NewImportCmd(cli.imports, cli.reporter))
	cmd.AddCommand(commands.NewTemplateCmd())
	cmd.AddCommand(commands.NewReportCmd(cli.reports, cli.session, cli.reporter))

	return cmd
}
