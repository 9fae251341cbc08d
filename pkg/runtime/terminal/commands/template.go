package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freight-tools/loadsheet/pkg/spreadsheet"
)

type TemplateCmd struct {
	kind    string
	outPath string
}

func NewTemplateCmd() *cobra.Command {
	tc := &TemplateCmd{}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an import template workbook",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.kind, "kind", "", "Record kind: order, price, project or delivery")
	cmd.Flags().StringVar(&tc.outPath, "out", "", "Output path (default <kind>_template.xlsx)")

	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (tc *TemplateCmd) run(cmd *cobra.Command, _ []string) error {
	kind, ok := ParseKind(tc.kind)
	if !ok {
		return fmt.Errorf("unknown record kind %q, expected order, price, project or delivery", tc.kind)
	}

	outPath := tc.outPath
	if outPath == "" {
		outPath = fmt.Sprintf("%s_template.xlsx", kind)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := spreadsheet.WriteTemplate(f, kind); err != nil {
		return err
	}
	cmd.Printf("Template written to %s\n", outPath)
	return nil
}
