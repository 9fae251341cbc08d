package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/runtime/terminal/export"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
)

type ImportService interface {
	Import(ctx context.Context, kind domain.RecordKind, r io.Reader) (*importer.Result, error)
}

type ImportCmd struct {
	filePath string
	kind     string
	imports  ImportService
	reporter *export.Reporter
}

func NewImportCmd(imports ImportService, reporter *export.Reporter) *cobra.Command {
	ic := &ImportCmd{imports: imports, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate and commit a spreadsheet",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.filePath, "file", "", "Path to the workbook to import")
	cmd.Flags().StringVar(&ic.kind, "kind", "", "Record kind: order, price, project or delivery")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	kind, ok := ParseKind(ic.kind)
	if !ok {
		return fmt.Errorf("unknown record kind %q, expected order, price, project or delivery", ic.kind)
	}

	f, err := os.Open(ic.filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ic.filePath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := ic.imports.Import(ctx, kind, f)
	if err != nil {
		return err
	}
	return ic.reporter.HandleImport(result)
}

// ParseKind maps a user-supplied kind name onto a record kind.
func ParseKind(raw string) (domain.RecordKind, bool) {
	switch domain.RecordKind(raw) {
	case domain.RecordKindOrder:
		return domain.RecordKindOrder, true
	case domain.RecordKindPrice:
		return domain.RecordKindPrice, true
	case domain.RecordKindProject:
		return domain.RecordKindProject, true
	case domain.RecordKindDelivery:
		return domain.RecordKindDelivery, true
	}
	return "", false
}
