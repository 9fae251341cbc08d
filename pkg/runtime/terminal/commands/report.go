package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/freight-tools/loadsheet/pkg/adapters"
	"github.com/freight-tools/loadsheet/pkg/models/api"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/runtime/terminal/export"
	"github.com/freight-tools/loadsheet/pkg/services/report"
	"github.com/freight-tools/loadsheet/pkg/spreadsheet"
)

type ReportService interface {
	Aggregate(ctx context.Context, spec domain.AggregationSpec) (*domain.AggregatedPage, error)
}

type ReportCmd struct {
	groupBy    []string
	province   string
	city       string
	carriers   []int
	priceMin   string
	priceMax   string
	page       int
	pageSize   int
	exportPath string

	reports  ReportService
	session  *report.Session
	reporter *export.Reporter
}

func NewReportCmd(reports ReportService, session *report.Session, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reports: reports, session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate committed orders into a profit report",
		RunE:  rc.run,
	}

	cmd.Flags().StringSliceVar(&rc.groupBy, "group-by", []string{"province"},
		"Dimensions to group by: province, city, carrier")
	cmd.Flags().StringVar(&rc.province, "province", "", "Filter by destination province")
	cmd.Flags().StringVar(&rc.city, "city", "", "Filter by destination city")
	cmd.Flags().IntSliceVar(&rc.carriers, "carrier", nil, "Filter by carrier code (1 or 2)")
	cmd.Flags().StringVar(&rc.priceMin, "price-min", "", "Lowest unit price to include")
	cmd.Flags().StringVar(&rc.priceMax, "price-max", "", "Highest unit price to include")
	cmd.Flags().IntVar(&rc.page, "page", 0, "Page to show")
	cmd.Flags().IntVar(&rc.pageSize, "page-size", 20, "Groups per page")
	cmd.Flags().StringVar(&rc.exportPath, "export", "", "Write the full report to a workbook instead of printing")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	req := api.AggregateRequest{
		GroupBy: rc.groupBy,
		Filters: api.AggregateFilters{
			DestinationProvince: rc.province,
			DestinationCity:     rc.city,
			Carriers:            rc.carriers,
		},
		Page:     rc.page,
		PageSize: rc.pageSize,
	}
	if rc.priceMin != "" {
		req.Filters.PriceMin = &rc.priceMin
	}
	if rc.priceMax != "" {
		req.Filters.PriceMax = &rc.priceMax
	}

	spec, err := adapters.MapAggregateRequestApiToDomain(req)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	if rc.exportPath != "" {
		return rc.export(ctx, spec)
	}

	spec = rc.session.Resolve(spec)
	page, err := rc.reports.Aggregate(ctx, spec)
	if err != nil {
		return err
	}
	return rc.reporter.HandleReport(spec.GroupBy, page, spec.Page.Index)
}

func (rc *ReportCmd) export(ctx context.Context, spec domain.AggregationSpec) error {
	spec.Page = domain.Page{Index: 1, Size: 1 << 20}
	page, err := rc.reports.Aggregate(ctx, spec)
	if err != nil {
		return err
	}

	f, err := os.Create(rc.exportPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", rc.exportPath, err)
	}
	defer f.Close()

	return spreadsheet.WriteReport(f, spec.GroupBy, page.Items)
}
