// Package exchange exposes the import and reporting operations over HTTP.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/freight-tools/loadsheet/pkg/adapters"
	"github.com/freight-tools/loadsheet/pkg/models/api"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
	"github.com/freight-tools/loadsheet/pkg/spreadsheet"
)

// Export never truncates: one page swallows every group.
const exportPageSize = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportService interface {
	Import(ctx context.Context, kind domain.RecordKind, r io.Reader) (*importer.Result, error)
}

type ReportService interface {
	Aggregate(ctx context.Context, spec domain.AggregationSpec) (*domain.AggregatedPage, error)
}

type QueryService interface {
	QueryOrders(ctx context.Context) ([]domain.Order, error)
	QueryPrices(ctx context.Context) ([]domain.PriceEntry, error)
}

type Handler struct {
	imports ImportService
	reports ReportService
	queries QueryService
}

func NewHandler(imports ImportService, reports ReportService, queries QueryService) *Handler {
	return &Handler{
		imports: imports,
		reports: reports,
		queries: queries,
	}
}

// Import accepts an uploaded workbook, runs the pipeline and reports the
// outcome. A batch with row errors gets a 422 carrying the full error list.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown import kind %q", chi.URLParam(r, "kind")))
		return
	}

	body, err := uploadBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.imports.Import(ctx, kind, body)
	if err != nil {
		h.respondImportError(w, logger, err)
		return
	}

	response := api.ImportResult{
		BatchID:       result.BatchID,
		AcceptedCount: result.Accepted,
		Errors:        adapters.MapValidationErrorsDomainToApi(result.Errors),
	}
	status := http.StatusOK
	if result.Rejected() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, logger, status, response)
}

// Template serves a downloadable workbook with the kind's header row and
// one example data row.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown template kind %q", chi.URLParam(r, "kind")))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_template.xlsx", kind))
	if err := spreadsheet.WriteTemplate(w, kind); err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to write template")
	}
}

// Aggregate runs one report query and returns the requested page.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	spec, ok := h.decodeSpec(w, r)
	if !ok {
		return
	}

	page, err := h.reports.Aggregate(ctx, spec)
	if err != nil {
		h.respondReportError(w, logger, err)
		return
	}

	pageIndex := spec.Page.Index
	if pageIndex < 1 {
		pageIndex = 1
	}
	writeJSON(w, logger, http.StatusOK, adapters.MapAggregatedPageDomainToApi(page, pageIndex))
}

// Export runs the query over every group and streams the result as a
// workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	spec, ok := h.decodeSpec(w, r)
	if !ok {
		return
	}
	spec.Page = domain.Page{Index: 1, Size: exportPageSize}

	page, err := h.reports.Aggregate(ctx, spec)
	if err != nil {
		h.respondReportError(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=profit_report.xlsx")
	if err := spreadsheet.WriteReport(w, spec.GroupBy, page.Items); err != nil {
		logger.Error().Err(err).Msg("failed to write report export")
	}
}

// ListOrders returns the committed orders held by the remote service,
// paged locally.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	orders, err := h.queries.QueryOrders(ctx)
	if err != nil {
		h.respondReportError(w, logger, err)
		return
	}

	page, size := listPage(r)
	window := pageSlice(orders, page, size)
	items := make([]api.Order, 0, len(window))
	for _, o := range window {
		items = append(items, adapters.MapOrderDomainToApi(o))
	}
	writeJSON(w, logger, http.StatusOK, api.OrderList{Items: items, Total: len(orders), Page: page})
}

// ListPrices returns the configured route prices held by the remote service.
func (h *Handler) ListPrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	prices, err := h.queries.QueryPrices(ctx)
	if err != nil {
		h.respondReportError(w, logger, err)
		return
	}

	page, size := listPage(r)
	window := pageSlice(prices, page, size)
	items := make([]api.PriceEntry, 0, len(window))
	for _, p := range window {
		items = append(items, adapters.MapPriceEntryDomainToApi(p))
	}
	writeJSON(w, logger, http.StatusOK, api.PriceList{Items: items, Total: len(prices), Page: page})
}

const defaultListPageSize = 20

func listPage(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = defaultListPageSize
	}
	return page, size
}

func pageSlice[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (h *Handler) decodeSpec(w http.ResponseWriter, r *http.Request) (domain.AggregationSpec, bool) {
	var req api.AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
		return domain.AggregationSpec{}, false
	}
	spec, err := adapters.MapAggregateRequestApiToDomain(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return domain.AggregationSpec{}, false
	}
	return spec, true
}

func (h *Handler) respondImportError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	var structural *domain.StructuralError
	if errors.As(err, &structural) {
		respondError(w, http.StatusBadRequest, structural.Error())
		return
	}
	var commit *domain.CommitFailure
	if errors.As(err, &commit) {
		logger.Error().Err(err).Str("batch_id", commit.BatchID).Msg("batch commit failed")
		respondError(w, http.StatusBadGateway, commit.Message)
		return
	}
	logger.Error().Err(err).Msg("import failed")
	respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) respondReportError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	var query *domain.QueryFailure
	if errors.As(err, &query) {
		logger.Error().Err(err).Msg("order query failed")
		respondError(w, http.StatusBadGateway, query.Message)
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

// uploadBody accepts either a multipart form with a "file" part or the raw
// workbook as the request body.
func uploadBody(r *http.Request) (io.Reader, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" || !isMultipart(contentType) {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file upload: %w", err)
	}
	return file, nil
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/form-data")
}

func parseKind(raw string) (domain.RecordKind, bool) {
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

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Message: message})
}
