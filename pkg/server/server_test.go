package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/api"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
)

type mockImportService struct {
	mock.Mock
}

func (m *mockImportService) Import(ctx context.Context, kind domain.RecordKind, r io.Reader) (*importer.Result, error) {
	args := m.Called(ctx, kind, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Result), args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Aggregate(ctx context.Context, spec domain.AggregationSpec) (*domain.AggregatedPage, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AggregatedPage), args.Error(1)
}

type mockQueryService struct {
	mock.Mock
}

func (m *mockQueryService) QueryOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockQueryService) QueryPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceEntry), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	imports := new(mockImportService)
	reports := new(mockReportService)
	queries := new(mockQueryService)

	router := ConfigureRouter(&logger, Dependencies{
		Imports: imports,
		Reports: reports,
		Queries: queries,
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	t.Run("Import", func(t *testing.T) {
		imports.On("Import", mock.Anything, domain.RecordKindPrice, mock.Anything).
			Return(&importer.Result{BatchID: "b-1", Accepted: 2}, nil).Once()

		resp, err := http.Post(testServer.URL+"/api/v1/imports/price",
			"application/octet-stream", strings.NewReader("workbook"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result api.ImportResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "b-1", result.BatchID)
		assert.Equal(t, 2, result.AcceptedCount)
	})

	t.Run("Import unknown kind", func(t *testing.T) {
		resp, err := http.Post(testServer.URL+"/api/v1/imports/warehouse",
			"application/octet-stream", strings.NewReader("workbook"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Template", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/templates/project")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, "项目名称", rows[0][0])
	})

	t.Run("Aggregate", func(t *testing.T) {
		reports.On("Aggregate", mock.Anything, mock.Anything).
			Return(&domain.AggregatedPage{
				Items: []domain.AggregatedRow{{
					Keys:    []string{"江苏省"},
					Weight:  decimal.RequireFromString("15"),
					Income:  decimal.RequireFromString("14500"),
					Expense: decimal.RequireFromString("9000"),
					Profit:  decimal.RequireFromString("5500"),
				}},
				Total: 1,
			}, nil).Once()

		resp, err := http.Post(testServer.URL+"/api/v1/reports/aggregate",
			"application/json", strings.NewReader(`{"group_by":["province"]}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result api.AggregateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 1, result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "5500.00", result.Items[0].Profit)
	})

	t.Run("List orders", func(t *testing.T) {
		queries.On("QueryOrders", mock.Anything).
			Return([]domain.Order{{
				OrderNumber: "SO-1",
				Weight:      decimal.RequireFromString("5"),
				UnitPrice:   decimal.RequireFromString("1000"),
				Amount:      decimal.RequireFromString("5000"),
			}}, nil).Once()

		resp, err := http.Get(testServer.URL + "/api/v1/orders")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result api.OrderList
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 1, result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "SO-1", result.Items[0].OrderNumber)
	})

	imports.AssertExpectations(t)
	reports.AssertExpectations(t)
	queries.AssertExpectations(t)
}
