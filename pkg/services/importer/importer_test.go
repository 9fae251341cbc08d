package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
	"github.com/freight-tools/loadsheet/pkg/services/schema"
)

type mockCommitter struct {
	mock.Mock
}

func (m *mockCommitter) CommitBatch(ctx context.Context, batch *domain.Batch) (int, error) {
	args := m.Called(ctx, batch)
	return args.Int(0), args.Error(1)
}

type staticPrices struct {
	idx *domain.PriceIndex
}

func (s staticPrices) PriceIndex(context.Context) (*domain.PriceIndex, error) {
	return s.idx, nil
}

func testGeo(t *testing.T) *geo.Index {
	t.Helper()
	return geo.NewIndex(map[string][]string{
		"浙江省": {"杭州市", "宁波市"},
		"江苏省": {"南京市", "苏州市"},
	})
}

func sheetOf(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func headersFor(t *testing.T, kind domain.RecordKind) []string {
	t.Helper()
	fm, err := schema.ForKind(kind)
	require.NoError(t, err)
	return fm.Headers()
}

func TestImport_PriceBatchCommits(t *testing.T) {
	committer := new(mockCommitter)
	var committed *domain.Batch
	committer.On("CommitBatch", mock.Anything, mock.AnythingOfType("*domain.Batch")).
		Run(func(args mock.Arguments) { committed = args.Get(1).(*domain.Batch) }).
		Return(2, nil)

	im := NewImporter(testGeo(t), committer)
	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindPrice),
		{"浙江省", "杭州市", "江苏省", "南京市", "整车运输", "1000"},
		{"浙江省", "宁波市", "江苏省", "苏州市", "2", "850.50"},
	})

	res, err := im.Import(context.Background(), domain.RecordKindPrice, sheet)
	require.NoError(t, err)
	assert.False(t, res.Rejected())
	assert.Equal(t, 2, res.Accepted)
	assert.NotEmpty(t, res.BatchID)

	committer.AssertExpectations(t)
	require.NotNil(t, committed)
	prices := committed.Prices()
	require.Len(t, prices, 2)
	assert.Equal(t, domain.TransportFullTruck, prices[0].Transport)
	assert.True(t, prices[0].UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.TransportLessThanTruck, prices[1].Transport)
	assert.True(t, prices[1].UnitPrice.Equal(decimal.RequireFromString("850.50")))
}

func TestImport_OrderPricedAndCommitted(t *testing.T) {
	committer := new(mockCommitter)
	var committed *domain.Batch
	committer.On("CommitBatch", mock.Anything, mock.AnythingOfType("*domain.Batch")).
		Run(func(args mock.Arguments) { committed = args.Get(1).(*domain.Batch) }).
		Return(1, nil)

	idx := domain.NewPriceIndex([]domain.PriceEntry{{
		DepartureProvince:   "浙江省",
		DepartureCity:       "杭州市",
		DestinationProvince: "江苏省",
		DestinationCity:     "南京市",
		UnitPrice:           decimal.NewFromInt(1000),
	}})
	im := NewImporter(testGeo(t), committer, WithPriceSource(staticPrices{idx: idx}))

	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindOrder),
		{"PO-20250101", "45658", "2025/01/03", "钢材", "10", "12.5",
			"浙江省", "杭州市", "江苏省", "南京市", "软件大道1号", "加急"},
	})

	res, err := im.Import(context.Background(), domain.RecordKindOrder, sheet)
	require.NoError(t, err)
	assert.False(t, res.Rejected())
	assert.Equal(t, 1, res.Accepted)

	require.NotNil(t, committed)
	orders := committed.Orders()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, "PO-20250101", o.OrderNumber)
	assert.Equal(t, "2025-01-01", o.OrderDate)
	assert.Equal(t, "2025-01-03", o.DeliveryDate)
	assert.Equal(t, 10, o.Quantity)
	assert.True(t, o.UnitPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, o.Amount.Equal(decimal.RequireFromString("12500")))
}

type staticOrders struct {
	orders []domain.Order
}

func (s staticOrders) QueryOrders(context.Context) ([]domain.Order, error) {
	return s.orders, nil
}

func TestImport_DeliveryAssignsCarriersToKnownOrders(t *testing.T) {
	committer := new(mockCommitter)
	var committed *domain.Batch
	committer.On("CommitBatch", mock.Anything, mock.AnythingOfType("*domain.Batch")).
		Run(func(args mock.Arguments) { committed = args.Get(1).(*domain.Batch) }).
		Return(2, nil)

	im := NewImporter(testGeo(t), committer, WithOrderSource(staticOrders{orders: []domain.Order{
		{OrderNumber: "PO-20250101"},
		{OrderNumber: "PO-20250102"},
	}}))

	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindDelivery),
		{"PO-20250101", "司机直送", "王师傅", "13800000000", "浙A12345", "6000"},
		{"PO-20250102", "2", "顺达物流", "13900000000", "", "4200.50"},
	})

	res, err := im.Import(context.Background(), domain.RecordKindDelivery, sheet)
	require.NoError(t, err)
	assert.False(t, res.Rejected())
	assert.Equal(t, 2, res.Accepted)

	committer.AssertExpectations(t)
	require.NotNil(t, committed)
	deliveries := committed.Deliveries()
	require.Len(t, deliveries, 2)
	assert.Equal(t, domain.CarrierDriver, deliveries[0].CarrierType)
	assert.Equal(t, "浙A12345", deliveries[0].CarrierPlate)
	assert.Equal(t, domain.CarrierContractor, deliveries[1].CarrierType)
	assert.Equal(t, "顺达物流", deliveries[1].CarrierName)
	assert.True(t, deliveries[1].CarrierFee.Equal(decimal.RequireFromString("4200.50")))
}

func TestImport_DeliveryRejectedOnUnknownOrder(t *testing.T) {
	committer := new(mockCommitter)
	im := NewImporter(testGeo(t), committer, WithOrderSource(staticOrders{orders: []domain.Order{
		{OrderNumber: "PO-20250101"},
	}}))

	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindDelivery),
		{"PO-20250101", "", "", "13800000000", "", "6000"},
		{"PO-99999999", "司机直送", "王师傅", "13800000000", "", "6000"},
		{"PO-20250101", "承运商", "顺达物流", "13900000000", "", "0"},
	})

	res, err := im.Import(context.Background(), domain.RecordKindDelivery, sheet)
	require.NoError(t, err)
	assert.True(t, res.Rejected())

	require.Len(t, res.Errors, 5)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, `required field "carrier_name" is missing`)
	assert.Equal(t, 1, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, `required field "carrier_type" is missing`)
	assert.Equal(t, 2, res.Errors[2].Row)
	assert.Contains(t, res.Errors[2].Message, `order number "PO-99999999" does not exist`)
	assert.Equal(t, 3, res.Errors[3].Row)
	assert.Contains(t, res.Errors[3].Message, "first seen at row 1")
	assert.Equal(t, 3, res.Errors[4].Row)
	assert.Contains(t, res.Errors[4].Message, "carrier_fee must be greater than 0")

	committer.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything)
}

func TestImport_RejectedBatchCommitsNothing(t *testing.T) {
	committer := new(mockCommitter)
	im := NewImporter(testGeo(t), committer)

	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindPrice),
		{"浙江省", "杭州市", "", "南京市", "1", "1000"},
		{"火星省", "杭州市", "江苏省", "南京市", "1", "1000"},
		{"浙江省", "宁波市", "江苏省", "苏州市", "1", "900"},
		{"浙江省", "宁波市", "江苏省", "苏州市", "1", "900"},
	})

	res, err := im.Import(context.Background(), domain.RecordKindPrice, sheet)
	require.NoError(t, err)
	assert.True(t, res.Rejected())
	assert.Zero(t, res.Accepted)

	require.Len(t, res.Errors, 3)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "destination_province")
	assert.Equal(t, 2, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, "火星省")
	assert.Equal(t, 4, res.Errors[2].Row)
	assert.Contains(t, res.Errors[2].Message, "first seen at row 3")

	committer.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything)
}

func TestImport_CoercionErrorsPrecedeValidationErrors(t *testing.T) {
	committer := new(mockCommitter)
	im := NewImporter(testGeo(t), committer)

	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindProject),
		{"华东专线", "宏远贸易", "不是日期", "2024-12-31", ""},
		{"", "建发物流", "2024-01-01", "2024-06-30", ""},
	})

	res, err := im.Import(context.Background(), domain.RecordKindProject, sheet)
	require.NoError(t, err)
	require.Len(t, res.Errors, 3)

	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "start_date")
	assert.Contains(t, res.Errors[0].Message, "不是日期")
	assert.Equal(t, 1, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, `required field "start_date" is missing`)
	assert.Equal(t, 2, res.Errors[2].Row)
	assert.Contains(t, res.Errors[2].Message, `required field "project_name" is missing`)

	committer.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything)
}

func TestImport_StructuralProblems(t *testing.T) {
	committer := new(mockCommitter)
	im := NewImporter(testGeo(t), committer)

	t.Run("unreadable file", func(t *testing.T) {
		_, err := im.Import(context.Background(), domain.RecordKindOrder,
			bytes.NewReader([]byte("not a workbook")))
		var structural *domain.StructuralError
		require.ErrorAs(t, err, &structural)
	})

	t.Run("header only", func(t *testing.T) {
		sheet := sheetOf(t, [][]string{headersFor(t, domain.RecordKindOrder)})
		_, err := im.Import(context.Background(), domain.RecordKindOrder, sheet)
		var structural *domain.StructuralError
		require.ErrorAs(t, err, &structural)
		assert.Contains(t, err.Error(), "no data rows")
	})

	t.Run("duplicate header", func(t *testing.T) {
		sheet := sheetOf(t, [][]string{
			{"项目名称", "项目名称", "合作起始时间", "合作结束时间", "项目介绍"},
			{"华东专线", "宏远贸易", "2024-01-01", "2024-12-31", ""},
		})
		_, err := im.Import(context.Background(), domain.RecordKindProject, sheet)
		var structural *domain.StructuralError
		require.ErrorAs(t, err, &structural)
	})

	committer.AssertNotCalled(t, "CommitBatch", mock.Anything, mock.Anything)
}

func TestImport_CommitFailurePropagates(t *testing.T) {
	committer := new(mockCommitter)
	committer.On("CommitBatch", mock.Anything, mock.Anything).
		Return(0, &domain.CommitFailure{Status: 502, Message: "upstream unavailable"})

	im := NewImporter(testGeo(t), committer)
	sheet := sheetOf(t, [][]string{
		headersFor(t, domain.RecordKindProject),
		{"华东专线", "宏远贸易", "2024-01-01", "2024-12-31", "华东区域钢材整车运输"},
	})

	_, err := im.Import(context.Background(), domain.RecordKindProject, sheet)
	var failure *domain.CommitFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 502, failure.Status)
}
