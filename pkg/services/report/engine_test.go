package report

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ord(province, city string, carrier domain.CarrierType, weight, amount, fee, unitPrice string) domain.Order {
	return domain.Order{
		DestinationProvince: province,
		DestinationCity:     city,
		CarrierType:         carrier,
		Weight:              dec(weight),
		Amount:              dec(amount),
		CarrierFee:          dec(fee),
		UnitPrice:           dec(unitPrice),
	}
}

func TestAggregate_GroupsByProvince(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "10", "10000", "6000", "1000"),
		ord("江苏省", "苏州市", domain.CarrierContractor, "5", "4500", "3000", "900"),
		ord("浙江省", "杭州市", domain.CarrierDriver, "8", "9600", "7000", "1200"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionProvince},
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)

	jiangsu := page.Items[0]
	assert.Equal(t, []string{"江苏省"}, jiangsu.Keys)
	assert.True(t, jiangsu.Weight.Equal(dec("15")))
	assert.True(t, jiangsu.Income.Equal(dec("14500")))
	assert.True(t, jiangsu.Expense.Equal(dec("9000")))
	assert.True(t, jiangsu.Profit.Equal(dec("5500")))
	require.NotNil(t, jiangsu.IncomePerTon)
	require.NotNil(t, jiangsu.ProfitPerTon)
	assert.True(t, jiangsu.IncomePerTon.Equal(dec("14500").Div(dec("15"))))

	zhejiang := page.Items[1]
	assert.Equal(t, []string{"浙江省"}, zhejiang.Keys)
	assert.True(t, zhejiang.Profit.Equal(dec("2600")))
}

func TestAggregate_FiltersApplyBeforeGrouping(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "10", "10000", "6000", "1000"),
		ord("江苏省", "南京市", domain.CarrierContractor, "10", "10000", "9000", "1000"),
		ord("浙江省", "杭州市", domain.CarrierContractor, "8", "9600", "7000", "1200"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionProvince},
		Filters: domain.ReportFilters{Carriers: []domain.CarrierType{domain.CarrierDriver}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	row := page.Items[0]
	assert.Equal(t, []string{"江苏省"}, row.Keys)
	assert.True(t, row.Weight.Equal(dec("10")), "contractor rows must not leak into the group")
	assert.True(t, row.Income.Equal(dec("10000")))
	assert.True(t, row.Expense.Equal(dec("6000")))
}

func TestAggregate_PriceBoundsInclusive(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "1", "900", "0", "900"),
		ord("江苏省", "南京市", domain.CarrierDriver, "1", "1000", "0", "1000"),
		ord("江苏省", "南京市", domain.CarrierDriver, "1", "1200", "0", "1200"),
	}
	min, max := dec("900"), dec("1000")

	page, err := Aggregate(orders, domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionCity},
		Filters: domain.ReportFilters{PriceMin: &min, PriceMax: &max},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Income.Equal(dec("1900")), "both boundary prices are included")
}

func TestAggregate_ZeroWeightGroupHasNoPerTonFigures(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "0", "0", "500", "1000"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionCity},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	row := page.Items[0]
	assert.Nil(t, row.IncomePerTon)
	assert.Nil(t, row.ProfitPerTon)
	assert.True(t, row.Profit.Equal(dec("-500")), "profit stays derived even without weight")
}

func TestAggregate_MultiDimensionKeysAlignWithGroupBy(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "1", "100", "0", "100"),
		ord("江苏省", "南京市", domain.CarrierContractor, "1", "100", "0", "100"),
		ord("江苏省", "苏州市", domain.CarrierDriver, "1", "100", "0", "100"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionCity, domain.DimensionCarrier},
	})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	assert.Equal(t, []string{"南京市", "司机直送"}, page.Items[0].Keys)
	assert.Equal(t, []string{"南京市", "承运商"}, page.Items[1].Keys)
	assert.Equal(t, []string{"苏州市", "司机直送"}, page.Items[2].Keys)
}

func TestAggregate_PaginatesGroups(t *testing.T) {
	cities := []string{"南京市", "苏州市", "无锡市", "常州市", "南通市"}
	var orders []domain.Order
	for _, c := range cities {
		orders = append(orders, ord("江苏省", c, domain.CarrierDriver, "1", "100", "50", "100"))
	}

	spec := domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionCity},
		Page:    domain.Page{Index: 1, Size: 2},
	}
	page, err := Aggregate(orders, spec)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)

	spec.Page.Index = 3
	page, err = Aggregate(orders, spec)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	spec.Page.Index = 9
	page, err = Aggregate(orders, spec)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
}

func TestAggregate_EmptyGroupByYieldsSingleTotalRow(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "10", "10000", "6000", "1000"),
		ord("浙江省", "杭州市", domain.CarrierContractor, "5", "4500", "3000", "900"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)

	row := page.Items[0]
	assert.Empty(t, row.Keys)
	assert.True(t, row.Weight.Equal(dec("15")))
	assert.True(t, row.Income.Equal(dec("14500")))
	assert.True(t, row.Expense.Equal(dec("9000")))
	assert.True(t, row.Profit.Equal(dec("5500")))
}

func TestAggregate_EmptyGroupByStillFilters(t *testing.T) {
	orders := []domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "10", "10000", "6000", "1000"),
		ord("浙江省", "杭州市", domain.CarrierContractor, "5", "4500", "3000", "900"),
	}

	page, err := Aggregate(orders, domain.AggregationSpec{
		Filters: domain.ReportFilters{DestinationProvince: "江苏省"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Income.Equal(dec("10000")))
}

func TestAggregate_RejectsBadGroupBy(t *testing.T) {
	orders := []domain.Order{ord("江苏省", "南京市", domain.CarrierDriver, "1", "100", "0", "100")}

	tests := []struct {
		name    string
		groupBy []domain.Dimension
	}{
		{"unknown dimension", []domain.Dimension{"warehouse"}},
		{"repeated dimension", []domain.Dimension{domain.DimensionCity, domain.DimensionCity}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Aggregate(orders, domain.AggregationSpec{GroupBy: tc.groupBy})
			assert.Error(t, err)
		})
	}
}

func TestTotals(t *testing.T) {
	rows := []domain.AggregatedRow{
		{Weight: dec("10"), Income: dec("10000"), Expense: dec("6000")},
		{Weight: dec("5"), Income: dec("4500"), Expense: dec("3000")},
	}
	total := Totals(rows)
	assert.True(t, total.Weight.Equal(dec("15")))
	assert.True(t, total.Profit.Equal(dec("5500")))
	require.NotNil(t, total.ProfitPerTon)
	assert.True(t, total.ProfitPerTon.Equal(dec("5500").Div(dec("15"))))
}

type mockOrderSource struct {
	mock.Mock
}

func (m *mockOrderSource) QueryOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func TestEngine_AggregateQueriesSource(t *testing.T) {
	source := new(mockOrderSource)
	source.On("QueryOrders", mock.Anything).Return([]domain.Order{
		ord("江苏省", "南京市", domain.CarrierDriver, "10", "10000", "6000", "1000"),
	}, nil)

	engine := NewEngine(source)
	page, err := engine.Aggregate(context.Background(), domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionProvince},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	source.AssertExpectations(t)
}

func TestEngine_AggregatePropagatesQueryFailure(t *testing.T) {
	source := new(mockOrderSource)
	source.On("QueryOrders", mock.Anything).
		Return(nil, &domain.QueryFailure{Status: 500, Message: "boom"})

	engine := NewEngine(source)
	_, err := engine.Aggregate(context.Background(), domain.AggregationSpec{
		GroupBy: []domain.Dimension{domain.DimensionProvince},
	})
	var failure *domain.QueryFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 500, failure.Status)
}
