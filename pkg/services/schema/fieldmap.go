// Package schema translates spreadsheet header rows into canonical field
// names. One immutable FieldMap exists per record kind, enumerating the
// human-language headers the import templates carry.
package schema

import (
	"fmt"
	"strings"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

// Canonical field names shared by the coercer, validator and committer.
const (
	FieldOrderNumber         = "order_number"
	FieldOrderDate           = "order_date"
	FieldDeliveryDate        = "delivery_date"
	FieldProductName         = "product_name"
	FieldQuantity            = "quantity"
	FieldWeight              = "weight"
	FieldDepartureProvince   = "departure_province"
	FieldDepartureCity       = "departure_city"
	FieldDestinationProvince = "destination_province"
	FieldDestinationCity     = "destination_city"
	FieldDestinationAddress  = "destination_address"
	FieldRemark              = "remark"
	FieldTransportType       = "transport_type"
	FieldUnitPrice           = "unit_price"
	FieldProjectName         = "project_name"
	FieldCustomerName        = "customer_name"
	FieldStartDate           = "start_date"
	FieldEndDate             = "end_date"
	FieldDescription         = "project_description"
	FieldCarrierType         = "carrier_type"
	FieldCarrierName         = "carrier_name"
	FieldCarrierPhone        = "carrier_phone"
	FieldCarrierPlate        = "carrier_plate"
	FieldCarrierFee          = "carrier_fee"
)

// Column binds one template header to its canonical field.
type Column struct {
	Header string
	Field  string
}

// FieldMap is the fixed header table for one record kind. Column order is the
// template's column order.
type FieldMap struct {
	kind     domain.RecordKind
	columns  []Column
	byHeader map[string]string
}

var (
	orderMap = newFieldMap(domain.RecordKindOrder, []Column{
		{"订单号", FieldOrderNumber},
		{"下单日期", FieldOrderDate},
		{"发货日期", FieldDeliveryDate},
		{"货物信息", FieldProductName},
		{"数量", FieldQuantity},
		{"重量（吨）", FieldWeight},
		{"出发省", FieldDepartureProvince},
		{"出发市", FieldDepartureCity},
		{"到达省", FieldDestinationProvince},
		{"到达市", FieldDestinationCity},
		{"送达详细地址", FieldDestinationAddress},
		{"备注", FieldRemark},
	})

	priceMap = newFieldMap(domain.RecordKindPrice, []Column{
		{"出发省", FieldDepartureProvince},
		{"出发市", FieldDepartureCity},
		{"到达省", FieldDestinationProvince},
		{"到达市", FieldDestinationCity},
		{"承运类型", FieldTransportType},
		{"每吨价格", FieldUnitPrice},
	})

	deliveryMap = newFieldMap(domain.RecordKindDelivery, []Column{
		{"订单号", FieldOrderNumber},
		{"承运类型", FieldCarrierType},
		{"承运人名称", FieldCarrierName},
		{"承运人联系方式", FieldCarrierPhone},
		{"承运人车牌", FieldCarrierPlate},
		{"运费", FieldCarrierFee},
	})

	projectMap = newFieldMap(domain.RecordKindProject, []Column{
		{"项目名称", FieldProjectName},
		{"客户名称", FieldCustomerName},
		{"合作起始时间", FieldStartDate},
		{"合作结束时间", FieldEndDate},
		{"项目介绍", FieldDescription},
	})
)

func newFieldMap(kind domain.RecordKind, columns []Column) *FieldMap {
	m := &FieldMap{
		kind:     kind,
		columns:  columns,
		byHeader: make(map[string]string, len(columns)),
	}
	for _, c := range columns {
		m.byHeader[c.Header] = c.Field
	}
	return m
}

// ForKind returns the field map for a record kind.
func ForKind(kind domain.RecordKind) (*FieldMap, error) {
	switch kind {
	case domain.RecordKindOrder:
		return orderMap, nil
	case domain.RecordKindPrice:
		return priceMap, nil
	case domain.RecordKindProject:
		return projectMap, nil
	case domain.RecordKindDelivery:
		return deliveryMap, nil
	}
	return nil, fmt.Errorf("unknown record kind: %q", kind)
}

// Kind returns the record kind the map belongs to.
func (m *FieldMap) Kind() domain.RecordKind { return m.kind }

// Columns returns the template columns in canonical order.
func (m *FieldMap) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// Headers returns the template's header row.
func (m *FieldMap) Headers() []string {
	out := make([]string, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.Header
	}
	return out
}

// Map aligns a raw header row with canonical field names. Unrecognized
// headers yield an empty slot so their columns are dropped silently;
// a recognized header appearing twice is a configuration error surfaced
// before any data row is processed.
func (m *FieldMap) Map(headerRow []string) ([]string, error) {
	fields := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, raw := range headerRow {
		header := strings.TrimSpace(raw)
		field, ok := m.byHeader[header]
		if !ok {
			continue
		}
		if prev, dup := seen[field]; dup {
			return nil, domain.NewStructuralError(
				"duplicate header %q (columns %d and %d)", header, prev+1, i+1)
		}
		seen[field] = i
		fields[i] = field
	}
	return fields, nil
}
