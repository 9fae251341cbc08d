package api

// RowError is one row-level import problem, addressed by the 1-based data
// row it occurred on.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult reports one upload. A rejected batch carries the full error
// list and an AcceptedCount of zero.
type ImportResult struct {
	BatchID       string     `json:"batch_id"`
	AcceptedCount int        `json:"accepted_count"`
	Errors        []RowError `json:"errors,omitempty"`
}

// AggregateFilters narrows the order set before grouping. Price bounds are
// decimal strings and inclusive.
type AggregateFilters struct {
	DestinationProvince string  `json:"destination_province,omitempty"`
	DestinationCity     string  `json:"destination_city,omitempty"`
	Carriers            []int   `json:"carriers,omitempty"`
	PriceMin            *string `json:"price_min,omitempty"`
	PriceMax            *string `json:"price_max,omitempty"`
}

// AggregateRequest drives one report query.
type AggregateRequest struct {
	GroupBy  []string         `json:"group_by"`
	Filters  AggregateFilters `json:"filters"`
	Page     int              `json:"page,omitempty"`
	PageSize int              `json:"page_size,omitempty"`
}

// ReportRow is one grouped summary line. Money and weight figures are
// decimal strings; the per-ton figures are omitted when the group carried
// no weight.
type ReportRow struct {
	Keys         []string `json:"keys"`
	Weight       string   `json:"weight"`
	Income       string   `json:"income"`
	Expense      string   `json:"expense"`
	Profit       string   `json:"profit"`
	IncomePerTon *string  `json:"income_per_ton,omitempty"`
	ProfitPerTon *string  `json:"profit_per_ton,omitempty"`
}

// AggregateResponse is one page of grouped results. Total counts groups.
type AggregateResponse struct {
	Items []ReportRow `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
}

// Error is the uniform error envelope the web API returns on failure.
type Error struct {
	Message string `json:"message"`
}

// Order is a committed order as served by the list endpoint. Money and
// weight figures are decimal strings.
type Order struct {
	OrderNumber         string `json:"order_number"`
	OrderDate           string `json:"order_date"`
	DeliveryDate        string `json:"delivery_date"`
	ProductName         string `json:"product_name"`
	Quantity            int    `json:"quantity"`
	Weight              string `json:"weight"`
	DepartureProvince   string `json:"departure_province"`
	DepartureCity       string `json:"departure_city"`
	DestinationProvince string `json:"destination_province"`
	DestinationCity     string `json:"destination_city"`
	DestinationAddress  string `json:"destination_address"`
	Remark              string `json:"remark,omitempty"`
	UnitPrice           string `json:"unit_price"`
	Amount              string `json:"amount"`
	CarrierType         int    `json:"carrier_type,omitempty"`
	CarrierName         string `json:"carrier_name,omitempty"`
	CarrierFee          string `json:"carrier_fee,omitempty"`
}

type PriceEntry struct {
	DepartureProvince   string `json:"departure_province"`
	DepartureCity       string `json:"departure_city"`
	DestinationProvince string `json:"destination_province"`
	DestinationCity     string `json:"destination_city"`
	TransportType       int    `json:"transport_type"`
	UnitPrice           string `json:"unit_price"`
}

type OrderList struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
}

type PriceList struct {
	Items []PriceEntry `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
}
