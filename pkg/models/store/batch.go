// Package store holds the wire shapes of the remote freight service: batch
// commit payloads and query responses. Decimals travel as strings to keep
// money exact across the boundary.
package store

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

type Delivery struct {
	OrderNumber  string `json:"order_number"`
	CarrierType  int    `json:"carrier_type"`
	CarrierName  string `json:"carrier_name"`
	CarrierPhone string `json:"carrier_phone"`
	CarrierPlate string `json:"carrier_plate,omitempty"`
	CarrierFee   string `json:"carrier_fee"`
}

type Project struct {
	ProjectName  string `json:"project_name"`
	CustomerName string `json:"customer_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description,omitempty"`
}

// BatchRequest is one atomic commit. The batch ID is client-generated so a
// retried request can be recognized and deduplicated remotely. Exactly one
// of the record lists is populated, matching Kind.
type BatchRequest struct {
	BatchID    string       `json:"batch_id"`
	Kind       string       `json:"kind"`
	Orders     []Order      `json:"orders,omitempty"`
	Prices     []PriceEntry `json:"prices,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
	Deliveries []Delivery   `json:"deliveries,omitempty"`
}

// BatchResponse acknowledges a commit. ErrorMessage is set when Success is
// false and is relayed to the user verbatim.
type BatchResponse struct {
	Success       bool   `json:"success"`
	AcceptedCount int    `json:"accepted_count"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

type OrderQueryResponse struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
}

type PriceQueryResponse struct {
	Items []PriceEntry `json:"items"`
	Total int          `json:"total"`
}
