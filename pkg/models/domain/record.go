package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecordKind identifies which import surface a batch belongs to.
type RecordKind string

const (
	RecordKindOrder    RecordKind = "order"
	RecordKindPrice    RecordKind = "price"
	RecordKindProject  RecordKind = "project"
	RecordKindDelivery RecordKind = "delivery"
)

// CarrierType is the closed set of carrier codes the remote service knows.
type CarrierType int

const (
	CarrierDriver     CarrierType = 1 // 司机直送
	CarrierContractor CarrierType = 2 // 承运商
)

func (c CarrierType) Label() string {
	switch c {
	case CarrierDriver:
		return "司机直送"
	case CarrierContractor:
		return "承运商"
	default:
		return fmt.Sprintf("carrier(%d)", int(c))
	}
}

// TransportType distinguishes full-truckload from less-than-truckload pricing.
type TransportType int

const (
	TransportFullTruck     TransportType = 1 // 整车运输
	TransportLessThanTruck TransportType = 2 // 零担运输
)

func (t TransportType) Label() string {
	switch t {
	case TransportFullTruck:
		return "整车运输"
	case TransportLessThanTruck:
		return "零担运输"
	default:
		return fmt.Sprintf("transport(%d)", int(t))
	}
}

// Record is one canonical row produced by the import pipeline.
type Record interface {
	Kind() RecordKind
}

// Order is a shipment order. Dates are calendar strings in YYYY-MM-DD form;
// Amount is derived during import as Weight multiplied by the configured
// per-ton unit price for the order's route.
type Order struct {
	OrderNumber        string
	OrderDate          string
	DeliveryDate       string
	ProductName        string
	Quantity           int
	Weight             decimal.Decimal
	DepartureProvince  string
	DepartureCity      string
	DestinationProvince string
	DestinationCity    string
	DestinationAddress string
	Remark             string

	UnitPrice decimal.Decimal
	Amount    decimal.Decimal

	CarrierType CarrierType
	CarrierName string
	CarrierFee  decimal.Decimal
}

func (Order) Kind() RecordKind { return RecordKindOrder }

// Route returns the departure/destination pair the order is priced on.
func (o Order) Route() Route {
	return Route{
		DepartureProvince:   o.DepartureProvince,
		DepartureCity:       o.DepartureCity,
		DestinationProvince: o.DestinationProvince,
		DestinationCity:     o.DestinationCity,
	}
}

// PriceEntry is one row of a project's per-ton price configuration.
type PriceEntry struct {
	DepartureProvince   string
	DepartureCity       string
	DestinationProvince string
	DestinationCity     string
	Transport           TransportType
	UnitPrice           decimal.Decimal
}

func (PriceEntry) Kind() RecordKind { return RecordKindPrice }

func (p PriceEntry) Route() Route {
	return Route{
		DepartureProvince:   p.DepartureProvince,
		DepartureCity:       p.DepartureCity,
		DestinationProvince: p.DestinationProvince,
		DestinationCity:     p.DestinationCity,
	}
}

// Project is one row of a project import.
type Project struct {
	ProjectName  string
	CustomerName string
	StartDate    string
	EndDate      string
	Description  string
}

func (Project) Kind() RecordKind { return RecordKindProject }

// Delivery assigns carrier details to an already committed order,
// referenced by its order number. CarrierFee becomes the order's expense
// in profit reports.
type Delivery struct {
	OrderNumber  string
	CarrierType  CarrierType
	CarrierName  string
	CarrierPhone string
	CarrierPlate string
	CarrierFee   decimal.Decimal
}

func (Delivery) Kind() RecordKind { return RecordKindDelivery }

// Route is a departure/destination city pair, the composite key price
// configuration is unique on.
type Route struct {
	DepartureProvince   string
	DepartureCity       string
	DestinationProvince string
	DestinationCity     string
}

func (r Route) String() string {
	return fmt.Sprintf("%s%s → %s%s",
		r.DepartureProvince, r.DepartureCity, r.DestinationProvince, r.DestinationCity)
}

// PriceIndex resolves a route to its configured per-ton unit price.
type PriceIndex struct {
	prices map[Route]decimal.Decimal
}

func NewPriceIndex(entries []PriceEntry) *PriceIndex {
	idx := &PriceIndex{prices: make(map[Route]decimal.Decimal, len(entries))}
	for _, e := range entries {
		idx.prices[e.Route()] = e.UnitPrice
	}
	return idx
}

// UnitPrice returns the configured price for the route, if any.
func (idx *PriceIndex) UnitPrice(r Route) (decimal.Decimal, bool) {
	p, ok := idx.prices[r]
	return p, ok
}

func (idx *PriceIndex) Len() int { return len(idx.prices) }
