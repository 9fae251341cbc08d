package adapters

import (
	"github.com/shopspring/decimal"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/models/store"
)

func MapOrderDomainToStore(o domain.Order) store.Order {
	return store.Order{
		OrderNumber:         o.OrderNumber,
		OrderDate:           o.OrderDate,
		DeliveryDate:        o.DeliveryDate,
		ProductName:         o.ProductName,
		Quantity:            o.Quantity,
		Weight:              o.Weight.String(),
		DepartureProvince:   o.DepartureProvince,
		DepartureCity:       o.DepartureCity,
		DestinationProvince: o.DestinationProvince,
		DestinationCity:     o.DestinationCity,
		DestinationAddress:  o.DestinationAddress,
		Remark:              o.Remark,
		UnitPrice:           o.UnitPrice.String(),
		Amount:              o.Amount.String(),
		CarrierType:         int(o.CarrierType),
		CarrierName:         o.CarrierName,
		CarrierFee:          o.CarrierFee.String(),
	}
}

func MapOrderStoreToDomain(o store.Order) domain.Order {
	return domain.Order{
		OrderNumber:         o.OrderNumber,
		OrderDate:           o.OrderDate,
		DeliveryDate:        o.DeliveryDate,
		ProductName:         o.ProductName,
		Quantity:            o.Quantity,
		Weight:              parseDecimal(o.Weight),
		DepartureProvince:   o.DepartureProvince,
		DepartureCity:       o.DepartureCity,
		DestinationProvince: o.DestinationProvince,
		DestinationCity:     o.DestinationCity,
		DestinationAddress:  o.DestinationAddress,
		Remark:              o.Remark,
		UnitPrice:           parseDecimal(o.UnitPrice),
		Amount:              parseDecimal(o.Amount),
		CarrierType:         domain.CarrierType(o.CarrierType),
		CarrierName:         o.CarrierName,
		CarrierFee:          parseDecimal(o.CarrierFee),
	}
}

func MapPriceEntryDomainToStore(p domain.PriceEntry) store.PriceEntry {
	return store.PriceEntry{
		DepartureProvince:   p.DepartureProvince,
		DepartureCity:       p.DepartureCity,
		DestinationProvince: p.DestinationProvince,
		DestinationCity:     p.DestinationCity,
		TransportType:       int(p.Transport),
		UnitPrice:           p.UnitPrice.String(),
	}
}

func MapPriceEntryStoreToDomain(p store.PriceEntry) domain.PriceEntry {
	return domain.PriceEntry{
		DepartureProvince:   p.DepartureProvince,
		DepartureCity:       p.DepartureCity,
		DestinationProvince: p.DestinationProvince,
		DestinationCity:     p.DestinationCity,
		Transport:           domain.TransportType(p.TransportType),
		UnitPrice:           parseDecimal(p.UnitPrice),
	}
}

func MapDeliveryDomainToStore(d domain.Delivery) store.Delivery {
	return store.Delivery{
		OrderNumber:  d.OrderNumber,
		CarrierType:  int(d.CarrierType),
		CarrierName:  d.CarrierName,
		CarrierPhone: d.CarrierPhone,
		CarrierPlate: d.CarrierPlate,
		CarrierFee:   d.CarrierFee.String(),
	}
}

func MapProjectDomainToStore(p domain.Project) store.Project {
	return store.Project{
		ProjectName:  p.ProjectName,
		CustomerName: p.CustomerName,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Description:  p.Description,
	}
}

// MapBatchDomainToStore builds the commit payload, populating the record
// list matching the batch kind.
func MapBatchDomainToStore(b *domain.Batch) store.BatchRequest {
	req := store.BatchRequest{
		BatchID: b.ID,
		Kind:    string(b.Kind),
	}
	switch b.Kind {
	case domain.RecordKindOrder:
		for _, o := range b.Orders() {
			req.Orders = append(req.Orders, MapOrderDomainToStore(o))
		}
	case domain.RecordKindPrice:
		for _, p := range b.Prices() {
			req.Prices = append(req.Prices, MapPriceEntryDomainToStore(p))
		}
	case domain.RecordKindProject:
		for _, p := range b.Projects() {
			req.Projects = append(req.Projects, MapProjectDomainToStore(p))
		}
	case domain.RecordKindDelivery:
		for _, d := range b.Deliveries() {
			req.Deliveries = append(req.Deliveries, MapDeliveryDomainToStore(d))
		}
	}
	return req
}

// parseDecimal reads a wire decimal, treating anything unparseable as zero.
// Remote responses are trusted at this layer; validation happened upstream.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
