package adapters

import (
	"github.com/freight-tools/loadsheet/pkg/models/api"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

func MapOrderDomainToApi(o domain.Order) api.Order {
	return api.Order{
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
		UnitPrice:           o.UnitPrice.StringFixed(2),
		Amount:              o.Amount.StringFixed(2),
		CarrierType:         int(o.CarrierType),
		CarrierName:         o.CarrierName,
		CarrierFee:          o.CarrierFee.StringFixed(2),
	}
}

func MapPriceEntryDomainToApi(p domain.PriceEntry) api.PriceEntry {
	return api.PriceEntry{
		DepartureProvince:   p.DepartureProvince,
		DepartureCity:       p.DepartureCity,
		DestinationProvince: p.DestinationProvince,
		DestinationCity:     p.DestinationCity,
		TransportType:       int(p.Transport),
		UnitPrice:           p.UnitPrice.StringFixed(2),
	}
}
