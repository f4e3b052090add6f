package handlers

import (
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"time"
)

func toLocation(l domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		Lat:     l.Lat,
		Lng:     l.Lng,
		Address: l.Address,
		City:    l.City,
		Country: l.Country,
	}
}

func toLocationPtr(l *domain.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	r := toLocation(*l)
	return &r
}

func toAlert(a domain.TrafficAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:       a.ID,
		Type:     string(a.Type),
		Severity: string(a.Severity),
		Location: toLocationPtr(a.Location),
		Message:  a.Message,
		Active:   a.Active,
	}
}

func toAlerts(alerts []domain.TrafficAlert) []dto.AlertResponse {
	if len(alerts) == 0 {
		return nil
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlert(a))
	}
	return out
}

func toDelivery(o *domain.DeliveryOrder, eta time.Time) dto.DeliveryResponse {
	res := dto.DeliveryResponse{
		OrderID:             o.OrderID,
		PartnerID:           o.PartnerID,
		CustomerName:        o.CustomerName,
		CustomerPhone:       o.CustomerPhone,
		DeliveryAddress:     o.DeliveryAddress,
		Status:              string(o.Status),
		Progress:            o.Progress,
		DeliveryFee:         o.DeliveryFee,
		Pickup:              toLocation(o.Pickup),
		Dropoff:             toLocation(o.Dropoff),
		Current:             toLocationPtr(o.Current),
		TotalDistanceKm:     o.TotalDistanceKm,
		RemainingDistanceKm: o.RemainingDistanceKm,
		EstimatedTimeMin:    o.EstimatedTimeMin,
		ETA:                 eta,
		Alerts:              toAlerts(o.Alerts),
	}

	for _, it := range o.Items {
		res.Items = append(res.Items, dto.ItemResponse{
			Name:         it.Name,
			Quantity:     it.Quantity,
			Category:     it.Category,
			Fragile:      it.Fragile,
			Refrigerated: it.Refrigerated,
		})
	}
	for _, c := range o.Contacts {
		res.Contacts = append(res.Contacts, dto.ContactResponse{
			Name:     c.Name,
			Number:   c.Number,
			Category: c.Category,
			Priority: c.Priority,
		})
	}

	return res
}

func toRoute(a domain.RouteAlternative) dto.RouteAlternativeResponse {
	res := dto.RouteAlternativeResponse{
		ID:         a.ID,
		Name:       a.Name,
		TimeMin:    a.TimeMin,
		DistanceKm: a.DistanceKm,
		Traffic:    string(a.Traffic),
		Active:     a.Active,
	}
	for _, p := range a.Coordinates {
		res.Polyline = append(res.Polyline, []float64{p.Lat, p.Lng})
	}
	return res
}

func toRoutes(alts []domain.RouteAlternative) []dto.RouteAlternativeResponse {
	out := make([]dto.RouteAlternativeResponse, 0, len(alts))
	for _, a := range alts {
		out = append(out, toRoute(a))
	}
	return out
}

func toLive(snap ports.LiveSnapshot) dto.LiveResponse {
	return dto.LiveResponse{
		OrderID:   snap.OrderID,
		Status:    string(snap.Status),
		Progress:  snap.Progress,
		Location:  toLocationPtr(snap.Location),
		ETA:       snap.ETA,
		Alerts:    toAlerts(snap.Alerts),
		UpdatedAt: snap.UpdatedAt,
	}
}
