package dto

import "time"

type LocationResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}

type ItemResponse struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Category     string `json:"category,omitempty"`
	Fragile      bool   `json:"fragile,omitempty"`
	Refrigerated bool   `json:"refrigerated,omitempty"`
}

type ContactResponse struct {
	Name     string `json:"name"`
	Number   string `json:"number"`
	Category string `json:"category,omitempty"`
	Priority int    `json:"priority"`
}

type AlertResponse struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Severity string            `json:"severity"`
	Location *LocationResponse `json:"location,omitempty"`
	Message  string            `json:"message"`
	Active   bool              `json:"active"`
}

type DeliveryResponse struct {
	OrderID         string  `json:"order_id"`
	PartnerID       string  `json:"partner_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone,omitempty"`
	DeliveryAddress string  `json:"delivery_address"`
	Status          string  `json:"status"`
	Progress        int     `json:"progress"`
	DeliveryFee     float64 `json:"delivery_fee"`

	Pickup  LocationResponse  `json:"pickup"`
	Dropoff LocationResponse  `json:"dropoff"`
	Current *LocationResponse `json:"current,omitempty"`

	TotalDistanceKm     float64   `json:"total_distance_km"`
	RemainingDistanceKm float64   `json:"remaining_distance_km"`
	EstimatedTimeMin    int       `json:"estimated_time_min"`
	ETA                 time.Time `json:"eta"`

	Items    []ItemResponse    `json:"items,omitempty"`
	Alerts   []AlertResponse   `json:"alerts,omitempty"`
	Contacts []ContactResponse `json:"emergency_contacts,omitempty"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

type LocationRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type ProgressRequest struct {
	Progress int              `json:"progress" validate:"min=0,max=100"`
	Location *LocationRequest `json:"location" validate:"omitempty"`
}

type CompleteRequest struct {
	Signature string `json:"signature" validate:"max=120"`
}

type NotifyRequest struct {
	Message string `json:"message" validate:"required,max=500"`
	Kind    string `json:"kind" validate:"required,oneof=eta_update arrival delivery_complete"`
}

type NotifyResponse struct {
	Delivered bool `json:"delivered"`
}

type RouteAlternativeResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	TimeMin    int         `json:"time_min"`
	DistanceKm float64     `json:"distance_km"`
	Traffic    string      `json:"traffic"`
	Active     bool        `json:"active"`
	Polyline   [][]float64 `json:"polyline,omitempty"`
}

type ListRoutesResponse struct {
	Routes []RouteAlternativeResponse `json:"routes"`
}

type LiveResponse struct {
	OrderID   string            `json:"order_id"`
	Status    string            `json:"status"`
	Progress  int               `json:"progress"`
	Location  *LocationResponse `json:"location,omitempty"`
	ETA       time.Time         `json:"eta"`
	Alerts    []AlertResponse   `json:"alerts,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type RoutePlanStop struct {
	OrderID    string           `json:"order_id"`
	Dropoff    LocationResponse `json:"dropoff"`
	LegKm      float64          `json:"leg_km"`
	BearingDeg float64          `json:"bearing_deg"`
}

type RoutePlanResponse struct {
	Start   LocationResponse `json:"start"`
	Stops   []RoutePlanStop  `json:"stops"`
	TotalKm float64          `json:"total_km"`
}

type TrackingResponse struct {
	OrderID  string `json:"order_id"`
	Tracking bool   `json:"tracking"`
}

type GeocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
	City    string  `json:"city,omitempty"`
	Country string  `json:"country,omitempty"`
}

type StaticMapResponse struct {
	URL string `json:"url"`
}

type ListAlertsResponse struct {
	Alerts []AlertResponse `json:"alerts"`
}
