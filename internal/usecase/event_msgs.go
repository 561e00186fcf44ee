package usecase

// Published on Kafka after every applied transition.
type OrderStatusChangedMsg struct {
	OrderID       string `json:"orderId"`
	OrderNumber   string `json:"orderNumber"`
	From          string `json:"from"`
	To            string `json:"to"`
	GatewayStatus string `json:"gatewayStatus,omitempty"`
	OccurredAt    int64  `json:"occurredAt"`
}
