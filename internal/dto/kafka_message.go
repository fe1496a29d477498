package dto

type KafkaMessage struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OccurredAt int64       `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type OrderEvent struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id,omitempty"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	Status    string `json:"status"`
}
