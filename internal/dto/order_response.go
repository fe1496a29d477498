package dto

import "github.com/alimikegami/point-of-sales/storefront-service/internal/domain"

type OrderResponse struct {
	ID              string                `json:"id"`
	Amount          int64                 `json:"amount"`
	AmountFormatted string                `json:"amount_formatted"`
	Method          domain.PaymentMethod  `json:"method"`
	Status          domain.OrderStatus    `json:"status"`
	Payment         domain.PaymentDetails `json:"payment"`
	Meta            *domain.CustomerMeta  `json:"meta,omitempty"`
	CreatedAt       int64                 `json:"created_at"`
	CreatedAtWIB    string                `json:"created_at_wib"`
	PaidAt          *int64                `json:"paid_at,omitempty"`
}

type PaymentMethodResponse struct {
	Method       domain.PaymentMethod    `json:"method"`
	Label        string                  `json:"label"`
	BankAccounts []domain.VirtualAccount `json:"bank_accounts,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
