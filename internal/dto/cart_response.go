package dto

import "github.com/alimikegami/point-of-sales/storefront-service/internal/domain"

type CartLineResponse struct {
	Item               domain.MenuItem `json:"item"`
	Quantity           int64           `json:"quantity"`
	LineTotal          int64           `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

type CartResponse struct {
	Lines             []CartLineResponse `json:"lines"`
	Subtotal          int64              `json:"subtotal"`
	Fee               int64              `json:"fee"`
	Total             int64              `json:"total"`
	Count             int64              `json:"count"`
	SubtotalFormatted string             `json:"subtotal_formatted"`
	FeeFormatted      string             `json:"fee_formatted"`
	TotalFormatted    string             `json:"total_formatted"`
}
