package dto

type OrderRequest struct {
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
}
