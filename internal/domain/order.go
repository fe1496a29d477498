package domain

type PaymentMethod string

const (
	PaymentMethodQRIS PaymentMethod = "qris"
	PaymentMethodBank PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodQRIS || m == PaymentMethodBank
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type VirtualAccount struct {
	Bank string `json:"bank"`
	VA   string `json:"va"`
	Name string `json:"name"`
}

// PaymentDetails carries exactly one of QRISURL or VA depending on the method.
type PaymentDetails struct {
	QRISURL string          `json:"qrisUrl,omitempty"`
	VA      *VirtualAccount `json:"va,omitempty"`
}

type CustomerMeta struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Order struct {
	ID        string         `json:"id"`
	Amount    int64          `json:"amount"`
	Method    PaymentMethod  `json:"method"`
	Status    OrderStatus    `json:"status"`
	Payment   PaymentDetails `json:"payment"`
	Meta      *CustomerMeta  `json:"meta,omitempty"`
	CreatedAt int64          `json:"createdAt"`
	PaidAt    *int64         `json:"paidAt,omitempty"`
}

func (o Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
