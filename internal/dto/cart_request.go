package dto

type CartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity *int64 `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}
