package domain

type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
)

func (c Category) Valid() bool {
	return c == CategoryFood || c == CategoryDrink
}

// MenuItem is a read-only catalog entry. Price is in whole rupiah.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}
