package domain

// CartLine is one (product, size) entry of the cart. Name, price and image are
// copied from the product when the line is first added.
type CartLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Size  string  `json:"size"`
	Qty   int     `json:"qty"`
}

func (l CartLine) Matches(id, size string) bool {
	return l.ID == id && l.Size == size
}

func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Qty)
}
