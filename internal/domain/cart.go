package domain

type Cart struct {
	Items []CartItem
}

// CartItem is a snapshot of a product taken when it was added.
type CartItem struct {
	ProductID int
	Title     string
	Price     Money
	Image     string
	Quantity  int
}

func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     USD(p.Price),
		Image:     p.Image(),
		Quantity:  quantity,
	}
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// IndexOf returns the position of the line for productID or -1.
func (c Cart) IndexOf(productID int) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
