package cart

import "time"

// ProductVariant is the denormalized variant snapshot carried on a cart item.
type ProductVariant struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Image         string  `json:"image,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
}

type Item struct {
	ID               string         `json:"id"`
	CartID           string         `json:"cartId,omitempty"`
	ProductVariantID string         `json:"productVariantId"`
	ProductVariant   ProductVariant `json:"productVariant"`
	Quantity         int            `json:"quantity"`
	Price            float64        `json:"price"`
	CreatedAt        time.Time      `json:"createdAt,omitempty"`
	UpdatedAt        time.Time      `json:"updatedAt,omitempty"`
}

type Cart struct {
	ID         string  `json:"id"`
	Items      []Item  `json:"cartItems"`
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// ItemIDs returns the cart item identifiers in line order. Order placement
// submits these instead of cached prices; the server reprices from current
// variant state.
func (c *Cart) ItemIDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}
