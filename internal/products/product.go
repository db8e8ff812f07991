package products

import "context"

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// NewProduct carries the caller-supplied fields at creation; the id is
// always store-assigned.
type NewProduct struct {
	Name     string
	Price    float64
	Quantity int
	Image    string
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name     *string
	Price    *float64
	Quantity *int
	Image    *string
}

func (p Patch) IsZero() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil && p.Image == nil
}

type Store interface {
	Ping(ctx context.Context) error

	FindAll(ctx context.Context) ([]Product, error)
	FindOne(ctx context.Context, id string) (Product, bool, error)
	Create(ctx context.Context, np NewProduct) (Product, error)
	Update(ctx context.Context, id string, p Patch) (Product, bool, error)
	Remove(ctx context.Context, id string) (bool, error)
}
