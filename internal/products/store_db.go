package products

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PostgresStore implements Store against Postgres. Expected schema:
//
//	CREATE TABLE products (
//	    id       TEXT PRIMARY KEY,
//	    name     TEXT NOT NULL,
//	    price    DOUBLE PRECISION NOT NULL,
//	    quantity INTEGER NOT NULL,
//	    image    TEXT NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, quantity, image
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Image); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindOne(ctx context.Context, id string) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, price, quantity, image
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Image)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, np NewProduct) (Product, error) {
	p := Product{
		ID:       uuid.NewString(),
		Name:     np.Name,
		Price:    np.Price,
		Quantity: np.Quantity,
		Image:    np.Image,
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, price, quantity, image)
			VALUES ($1, $2, $3, $4, $5)
		`, p.ID, p.Name, p.Price, p.Quantity, p.Image)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (Product, bool, error) {
	p, ok, err := s.FindOne(ctx, id)
	if err != nil || !ok {
		return Product{}, false, err
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE products
			SET name = $1, price = $2, quantity = $3, image = $4
			WHERE id = $5
		`, p.Name, p.Price, p.Quantity, p.Image, id)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
