package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"RecordStore/internal/password"
)

// PostgresStore implements Store against Postgres. Expected schema:
//
//	CREATE TABLE users (
//	    id       TEXT PRIMARY KEY,
//	    username TEXT NOT NULL,
//	    email    TEXT NOT NULL UNIQUE,
//	    password TEXT NOT NULL
//	);
type PostgresStore struct {
	db     *sql.DB
	hasher *password.Hasher
}

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

func NewPostgresStore(db *sql.DB, hasher *password.Hasher) *PostgresStore {
	return &PostgresStore{db: db, hasher: hasher}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]User, error) {
	var out []User

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, username, email, password
			FROM users
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]User, 0, 16)
		for rows.Next() {
			var u User
			if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash); err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) FindOne(ctx context.Context, id string) (User, bool, error) {
	var u User

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, username, email, password
			FROM users
			WHERE id = $1
		`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	})

	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, nu NewUser) (User, error) {
	digest, err := s.hasher.Hash(nu.Password)
	if err != nil {
		return User{}, err
	}

	// The primary key is random; a collision across 2^122 candidates is
	// not a practical concern, unlike the email unique constraint.
	u := User{
		ID:           uuid.NewString(),
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: digest,
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, username, email, password)
			VALUES ($1, $2, $3, $4)
		`, u.ID, u.Username, u.Email, u.PasswordHash)

		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	})
	if err != nil {
		return User{}, err
	}

	return u, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, p Patch) (User, bool, error) {
	u, ok, err := s.FindOne(ctx, id)
	if err != nil || !ok {
		return User{}, false, err
	}

	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		digest, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return User{}, false, err
		}
		u.PasswordHash = digest
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE users
			SET username = $1, email = $2, password = $3
			WHERE id = $4
		`, u.Username, u.Email, u.PasswordHash, id)
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
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	var u User

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, username, email, password
			FROM users
			WHERE email = $1
		`, email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	})

	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) Authenticate(ctx context.Context, email, plain string) (User, bool, error) {
	u, ok, err := s.FindByEmail(ctx, email)
	if err != nil {
		return User{}, false, err
	}
	if !ok {
		return User{}, false, nil
	}
	if !s.hasher.Verify(plain, u.PasswordHash) {
		return User{}, false, nil
	}
	return u, true, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
