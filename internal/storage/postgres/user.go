package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"news_portal/internal/domain"
)

const uniqueViolation = "23505"

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES (:id, :name, :email, :password_hash, :role)`

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		// Two signups can both pass the service's lookup; the unique index decides.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &domain.ValidationError{Fields: []string{"email"}, Reason: "already registered"}
		}
		return storageErr("insert user", err)
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT id, name, email, password_hash, role
		FROM users
		WHERE email = $1`

	err := s.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "user", ID: email}
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return &user, nil
}
