package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// UserRepo persists users using pgx and plain SQL.
type UserRepo struct{}

// NewUserRepo constructs a new UserRepo.
func NewUserRepo() ports.UserRepository {
	return &UserRepo{}
}

// CreateUser inserts a new user row.
func (repo *UserRepo) CreateUser(ctx context.Context, u *user.User) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// if caller didn't pre-assign an ID, insert and get it back
	if u.ID == "" {
		return tx.QueryRow(ctx, `
			INSERT INTO users (email, full_name, phone, role, password_hash, attrs)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`,
			u.Email,
			u.FullName,
			u.Phone,
			u.Role.String(),
			u.PasswordHash,
			u.Attrs, // pgx marshals to jsonb
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	}

	// If caller provided an ID, insert explicitly
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, phone, role, password_hash, attrs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`,
		u.ID,
		u.Email,
		u.FullName,
		u.Phone,
		u.Role.String(),
		u.PasswordHash,
		u.Attrs,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetByID returns one user by id.
func (repo *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return repo.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns one user by email.
func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return repo.getOne(ctx, `WHERE email = $1`, email)
}

func (repo *UserRepo) getOne(ctx context.Context, where string, arg any) (*user.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var (
		out      user.User
		roleText string
		attrsRaw []byte
	)

	err = tx.QueryRow(ctx, `
		SELECT
			id, created_at, updated_at,
			email, full_name, phone, role, password_hash, attrs
		FROM users
		`+where, arg).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt,
		&out.Email, &out.FullName, &out.Phone, &roleText, &out.PasswordHash, &attrsRaw,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	out.Role = user.Role(roleText)

	// decode JSONB attrs (nullable but defaults to '{}' in schema)
	if len(attrsRaw) > 0 {
		var attrs user.Attrs
		if err := json.Unmarshal(attrsRaw, &attrs); err != nil {
			return nil, err
		}
		out.Attrs = attrs
	} else {
		out.Attrs = make(user.Attrs)
	}

	return &out, nil
}
