package store

import (
	"context"

	"github.com/atakandgn/company-management-system/types"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db    *sqlx.DB
	table table[types.User]
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
		table: table[types.User]{
			db:       db,
			name:     "users",
			from:     "users",
			columns:  "id, firstname, lastname, username, email, password_hash, created_at, updated_at",
			idColumn: "id",
			sort:     "created_at ASC, id ASC",
		},
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	return r.table.findByID(ctx, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if username == "" {
		return types.User{}, ErrNotFound
	}
	users, err := r.table.find(ctx, Filter{}.Eq("username", username), FindOptions{Limit: 1})
	if err != nil {
		return types.User{}, err
	}
	if len(users) == 0 {
		return types.User{}, ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (id, firstname, lastname, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(query),
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return types.User{}, classify(err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		UPDATE users
		SET firstname = ?,
			lastname = ?,
			username = ?,
			email = ?,
			password_hash = ?,
			updated_at = ?
		WHERE id = ?`
	if err := r.table.exec(
		ctx,
		query,
		user.Firstname,
		user.Lastname,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	); err != nil {
		return types.User{}, err
	}
	return r.GetByID(ctx, user.ID)
}
