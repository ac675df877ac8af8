package repo

import (
	"context"

	"flowershop/internal/domain"
	"flowershop/internal/infra"
	"flowershop/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// First returns the user with the lowest id, or domain.ErrNotFound when the table is empty.
func (r *UserRepositoryPG) First(ctx context.Context) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectFirstUser)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Age, &u.Email); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateIfAbsent inserts the user unless its email is already taken.
func (r *UserRepositoryPG) CreateIfAbsent(ctx context.Context, user domain.User) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertUserIfAbsent, user.Name, user.Age, user.Email)
	return err
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
