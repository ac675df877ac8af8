package orders

import (
	"context"
	"errors"
	"fmt"

	"flowershop/internal/domain"
)

// OwnerResolver decides which user a new order belongs to. It stands in for a
// real identity system.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context) (*domain.User, error)
}

// PlaceholderOwner binds every order to the first stored user, creating
// domain.PlaceholderUser when the users table is empty.
type PlaceholderOwner struct {
	users domain.UserRepository
}

func NewPlaceholderOwner(users domain.UserRepository) *PlaceholderOwner {
	return &PlaceholderOwner{users: users}
}

func (p *PlaceholderOwner) ResolveOwner(ctx context.Context) (*domain.User, error) {
	user, err := p.users.First(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	// A concurrent request may insert the placeholder first; the insert is a
	// no-op on email conflict and the re-read picks up whichever row won.
	if err := p.users.CreateIfAbsent(ctx, domain.PlaceholderUser); err != nil {
		return nil, fmt.Errorf("create placeholder owner: %w", err)
	}
	user, err = p.users.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload owner: %w", err)
	}
	return user, nil
}

var _ OwnerResolver = (*PlaceholderOwner)(nil)
