package orders

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"flowershop/internal/domain"
)

// CreateInput carries the fields accepted when a customer confirms a generated image.
type CreateInput struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// Service implements the order review operations.
type Service struct {
	orders domain.OrderRepository
	owners OwnerResolver
	logger zerolog.Logger
}

func NewService(orders domain.OrderRepository, owners OwnerResolver, logger zerolog.Logger) *Service {
	return &Service{orders: orders, owners: owners, logger: logger.With().Str("component", "orders").Logger()}
}

// Create validates the input, resolves the owning user and stores a pending order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	imageURL := strings.TrimSpace(in.ImageURL)
	prompt := norm.NFC.String(strings.TrimSpace(in.Prompt))

	var missing []string
	if imageURL == "" {
		missing = append(missing, "imageUrl")
	}
	if prompt == "" {
		missing = append(missing, "prompt")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Message: "Missing required fields", Fields: missing}
	}

	var tooLong []string
	if utf8.RuneCountInString(imageURL) > domain.MaxImageURLLength {
		tooLong = append(tooLong, "imageUrl")
	}
	if utf8.RuneCountInString(prompt) > domain.MaxPromptLength {
		tooLong = append(tooLong, "prompt")
	}
	if len(tooLong) > 0 {
		return nil, &domain.ValidationError{Message: "Fields exceed 1000 characters", Fields: tooLong}
	}

	owner, err := s.owners.ResolveOwner(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, &domain.Order{
		ImageURL: imageURL,
		Prompt:   prompt,
		UserID:   &owner.ID,
		Status:   domain.OrderStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.Info().Int64("order_id", order.ID).Int64("user_id", owner.ID).Msg("order created")
	return order, nil
}

// List returns all orders, most recent first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	list, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// UpdateStatus moves an order to a new status. Repeating the same update is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) (*domain.Order, error) {
	if id <= 0 || strings.TrimSpace(rawStatus) == "" {
		return nil, &domain.ValidationError{Message: "Missing required fields"}
	}
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, &domain.ValidationError{Message: "Invalid status", Fields: []string{"status"}}
	}
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("order_id", order.ID).Str("status", string(order.Status)).Msg("order status updated")
	return order, nil
}
