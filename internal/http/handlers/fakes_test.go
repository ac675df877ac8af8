package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"flowershop/internal/domain"
	"flowershop/internal/infra"
	"flowershop/internal/orders"
	"flowershop/internal/providers/chat"
	"flowershop/internal/web"
)

type fakeOrders struct {
	mu      sync.Mutex
	orders  []domain.Order
	nextID  int64
	failAll error
	now     time.Time
}

func (f *fakeOrders) Create(_ context.Context, in orders.CreateInput) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	var missing []string
	if strings.TrimSpace(in.ImageURL) == "" {
		missing = append(missing, "imageUrl")
	}
	if strings.TrimSpace(in.Prompt) == "" {
		missing = append(missing, "prompt")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Message: "Missing required fields", Fields: missing}
	}
	f.nextID++
	userID := int64(1)
	o := domain.Order{
		ID:        f.nextID,
		ImageURL:  in.ImageURL,
		Prompt:    in.Prompt,
		UserID:    &userID,
		CreatedAt: f.now.Add(time.Duration(f.nextID) * time.Second),
		Status:    domain.OrderStatusPending,
	}
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeOrders) List(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]domain.Order, 0, len(f.orders))
	for i := len(f.orders) - 1; i >= 0; i-- {
		out = append(out, f.orders[i])
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, raw string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	if id <= 0 || strings.TrimSpace(raw) == "" {
		return nil, &domain.ValidationError{Message: "Missing required fields", Fields: []string{"id", "status"}}
	}
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return nil, &domain.ValidationError{Message: "Invalid status", Fields: []string{"status"}}
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeChat struct {
	events   []chat.Event
	received []chat.Message
}

func (f *fakeChat) Stream(ctx context.Context, messages []chat.Message) <-chan chat.Event {
	f.received = messages
	out := make(chan chat.Event)
	go func() {
		defer close(out)
		for _, ev := range f.events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

var errDatabaseDown = errors.New("database down")

func newTestApp(t *testing.T) (*App, *fakeOrders, *fakeChat) {
	t.Helper()
	views, err := web.NewViews()
	require.NoError(t, err)
	store := &fakeOrders{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	streamer := &fakeChat{}
	app := &App{
		Config: &infra.Config{RateLimitPerMin: 30},
		Logger: zerolog.Nop(),
		Orders: store,
		Chat:   streamer,
		Views:  views,
	}
	return app, store, streamer
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func createInput(imageURL, prompt string) orders.CreateInput {
	return orders.CreateInput{ImageURL: imageURL, Prompt: prompt}
}
