package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"flowershop/internal/domain"
	"flowershop/internal/infra"
	"flowershop/internal/orders"
	"flowershop/internal/providers/chat"
	"flowershop/internal/web"
)

// OrderService is the order review surface used by the HTTP layer.
type OrderService interface {
	Create(ctx context.Context, in orders.CreateInput) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

// ChatStreamer produces the ordered completion event stream.
type ChatStreamer interface {
	Stream(ctx context.Context, messages []chat.Message) <-chan chat.Event
}

type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	Orders OrderService
	Chat   ChatStreamer
	Views  *web.Views
	Now    func() time.Time
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, message, details string) {
	a.json(w, code, errorResponse{Error: message, Details: details})
}

// log returns the request-scoped logger, falling back to the app logger.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
