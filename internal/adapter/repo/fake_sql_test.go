package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"flowershop/internal/domain"
	"flowershop/internal/sqlinline"
)

// fakeSQL is an in-memory stand-in for the marker-tagged queries used by the repositories.
type fakeSQL struct {
	mu     sync.Mutex
	now    func() time.Time
	users  []domain.User
	orders []domain.Order
	failOn string
}

func newFakeSQL() *fakeSQL {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	return &fakeSQL{now: func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}}
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if query == f.failOn {
		return pgconn.CommandTag{}, fmt.Errorf("forced failure")
	}
	switch query {
	case sqlinline.QInsertUserIfAbsent:
		email := args[2].(string)
		for _, u := range f.users {
			if u.Email == email {
				return pgconn.NewCommandTag("INSERT 0 0"), nil
			}
		}
		f.users = append(f.users, domain.User{ID: int64(len(f.users) + 1), Name: args[0].(string), Age: args[1].(int), Email: email})
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unsupported exec: %s", query)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if query == f.failOn {
		return fakeRow{err: fmt.Errorf("forced failure")}
	}
	switch query {
	case sqlinline.QSelectFirstUser:
		if len(f.users) == 0 {
			return fakeRow{err: pgx.ErrNoRows}
		}
		u := f.users[0]
		return fakeRow{values: []any{u.ID, u.Name, u.Age, u.Email}}
	case sqlinline.QInsertOrder:
		o := domain.Order{
			ID:        int64(len(f.orders) + 1),
			ImageURL:  args[0].(string),
			Prompt:    args[1].(string),
			UserID:    args[2].(*int64),
			CreatedAt: f.now(),
			Status:    domain.OrderStatus(args[3].(string)),
		}
		f.orders = append(f.orders, o)
		return fakeRow{values: orderValues(o)}
	case sqlinline.QUpdateOrderStatus:
		id := args[0].(int64)
		for i := range f.orders {
			if f.orders[i].ID == id {
				f.orders[i].Status = domain.OrderStatus(args[1].(string))
				return fakeRow{values: orderValues(f.orders[i])}
			}
		}
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{err: fmt.Errorf("unsupported query: %s", query)}
}

func (f *fakeSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if query == f.failOn {
		return nil, fmt.Errorf("forced failure")
	}
	if query != sqlinline.QListOrders {
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	sorted := append([]domain.Order(nil), f.orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	rows := make([][]any, 0, len(sorted))
	for _, o := range sorted {
		rows = append(rows, orderValues(o))
	}
	return &fakeRows{rows: rows}, nil
}

func orderValues(o domain.Order) []any {
	return []any{o.ID, o.ImageURL, o.Prompt, o.UserID, o.CreatedAt, string(o.Status)}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return assign(r.rows[r.idx-1], dest)
}

func (r *fakeRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, pgx.ErrNoRows
	}
	return r.rows[r.idx-1], nil
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *int:
			*d = v.(int)
		case *string:
			*d = v.(string)
		case **int64:
			*d = v.(*int64)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}
