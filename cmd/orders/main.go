package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"flowershop/internal/adapter/repo"
	"flowershop/internal/domain"
	"flowershop/internal/infra"
	"flowershop/internal/orders"
)

type orderStore interface {
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

func main() {
	_ = godotenv.Load()

	var (
		listFlag   bool
		idFlag     int64
		statusFlag string
	)
	flag.BoolVar(&listFlag, "list", false, "list all orders, newest first")
	flag.Int64Var(&idFlag, "id", 0, "order ID to update")
	flag.StringVar(&statusFlag, "status", "", "new status (pending, accepted, rejected)")
	flag.Parse()

	if !listFlag && idFlag == 0 {
		exitWithError(errors.New("either -list or -id with -status must be provided"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "orders").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	svc := orders.NewService(
		repo.NewOrderRepository(runner),
		orders.NewPlaceholderOwner(repo.NewUserRepository(runner)),
		logger,
	)

	if listFlag {
		err = listOrders(ctx, svc, os.Stdout)
	} else {
		err = updateOrder(ctx, svc, os.Stdout, idFlag, statusFlag)
	}
	if err != nil {
		exitWithError(err)
	}
}

func listOrders(ctx context.Context, store orderStore, out io.Writer) error {
	list, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no orders")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tPROMPT")
	for _, o := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", o.ID, o.Status, o.CreatedAt.UTC().Format(time.RFC3339), shorten(o.Prompt, 60))
	}
	return tw.Flush()
}

func updateOrder(ctx context.Context, store orderStore, out io.Writer, id int64, status string) error {
	order, err := store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("order %d not found", id)
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	fmt.Fprintf(out, "Order %d updated to status %s\n", order.ID, order.Status)
	return nil
}

func shorten(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
