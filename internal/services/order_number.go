package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gasflow/internal/repository"
)

const orderNumberAttempts = 5

// orderNumbers hands out GF-<year>-<6 digits> numbers derived from the
// millisecond clock. Numbers issued by one process are strictly increasing.
type orderNumbers struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newOrderNumbers() *orderNumbers {
	return &orderNumbers{now: time.Now}
}

func (g *orderNumbers) next() string {
	now := g.now()
	g.mu.Lock()
	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()
	return fmt.Sprintf("GF-%d-%06d", now.Year(), ms%1000000)
}

// unique skips numbers already present in the orders table, which can happen
// after a restart or with several API processes.
func (g *orderNumbers) unique(ctx context.Context, orders repository.OrderRepository) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := g.next()
		exists, err := orders.OrderNumberExists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate an order number", ErrConflict)
}
