package services

import (
	"context"

	"moco/internal/amqp"
	"moco/internal/core"
	"moco/internal/storage/memstore"
)

// countingRepo wraps the in-memory store to observe repository traffic.
type countingRepo struct {
	*memstore.MemStore
	listWallets int
}

func (c *countingRepo) ListWallets(ctx context.Context, userID string) ([]core.Wallet, error) {
	c.listWallets++
	return c.MemStore.ListWallets(ctx, userID)
}

// fakePublisher records published change events.
type fakePublisher struct {
	messages []*amqp.ChangeMessage
}

func (f *fakePublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}
