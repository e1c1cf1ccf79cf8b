package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mentara/apiserver/internal/mq"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
)

type fakeNotificationRepo struct {
	notifications []types.Notification
}

func (r *fakeNotificationRepo) ListByAccount(ctx context.Context, accountID int, limit int) ([]types.Notification, error) {
	var out []types.Notification
	for _, n := range r.notifications {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n types.Notification) (types.Notification, error) {
	n.ID = len(r.notifications) + 1
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, accountID int) error {
	for i, n := range r.notifications {
		if n.ID == id && n.AccountID == accountID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeBrokerBackend struct {
	published [][]byte
	fail      bool
}

func (b *fakeBrokerBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if b.fail {
		return "", errors.New("broker down")
	}
	b.published = append(b.published, data)
	return "msg-1", nil
}

func (b *fakeBrokerBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (b *fakeBrokerBackend) Close() error { return nil }

func TestNotifyStoresAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	backend := &fakeBrokerBackend{}
	service := NewNotificationService(repo, mq.New(backend))

	n, err := service.Notify(context.Background(), 4, "New grade", "Math: 90")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("expected notification id")
	}
	if len(backend.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(backend.published))
	}
}

func TestNotifyPublishFailureIsNonFatal(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, mq.New(&fakeBrokerBackend{fail: true}))

	if _, err := service.Notify(context.Background(), 4, "title", "body"); err != nil {
		t.Fatalf("publish failure must not fail notify, got %v", err)
	}
	if len(repo.notifications) != 1 {
		t.Fatal("notification row should still be stored")
	}
}

func TestNotifyWithoutBroker(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, nil)

	if _, err := service.Notify(context.Background(), 4, "title", "body"); err != nil {
		t.Fatalf("notify without broker: %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, nil)
	ctx := context.Background()

	n, err := service.Notify(ctx, 4, "title", "body")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := service.MarkRead(ctx, n.ID, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong account, got %v", err)
	}
	if err := service.MarkRead(ctx, n.ID, 4); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !repo.notifications[0].Read {
		t.Fatal("notification should be marked read")
	}
}
