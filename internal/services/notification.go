package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/mentara/apiserver/internal/mq"
	"github.com/mentara/apiserver/types"
)

const notificationChannel = "notifications"

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	ListByAccount(ctx context.Context, accountID int, limit int) ([]types.Notification, error)
	Create(ctx context.Context, n types.Notification) (types.Notification, error)
	MarkRead(ctx context.Context, id, accountID int) error
}

// NotificationService stores notifications and fans them out through
// the broker when one is configured.
type NotificationService struct {
	repo   NotificationRepository
	broker *mq.MQ
}

// NewNotificationService constructs the service. broker may be nil when
// fan-out is disabled.
func NewNotificationService(repo NotificationRepository, broker *mq.MQ) *NotificationService {
	return &NotificationService{repo: repo, broker: broker}
}

func (s *NotificationService) List(ctx context.Context, accountID, limit int) ([]types.Notification, error) {
	return s.repo.ListByAccount(ctx, accountID, limit)
}

// Notify stores the notification and publishes it. Publish failures are
// logged, not surfaced: the stored row is the source of truth and the
// broker is a delivery optimization.
func (s *NotificationService) Notify(ctx context.Context, accountID int, title, body string) (types.Notification, error) {
	n, err := s.repo.Create(ctx, types.Notification{
		AccountID: accountID,
		Title:     title,
		Body:      body,
	})
	if err != nil {
		return types.Notification{}, err
	}

	if s.broker != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			_, err = s.broker.Publish(ctx, notificationChannel, payload, map[string]string{
				"account_id": strconv.Itoa(accountID),
			})
		}
		if err != nil {
			log.Printf("notification %d: publish failed: %v", n.ID, err)
		}
	}

	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, accountID int) error {
	return s.repo.MarkRead(ctx, id, accountID)
}
