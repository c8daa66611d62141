package services

import (
	"context"
	"log"

	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/storage"
)

// NotificationEvent is the payload fanned out through the cache manager's
// pub/sub channel to every websocket hub instance.
type NotificationEvent struct {
	UserID       string              `json:"user_id"`
	Notification models.Notification `json:"notification"`
}

type NotificationService struct {
	store    storage.Storage
	cacheMgr *cache.CacheManager
}

func NewNotificationService(store storage.Storage, cacheMgr *cache.CacheManager) *NotificationService {
	return &NotificationService{store: store, cacheMgr: cacheMgr}
}

// Notify persists a notification and pushes it to connected sockets. Push
// failures are logged, not surfaced: the notification is durable either way.
func (s *NotificationService) Notify(ctx context.Context, userID, title, body, link string) {
	n := &models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Link:   link,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		log.Printf("Failed to store notification for %s: %v", userID, err)
		return
	}
	s.cacheMgr.PublishNotification(NotificationEvent{UserID: userID, Notification: *n})
}
