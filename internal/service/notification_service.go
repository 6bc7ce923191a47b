package service

import (
	"context"

	"talentify-client/internal/entity"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
)

// NotificationService backs the notifications page. Polling itself lives in
// the session store; this type only exposes it to screens.
type NotificationService struct {
	store  *session.Store
	logger logger.ILogger
}

func NewNotificationService(store *session.Store, log logger.ILogger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: log,
	}
}

// Open shows the notifications page and refreshes the list once.
func (s *NotificationService) Open(ctx context.Context) error {
	if err := s.store.GoToPage(entity.PageNotifications); err != nil {
		return err
	}
	s.store.RefreshNotifications(ctx)
	return nil
}

func (s *NotificationService) List() []entity.Notification {
	return s.store.Notifications()
}

func (s *NotificationService) UnreadCount() int {
	return s.store.UnreadCount()
}

func (s *NotificationService) MarkRead(id string) {
	s.store.MarkNotificationRead(id)
}

func (s *NotificationService) MarkAllRead() {
	s.logger.Debug("NotificationService", "Marking all notifications read", nil)
	s.store.MarkAllNotificationsRead()
}
