package session

import (
	"context"
	"time"

	"talentify-client/internal/entity"
)

func (s *Store) Notifications() []entity.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Notification(nil), s.state.Notifications...)
}

func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.state.Notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// startPollingLocked fetches notifications now and then every PollInterval
// until authentication ends.
func (s *Store) startPollingLocked() {
	if s.pollCancel != nil || s.api == nil {
		return
	}
	if s.state.User == nil || s.state.User.ID == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.pollGen++
	s.pollCancel = cancel

	s.bg.Add(1)
	go s.poll(ctx, s.pollGen, s.state.User.ID)
}

func (s *Store) stopPollingLocked() {
	if s.pollCancel == nil {
		return
	}
	s.pollCancel()
	s.pollCancel = nil
	s.pollGen++
}

func (s *Store) poll(ctx context.Context, gen uint64, userID string) {
	defer s.bg.Done()

	s.fetchNotifications(ctx, gen, userID)

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchNotifications(ctx, gen, userID)
		}
	}
}

// fetchNotifications replaces the local list with the server's, discarding any
// optimistic read flags. Results from a stopped poller are ignored.
func (s *Store) fetchNotifications(ctx context.Context, gen uint64, userID string) {
	payloads, err := s.api.ListNotifications(ctx, userID)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn(moduleName, "Error fetching notifications", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	list := s.notificationMapper.ToEntities(payloads)

	s.mu.Lock()
	if s.pollGen != gen {
		s.mu.Unlock()
		return
	}
	s.state.Notifications = list
	view := s.viewLocked()
	s.mu.Unlock()
	s.publish(view)
}

// RefreshNotifications polls once outside the ticker, e.g. when the
// notifications page opens.
func (s *Store) RefreshNotifications(ctx context.Context) {
	s.mu.RLock()
	gen := s.pollGen
	active := s.pollCancel != nil
	var userID string
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	s.mu.RUnlock()
	if !active || userID == "" {
		return
	}
	s.fetchNotifications(ctx, gen, userID)
}

// MarkNotificationRead flips the flag locally at once; the backend call runs in
// the background and a failure is only logged.
func (s *Store) MarkNotificationRead(id string) {
	userID := s.markRead(func(n *entity.Notification) bool { return n.ID == id })
	if userID == "" {
		return
	}
	s.background("Error marking notification as read", func(ctx context.Context) error {
		return s.api.MarkNotificationRead(ctx, userID, id)
	})
}

func (s *Store) MarkAllNotificationsRead() {
	userID := s.markRead(func(*entity.Notification) bool { return true })
	if userID == "" {
		return
	}
	s.background("Error marking all notifications as read", func(ctx context.Context) error {
		return s.api.MarkAllNotificationsRead(ctx, userID)
	})
}

func (s *Store) markRead(match func(n *entity.Notification) bool) string {
	var userID string
	_ = s.update(func(st *State) error {
		if st.User != nil {
			userID = st.User.ID
		}
		for i := range st.Notifications {
			if match(&st.Notifications[i]) {
				st.Notifications[i].Read = true
			}
		}
		return nil
	})
	if s.api == nil {
		return ""
	}
	return userID
}

func (s *Store) background(failure string, call func(ctx context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notificationCallTimeout)
		defer cancel()
		if err := call(ctx); err != nil {
			s.log.Warn(moduleName, failure, map[string]interface{}{"error": err.Error()})
		}
	}()
}
