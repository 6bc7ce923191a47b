package session

import "context"

// ScreenContext returns a context for the requests of the current screen. With
// CancelOnNavigate it is cancelled on the next page change; otherwise only
// parent or the returned cancel end it.
func (s *Store) ScreenContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if !s.opts.CancelOnNavigate {
		return ctx, cancel
	}

	s.mu.RLock()
	nav := s.navCtx
	s.mu.RUnlock()

	stop := context.AfterFunc(nav, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Store) pageChangedLocked() {
	if !s.opts.CancelOnNavigate {
		return
	}
	s.navCancel()
	s.navCtx, s.navCancel = context.WithCancel(context.Background())
}
