package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talentify-client/internal/entity"
	"talentify-client/internal/repository/contract"

	"github.com/golang-jwt/jwt/v5"
)

// Hydrate restores the session from storage once at startup. Malformed data is
// never returned as an error: unreadable storage or a bad user resets the
// session, a bad job or candidate list is dropped.
func (s *Store) Hydrate(ctx context.Context) {
	token, hasToken, err := s.storage.Get(ctx, contract.KeyToken)
	if err != nil {
		s.log.Error(moduleName, "Persisted session unreadable, resetting it", map[string]interface{}{"error": err.Error()})
		s.ClearSession(ctx)
		return
	}
	if hasToken && tokenExpired(token, time.Now()) {
		s.log.Info(moduleName, "Persisted token expired, starting without a session", nil)
		s.ClearSession(ctx)
		return
	}

	theme := s.opts.DefaultTheme
	if v, ok := s.read(ctx, contract.KeyTheme); ok && entity.Theme(v).Valid() {
		theme = entity.Theme(v)
	}

	var user *entity.User
	if raw, ok := s.read(ctx, contract.KeyUser); ok {
		user = &entity.User{}
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			s.log.Error(moduleName, "Error parsing saved user data", map[string]interface{}{"error": err.Error()})
			s.ClearSession(ctx)
			return
		}
	}

	var job *entity.JobRequirement
	if raw, ok := s.read(ctx, contract.KeyJob); ok {
		job = &entity.JobRequirement{}
		if err := json.Unmarshal([]byte(raw), job); err != nil {
			s.log.Error(moduleName, "Error parsing saved job data", map[string]interface{}{"error": err.Error()})
			s.drop(ctx, contract.KeyJob)
			job = nil
		}
	}

	var candidates []entity.Candidate
	if raw, ok := s.read(ctx, contract.KeyCandidates); ok {
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			s.log.Error(moduleName, "Error parsing saved candidates data", map[string]interface{}{"error": err.Error()})
			s.drop(ctx, contract.KeyCandidates)
			candidates = nil
		}
	}

	_ = s.update(func(st *State) error {
		*st = s.initialState()
		st.Theme = theme
		st.User = user
		st.Job = job
		if job != nil {
			st.CurrentJobID = job.ID
			if st.CurrentJobID == "" {
				st.CurrentJobID = job.JobID
			}
		}
		st.Candidates = candidates
		st.FilteredCandidates = st.Criteria.Apply(candidates)

		switch {
		case user != nil && user.ProfileComplete():
			st.Authenticated = true
			st.Page = entity.PageDashboard
			s.startPollingLocked()
		case user != nil:
			st.Page = entity.PageProfileCollection
		default:
			st.Page = entity.PageLanding
		}
		s.pageChangedLocked()
		return nil
	})
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that are not JWTs are opaque to the client and never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (s *Store) read(ctx context.Context, key contract.StorageKey) (string, bool) {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log.Warn(moduleName, "Failed to read persisted key", map[string]interface{}{"key": string(key), "error": err.Error()})
		return "", false
	}
	return v, ok
}

func (s *Store) drop(ctx context.Context, keys ...contract.StorageKey) {
	if err := s.storage.Delete(ctx, keys...); err != nil {
		s.log.Warn(moduleName, "Failed to delete persisted keys", map[string]interface{}{"error": err.Error()})
	}
}

// SaveSession persists the token (when given) and then the user. If the user
// write fails the previous token is restored and the in-memory session is left
// as it was.
func (s *Store) SaveSession(ctx context.Context, user *entity.User, token string) error {
	if user == nil {
		return ErrNoUser
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	var prevToken string
	var hadToken bool
	if token != "" {
		prevToken, hadToken, err = s.storage.Get(ctx, contract.KeyToken)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if err := s.storage.Set(ctx, contract.KeyToken, token); err != nil {
			return fmt.Errorf("persist token: %w", err)
		}
	}

	if err := s.storage.Set(ctx, contract.KeyUser, string(payload)); err != nil {
		if token != "" {
			s.restoreToken(ctx, prevToken, hadToken)
		}
		return fmt.Errorf("persist user: %w", err)
	}

	return s.update(func(st *State) error {
		st.User = cloneUser(user)
		if st.Authenticated && !user.ProfileComplete() {
			st.Authenticated = false
			s.stopPollingLocked()
			st.Page = entity.PageProfileCollection
			s.pageChangedLocked()
		}
		return nil
	})
}

func (s *Store) restoreToken(ctx context.Context, prev string, had bool) {
	var err error
	if had {
		err = s.storage.Set(ctx, contract.KeyToken, prev)
	} else {
		err = s.storage.Delete(ctx, contract.KeyToken)
	}
	if err != nil {
		s.log.Error(moduleName, "Failed to roll back token write", map[string]interface{}{"error": err.Error()})
	}
}

// ClearSession resets every field to its initial value, removes all persisted
// keys and routes to landing. Calling it again is a no-op.
func (s *Store) ClearSession(ctx context.Context) {
	s.drop(ctx, contract.SessionKeys...)
	_ = s.update(func(st *State) error {
		s.stopPollingLocked()
		pageChanged := st.Page != entity.PageLanding
		*st = s.initialState()
		if pageChanged {
			s.pageChangedLocked()
		}
		return nil
	})
}

// Logout asks the backend to drop its session data and always clears the
// local session, whatever the backend answers.
func (s *Store) Logout(ctx context.Context) {
	if s.api != nil {
		if err := s.api.ClearSessionData(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn(moduleName, "Server-side logout failed", map[string]interface{}{"error": err.Error()})
		}
	}
	s.ClearSession(ctx)
}
