package session

import (
	"context"
	"encoding/json"
	"fmt"

	"talentify-client/internal/entity"
	"talentify-client/internal/repository/contract"
	"talentify-client/internal/router"
)

// SetUser replaces the session user and persists it. An authenticated session
// cannot take a user whose profile is incomplete.
func (s *Store) SetUser(ctx context.Context, user *entity.User) error {
	s.mu.RLock()
	authenticated := s.state.Authenticated
	s.mu.RUnlock()
	if authenticated && !user.ProfileComplete() {
		return ErrProfileIncomplete
	}

	if user == nil {
		if err := s.storage.Delete(ctx, contract.KeyUser); err != nil {
			return fmt.Errorf("delete persisted user: %w", err)
		}
	} else if err := s.persistJSON(ctx, contract.KeyUser, user); err != nil {
		return err
	}

	return s.update(func(st *State) error {
		st.User = cloneUser(user)
		return nil
	})
}

// Authenticate marks the session authenticated and moves to a private page,
// the dashboard unless page names another one. It starts notification polling.
func (s *Store) Authenticate(page entity.Page) error {
	if !router.IsPrivate(page) {
		page = entity.PageDashboard
	}
	return s.update(func(st *State) error {
		if !st.User.ProfileComplete() {
			return ErrProfileIncomplete
		}
		st.Authenticated = true
		if st.Page != page {
			st.Page = page
			s.pageChangedLocked()
		}
		s.startPollingLocked()
		return nil
	})
}

// SetAuthenticated(true) is Authenticate on the dashboard. Dropping authentication
// stops polling at once and leaves the private page set.
func (s *Store) SetAuthenticated(authenticated bool) error {
	if authenticated {
		return s.Authenticate(entity.PageDashboard)
	}
	return s.update(func(st *State) error {
		st.Authenticated = false
		s.stopPollingLocked()
		st.Notifications = nil
		if !router.IsPublic(st.Page) {
			st.Page = entity.PageLanding
			s.pageChangedLocked()
		}
		return nil
	})
}

// GoToPage moves within the current page set following the transition table.
func (s *Store) GoToPage(page entity.Page) error {
	return s.update(func(st *State) error {
		if err := router.CheckTransition(st.Authenticated, st.Page, page); err != nil {
			return err
		}
		if st.Page != page {
			st.Page = page
			s.pageChangedLocked()
		}
		return nil
	})
}

func (s *Store) SetStep(step entity.Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	return s.update(func(st *State) error {
		st.Step = step
		return nil
	})
}

// SetJobRequirement stores the created job and persists it. Persistence
// failures are logged; the in-memory job is still set.
func (s *Store) SetJobRequirement(ctx context.Context, job *entity.JobRequirement) {
	if job != nil {
		if err := s.persistJSON(ctx, contract.KeyJob, job); err != nil {
			s.log.Warn(moduleName, "Failed to persist job requirement", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = s.update(func(st *State) error {
		st.Job = cloneJob(job)
		st.CurrentJobID = ""
		if job != nil {
			st.CurrentJobID = job.ID
		}
		return nil
	})
}

func (s *Store) AddUploadedFiles(files ...entity.UploadedFile) {
	_ = s.update(func(st *State) error {
		st.UploadedFiles = append(st.UploadedFiles, files...)
		return nil
	})
}

func (s *Store) RemoveUploadedFile(index int) error {
	return s.update(func(st *State) error {
		if index < 0 || index >= len(st.UploadedFiles) {
			return fmt.Errorf("%w: %d", ErrFileIndex, index)
		}
		st.UploadedFiles = append(st.UploadedFiles[:index:index], st.UploadedFiles[index+1:]...)
		return nil
	})
}

func (s *Store) ClearUploadedFiles() {
	_ = s.update(func(st *State) error {
		st.UploadedFiles = nil
		return nil
	})
}

func (s *Store) SetUploadedResumeIDs(ids []string) {
	_ = s.update(func(st *State) error {
		st.UploadedResumeIDs = append([]string(nil), ids...)
		return nil
	})
}

// SetCandidates replaces the ranked list, persists it and recomputes the
// filtered subset with the active criteria.
func (s *Store) SetCandidates(ctx context.Context, candidates []entity.Candidate) {
	if err := s.persistJSON(ctx, contract.KeyCandidates, candidates); err != nil {
		s.log.Warn(moduleName, "Failed to persist candidates", map[string]interface{}{"error": err.Error()})
	}
	_ = s.update(func(st *State) error {
		st.Candidates = append([]entity.Candidate(nil), candidates...)
		st.FilteredCandidates = st.Criteria.Apply(st.Candidates)
		return nil
	})
}

// SetFilterCriteria stores the results filters and returns the recomputed subset.
func (s *Store) SetFilterCriteria(c entity.FilterCriteria) []entity.Candidate {
	var filtered []entity.Candidate
	_ = s.update(func(st *State) error {
		st.Criteria = c
		st.FilteredCandidates = c.Apply(st.Candidates)
		filtered = append([]entity.Candidate(nil), st.FilteredCandidates...)
		return nil
	})
	return filtered
}

func (s *Store) SetLoading(loading bool, message string) {
	_ = s.update(func(st *State) error {
		st.Loading = loading
		if message != "" {
			st.LoadingMessage = message
		}
		return nil
	})
}

func (s *Store) ShowModal(kind entity.ModalKind, data any) {
	_ = s.update(func(st *State) error {
		st.Modal = entity.Modal{Kind: kind, Data: data}
		return nil
	})
}

func (s *Store) CloseModal() {
	_ = s.update(func(st *State) error {
		st.Modal = entity.Modal{}
		return nil
	})
}

func (s *Store) SetOTPAction(action entity.OTPAction) {
	_ = s.update(func(st *State) error {
		st.OTPAction = action
		return nil
	})
}

// ToggleTheme flips between light and dark and persists the choice.
func (s *Store) ToggleTheme(ctx context.Context) entity.Theme {
	var next entity.Theme
	_ = s.update(func(st *State) error {
		next = entity.ThemeDark
		if st.Theme == entity.ThemeDark {
			next = entity.ThemeLight
		}
		st.Theme = next
		return nil
	})
	if err := s.storage.Set(ctx, contract.KeyTheme, string(next)); err != nil {
		s.log.Warn(moduleName, "Failed to persist theme", map[string]interface{}{"error": err.Error()})
	}
	return next
}

// RestartScreening drops the job, candidates, uploads and filters and returns
// to job setup.
func (s *Store) RestartScreening(ctx context.Context) {
	if err := s.storage.Delete(ctx, contract.KeyJob, contract.KeyCandidates); err != nil {
		s.log.Warn(moduleName, "Failed to delete persisted screening data", map[string]interface{}{"error": err.Error()})
	}
	_ = s.update(func(st *State) error {
		st.Job = nil
		st.CurrentJobID = ""
		st.Candidates = nil
		st.FilteredCandidates = nil
		st.Criteria = entity.DefaultFilterCriteria()
		st.UploadedFiles = nil
		st.UploadedResumeIDs = nil
		st.Step = entity.StepJobSetup
		st.Modal = entity.Modal{}
		return nil
	})
}

func (s *Store) persistJSON(ctx context.Context, key contract.StorageKey, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.storage.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneJob(j *entity.JobRequirement) *entity.JobRequirement {
	if j == nil {
		return nil
	}
	c := *j
	c.Skills = append([]string(nil), j.Skills...)
	return &c
}
