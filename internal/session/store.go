package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/repository/contract"
	"talentify-client/internal/router"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	// TopicChanged carries a JSON router.View after every mutation.
	TopicChanged = "session.changed"

	DefaultPollInterval = 30 * time.Second

	notificationCallTimeout = 15 * time.Second
	moduleName              = "SessionStore"
)

var (
	ErrProfileIncomplete = errors.New("user profile is incomplete")
	ErrInvalidStep       = errors.New("invalid wizard step")
	ErrNoUser            = errors.New("no user in session")
	ErrFileIndex         = errors.New("uploaded file index out of range")
)

// NotificationAPI is the subset of the backend the store talks to directly.
type NotificationAPI interface {
	ListNotifications(ctx context.Context, userID string) ([]dto.NotificationPayload, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	ClearSessionData(ctx context.Context) error
}

type Options struct {
	PollInterval     time.Duration
	DefaultTheme     entity.Theme
	CancelOnNavigate bool
}

// State is a point-in-time copy of the session. Mutating it has no effect on the store.
type State struct {
	User               *entity.User
	Authenticated      bool
	Page               entity.Page
	Step               entity.Step
	Theme              entity.Theme
	Job                *entity.JobRequirement
	CurrentJobID       string
	UploadedFiles      []entity.UploadedFile
	UploadedResumeIDs  []string
	Candidates         []entity.Candidate
	FilteredCandidates []entity.Candidate
	Criteria           entity.FilterCriteria
	Notifications      []entity.Notification
	Loading            bool
	LoadingMessage     string
	Modal              entity.Modal
	OTPAction          entity.OTPAction
}

// Store is the single source of truth for cross-screen state. Every change goes
// through a named method and is announced on TopicChanged.
type Store struct {
	mu    sync.RWMutex
	state State

	storage   contract.IStorageRepository
	api       NotificationAPI
	publisher message.Publisher
	log       logger.ILogger
	opts      Options

	notificationMapper *mapper.NotificationMapper

	pollCancel context.CancelFunc
	pollGen    uint64
	bg         sync.WaitGroup

	navCtx    context.Context
	navCancel context.CancelFunc
}

func NewStore(storage contract.IStorageRepository, api NotificationAPI, publisher message.Publisher, log logger.ILogger, opts Options) *Store {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if !opts.DefaultTheme.Valid() {
		opts.DefaultTheme = entity.ThemeLight
	}
	s := &Store{
		storage:            storage,
		api:                api,
		publisher:          publisher,
		log:                log,
		opts:               opts,
		notificationMapper: mapper.NewNotificationMapper(),
	}
	s.state = s.initialState()
	s.navCtx, s.navCancel = context.WithCancel(context.Background())
	return s
}

func (s *Store) initialState() State {
	return State{
		Page:           entity.PageLanding,
		Step:           entity.StepJobSetup,
		Theme:          s.opts.DefaultTheme,
		Criteria:       entity.DefaultFilterCriteria(),
		LoadingMessage: "Processing...",
	}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyStateLocked()
}

func (s *Store) copyStateLocked() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	if st.Job != nil {
		j := *st.Job
		j.Skills = append([]string(nil), st.Job.Skills...)
		st.Job = &j
	}
	st.UploadedFiles = append([]entity.UploadedFile(nil), st.UploadedFiles...)
	st.UploadedResumeIDs = append([]string(nil), st.UploadedResumeIDs...)
	st.Candidates = append([]entity.Candidate(nil), st.Candidates...)
	st.FilteredCandidates = append([]entity.Candidate(nil), st.FilteredCandidates...)
	st.Notifications = append([]entity.Notification(nil), st.Notifications...)
	return st
}

func (s *Store) View() router.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Store) viewLocked() router.View {
	return router.View{
		Authenticated:  s.state.Authenticated,
		Page:           s.state.Page,
		Step:           s.state.Step,
		Loading:        s.state.Loading,
		LoadingMessage: s.state.LoadingMessage,
		Modal:          s.state.Modal.Kind,
	}
}

// Route resolves the screen for the current state.
func (s *Store) Route() router.Route {
	return router.Resolve(s.View())
}

func (s *Store) publish(view router.View) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		s.log.Error(moduleName, "Failed to encode session view", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(TopicChanged, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.log.Warn(moduleName, "Failed to publish session change", map[string]interface{}{"error": err.Error()})
	}
}

// update runs fn under the write lock and publishes the resulting view.
func (s *Store) update(fn func(st *State) error) error {
	s.mu.Lock()
	if err := fn(&s.state); err != nil {
		s.mu.Unlock()
		return err
	}
	view := s.viewLocked()
	s.mu.Unlock()
	s.publish(view)
	return nil
}

// Close stops the notification poller and waits for background calls to finish.
func (s *Store) Close() {
	s.mu.Lock()
	s.stopPollingLocked()
	s.navCancel()
	s.mu.Unlock()
	s.bg.Wait()
}
