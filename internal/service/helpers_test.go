package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"talentify-client/internal/api"
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/repository/memory"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"
	"talentify-client/pkg/gateway"
)

// fakeClient implements api.IClient with canned responses. Calls that a test
// does not configure panic through the embedded nil interface.
type fakeClient struct {
	api.IClient

	mu    sync.Mutex
	calls map[string]int

	loginRes    *dto.UserPayload
	loginErr    error
	verifyRes   *dto.UserPayload
	verifyErr   error
	profileRes  *dto.UserPayload
	uploadRes   *dto.UploadResumesResponse
	screenRes   *dto.ScreenResumesResponse
	downloadRes *api.Download
	lastFilter  *dto.DownloadFilteredRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) SignUp(context.Context, *dto.SignUpRequest) (*dto.SignUpResponse, error) {
	f.record("signup")
	return &dto.SignUpResponse{Message: "ok", UserID: "u1"}, nil
}

func (f *fakeClient) Login(context.Context, *dto.LoginRequest) (*dto.UserPayload, error) {
	f.record("login")
	return f.loginRes, f.loginErr
}

func (f *fakeClient) VerifyOTP(context.Context, *dto.VerifyOTPRequest) (*dto.UserPayload, error) {
	f.record("verify")
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verifyRes == nil {
		return &dto.UserPayload{Message: "OTP verified"}, nil
	}
	return f.verifyRes, nil
}

func (f *fakeClient) ForgotPassword(context.Context, *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	f.record("forgot")
	return &dto.MessageResponse{Message: "sent"}, nil
}

func (f *fakeClient) ResetPassword(context.Context, *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	f.record("reset")
	return &dto.MessageResponse{Message: "reset"}, nil
}

func (f *fakeClient) UpdateProfile(context.Context, *dto.UpdateProfileRequest) (*dto.UserPayload, error) {
	f.record("profile")
	if f.profileRes == nil {
		return &dto.UserPayload{Role: entity.RoleHR, RoleSet: true}, nil
	}
	return f.profileRes, nil
}

func (f *fakeClient) CreateJob(context.Context, *dto.CreateJobRequest) (*dto.CreateJobResponse, error) {
	f.record("job")
	return &dto.CreateJobResponse{JobID: "job-1"}, nil
}

func (f *fakeClient) UploadResumes(_ context.Context, _ string, files []entity.UploadedFile) (*dto.UploadResumesResponse, error) {
	f.record("upload")
	return f.uploadRes, nil
}

func (f *fakeClient) ScreenResumes(context.Context, *dto.ScreenResumesRequest) (*dto.ScreenResumesResponse, error) {
	f.record("screen")
	return f.screenRes, nil
}

func (f *fakeClient) DownloadFiltered(_ context.Context, req *dto.DownloadFilteredRequest) (*api.Download, error) {
	f.record("download_filtered")
	f.lastFilter = req
	return f.downloadRes, nil
}

func (f *fakeClient) DownloadAll(context.Context, string) (*api.Download, error) {
	f.record("download_all")
	return f.downloadRes, nil
}

func (f *fakeClient) ListNotifications(context.Context, string) ([]dto.NotificationPayload, error) {
	return nil, nil
}

func (f *fakeClient) MarkNotificationRead(context.Context, string, string) error {
	return nil
}

func (f *fakeClient) MarkAllNotificationsRead(context.Context, string) error {
	return nil
}

func (f *fakeClient) ClearSessionData(context.Context) error {
	f.record("clear")
	return nil
}

func newTestStore(t *testing.T, client session.NotificationAPI) *session.Store {
	t.Helper()
	store := session.NewStore(memory.NewStorageRepository("test"), client, nil, logger.NewNopLogger(), session.Options{PollInterval: time.Hour})
	t.Cleanup(store.Close)
	return store
}

func newTestAuthFlow(t *testing.T, client *fakeClient) (IAuthFlow, *session.Store) {
	t.Helper()
	store := newTestStore(t, client)
	v := validation.NewValidator()
	profile := NewProfileService(client, store, v, logger.NewNopLogger())
	return NewAuthFlow(client, store, profile, v, logger.NewNopLogger()), store
}

func invalidOTP() error {
	return &gateway.APIError{Status: 401, Message: "Invalid OTP"}
}
