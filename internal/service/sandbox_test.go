package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"talentify-client/internal/api"
	"talentify-client/internal/entity"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/repository/contract"
	"talentify-client/internal/repository/memory"
	"talentify-client/internal/session"
	"talentify-client/internal/stubapi"
	"talentify-client/internal/validation"
	"talentify-client/pkg/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fiberTransport serves client requests straight from the sandbox app.
type fiberTransport struct {
	app *fiber.App
}

func (t fiberTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.app.Test(r, -1)
}

func TestSandboxScreeningJourney(t *testing.T) {
	ctx := context.Background()
	srv, err := stubapi.New(stubapi.Config{JWTSecret: "sandbox", UploadDir: t.TempDir()}, logger.NewNopLogger())
	require.NoError(t, err)

	storage := memory.NewStorageRepository("journey")
	gw := gateway.NewClient("http://sandbox/api", 10*time.Second,
		gateway.WithHTTPClient(&http.Client{Transport: fiberTransport{app: srv.App()}}),
		gateway.WithTokenSource(func(ctx context.Context) string {
			token, _, _ := storage.Get(ctx, contract.KeyToken)
			return token
		}),
	)
	client := api.NewClient(gw)
	log := logger.NewNopLogger()
	store := session.NewStore(storage, client, nil, log, session.Options{PollInterval: time.Hour})
	t.Cleanup(store.Close)

	v := validation.NewValidator()
	profile := NewProfileService(client, store, v, log)
	flow := NewAuthFlow(client, store, profile, v, log)

	require.NoError(t, flow.SignUp(ctx, SignUpForm{Email: "hr@acme.io", Password: "Str0ng!pass", ConfirmPassword: "Str0ng!pass"}))
	otp, ok := srv.PendingOTP("hr@acme.io", "signup")
	require.True(t, ok)
	require.NoError(t, flow.VerifyOTP(ctx, otp))
	require.Equal(t, entity.PageProfileCollection, store.Snapshot().Page)

	require.NoError(t, flow.CompleteProfile(ctx, ProfileForm{FullName: "Hana", Department: "Human Resources", Position: "Recruiter", HRID: "HR-1"}))
	require.True(t, store.Snapshot().Authenticated)

	jobs := NewJobSetupService(client, store, v, log)
	require.NoError(t, jobs.SetField("title", "Backend Engineer"))
	require.NoError(t, jobs.SetField("description", "Build APIs"))
	jobs.AddSkill("Go")
	jobs.AddSkill("Redis")
	require.NoError(t, jobs.Submit(ctx))

	dir := t.TempDir()
	strong := filepath.Join(dir, "strong.docx")
	weak := filepath.Join(dir, "weak.doc")
	require.NoError(t, os.WriteFile(strong, []byte("Go and Redis in production"), 0o644))
	require.NoError(t, os.WriteFile(weak, []byte("Spreadsheets"), 0o644))

	uploads := NewUploadService(client, store, validation.DefaultFileLimits(), log)
	require.NoError(t, uploads.AddPaths(strong, weak))
	require.NoError(t, uploads.Process(ctx))

	snap := store.Snapshot()
	require.Equal(t, entity.StepCandidateResults, snap.Step)
	require.Len(t, snap.Candidates, 2)
	assert.Equal(t, "strong.docx", snap.Candidates[0].Filename)
	assert.Equal(t, 100, snap.Candidates[0].MatchScore)
	assert.Equal(t, 0, snap.Candidates[1].MatchScore)

	results := NewResultsService(client, store, t.TempDir(), log)
	preview, err := results.ViewResume(ctx, snap.Candidates[0])
	require.NoError(t, err)
	assert.Contains(t, preview.Text, "Redis")

	path, err := results.DownloadResume(ctx, snap.Candidates[0])
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Go and Redis in production", string(data))

	_, err = results.DownloadAll(ctx)
	require.NoError(t, err)

	notifications := NewNotificationService(store, log)
	require.NoError(t, notifications.Open(ctx))
	require.NotEmpty(t, notifications.List())
	assert.Equal(t, "Screening Completed", notifications.List()[0].Title)
	assert.Positive(t, notifications.UnreadCount())

	notifications.MarkAllRead()
	assert.Zero(t, notifications.UnreadCount())

	account := NewAccountService(store)
	account.RequestLogout()
	assert.Equal(t, entity.ModalLogout, store.Snapshot().Modal.Kind)
	account.ConfirmLogout(ctx)
	snap = store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
	_, ok, _ = storage.Get(ctx, contract.KeyToken)
	assert.False(t, ok)
}
