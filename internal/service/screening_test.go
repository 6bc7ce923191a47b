package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"talentify-client/internal/api"
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func signedIn(t *testing.T, store *session.Store) {
	t.Helper()
	user := &entity.User{ID: "u1", Email: "a@b.io", Name: "A", Role: entity.RoleHR, Department: "Finance", Position: "Recruiter"}
	require.NoError(t, store.SaveSession(context.Background(), user, "token"))
	require.NoError(t, store.Authenticate(entity.PageDashboard))
}

func TestJobSetupDraft(t *testing.T) {
	store := newTestStore(t, newFakeClient())
	signedIn(t, store)
	svc := NewJobSetupService(newFakeClient(), store, validation.NewValidator(), logger.NewNopLogger())

	assert.Equal(t, "Finance", svc.Draft().Department)
	assert.True(t, svc.AddSkill("  Go "))
	assert.False(t, svc.AddSkill("Go"))
	assert.False(t, svc.AddSkill("   "))
	assert.Equal(t, []string{"Go"}, svc.Draft().Skills)

	svc.RemoveSkill("Go")
	assert.Empty(t, svc.Draft().Skills)

	require.NoError(t, svc.ApplyTemplate("software engineer"))
	d := svc.Draft()
	assert.Equal(t, "Software Engineer", d.Title)
	assert.Equal(t, entity.ExperienceMid, d.ExperienceLevel)
	assert.Len(t, d.Skills, 5)

	assert.Error(t, svc.ApplyTemplate("Astronaut"))
	assert.Error(t, svc.SetField("experience", "Wizard"))
	assert.Error(t, svc.SetField("salary", "1"))
}

func TestJobSetupDepartmentFollowsSignIn(t *testing.T) {
	store := newTestStore(t, newFakeClient())
	svc := NewJobSetupService(newFakeClient(), store, validation.NewValidator(), logger.NewNopLogger())
	assert.Empty(t, svc.Draft().Department)

	signedIn(t, store)
	assert.Equal(t, "Finance", svc.Draft().Department)

	require.NoError(t, svc.SetField("department", ""))
	assert.Empty(t, svc.Draft().Department)

	svc.Reset()
	assert.Equal(t, "Finance", svc.Draft().Department)
}

func TestJobSetupSubmit(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		store := newTestStore(t, newFakeClient())
		signedIn(t, store)
		svc := NewJobSetupService(newFakeClient(), store, validation.NewValidator(), logger.NewNopLogger())

		err := svc.Submit(context.Background())
		var fields validation.FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Equal(t, "Job title is required", fields["title"])
		assert.Equal(t, "At least one skill is required", fields["skills"])
	})

	t.Run("expired session", func(t *testing.T) {
		store := newTestStore(t, newFakeClient())
		svc := NewJobSetupService(newFakeClient(), store, validation.NewValidator(), logger.NewNopLogger())
		require.NoError(t, svc.ApplyTemplate("Software Engineer"))

		err := svc.Submit(context.Background())
		var fields validation.FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Equal(t, "User session expired. Please login again.", fields["title"])
	})

	t.Run("success", func(t *testing.T) {
		client := newFakeClient()
		store := newTestStore(t, client)
		signedIn(t, store)
		svc := NewJobSetupService(client, store, validation.NewValidator(), logger.NewNopLogger())
		require.NoError(t, svc.ApplyTemplate("Software Engineer"))

		require.NoError(t, svc.Submit(context.Background()))
		snap := store.Snapshot()
		assert.Equal(t, entity.StepFileUpload, snap.Step)
		assert.Equal(t, "job-1", snap.CurrentJobID)
		require.NotNil(t, snap.Job)
		assert.Equal(t, "Software Engineer", snap.Job.Title)
	})
}

func TestUploadSelectGatesFiles(t *testing.T) {
	store := newTestStore(t, newFakeClient())
	svc := NewUploadService(newFakeClient(), store, validation.DefaultFileLimits(), logger.NewNopLogger())

	err := svc.Select([]entity.UploadedFile{
		{ID: "1", Name: "alice.pdf", Size: 2 * mb},
		{ID: "2", Name: "bob.pdf", Size: 3 * mb},
		{ID: "3", Name: "carol.docx", Size: 12 * mb},
	})

	var rejected *validation.RejectionError
	require.ErrorAs(t, err, &rejected)
	require.Len(t, rejected.Rejections, 1)
	assert.Equal(t, "carol.docx", rejected.Rejections[0].Name)
	assert.Equal(t, validation.ReasonTooLarge, rejected.Rejections[0].Reason)

	files := store.Snapshot().UploadedFiles
	require.Len(t, files, 2)
	assert.Equal(t, "alice.pdf", files[0].Name)
	assert.Equal(t, "bob.pdf", files[1].Name)

	require.NoError(t, svc.Remove(0))
	assert.Equal(t, "bob.pdf", store.Snapshot().UploadedFiles[0].Name)
}

func TestUploadAddPathsReportsUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(good, []byte("%PDF-1.4"), 0o644))

	store := newTestStore(t, newFakeClient())
	svc := NewUploadService(newFakeClient(), store, validation.DefaultFileLimits(), logger.NewNopLogger())

	err := svc.AddPaths(good, filepath.Join(dir, "missing.pdf"))
	var rejected *validation.RejectionError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, validation.ReasonUnreadable, rejected.Rejections[0].Reason)
	require.Len(t, store.Snapshot().UploadedFiles, 1)
	assert.Equal(t, int64(8), store.Snapshot().UploadedFiles[0].Size)
}

func screenedStore(t *testing.T, client *fakeClient) *session.Store {
	t.Helper()
	store := newTestStore(t, client)
	signedIn(t, store)
	store.SetJobRequirement(context.Background(), &entity.JobRequirement{ID: "job-1", JobID: "job-1", Title: "Backend", Skills: []string{"Go"}})
	require.NoError(t, store.SetStep(entity.StepFileUpload))

	client.uploadRes = &dto.UploadResumesResponse{ResumeIDs: []string{"r1", "r2", "r3"}}
	client.screenRes = &dto.ScreenResumesResponse{Results: []dto.ScreenResult{
		{ResumeID: "r1", Filename: "a.pdf", MatchScore: 95, CategorizedField: "Engineering"},
		{ResumeID: "r2", Filename: "b.pdf", MatchScore: 62, CategorizedField: "Design"},
		{ResumeID: "r3", Filename: "c.pdf", MatchScore: 80, CategorizedField: "Engineering"},
	}}

	upload := NewUploadService(client, store, validation.DefaultFileLimits(), logger.NewNopLogger())
	require.NoError(t, upload.Select([]entity.UploadedFile{{ID: "f1", Name: "a.pdf", Size: mb}}))
	require.NoError(t, upload.Process(context.Background()))
	return store
}

func TestProcessScreensAndAdvances(t *testing.T) {
	client := newFakeClient()
	store := screenedStore(t, client)

	snap := store.Snapshot()
	assert.Equal(t, entity.StepCandidateResults, snap.Step)
	assert.Empty(t, snap.UploadedFiles)
	assert.Equal(t, []string{"r1", "r2", "r3"}, snap.UploadedResumeIDs)
	require.Len(t, snap.Candidates, 3)
	assert.Equal(t, []int{95, 80, 62}, []int{snap.Candidates[0].MatchScore, snap.Candidates[1].MatchScore, snap.Candidates[2].MatchScore})
	assert.False(t, snap.Loading)
}

func TestScreeningAppliesActiveFilters(t *testing.T) {
	client := newFakeClient()
	store := screenedStore(t, client)
	results := NewResultsService(client, store, t.TempDir(), logger.NewNopLogger())
	results.SetCriteria(entity.FilterCriteria{MinScore: 90, MaxScore: 100, TopN: 10})
	results.ConfirmRestart(context.Background())

	rows := make([]dto.ScreenResult, 12)
	for i := range rows {
		rows[i] = dto.ScreenResult{ResumeID: fmt.Sprintf("r%d", i), Filename: fmt.Sprintf("%d.pdf", i), MatchScore: float64(90 - i)}
	}
	client.screenRes = &dto.ScreenResumesResponse{Results: rows}
	store.SetJobRequirement(context.Background(), &entity.JobRequirement{ID: "job-2", JobID: "job-2", Title: "Backend", Skills: []string{"Go"}})
	require.NoError(t, store.SetStep(entity.StepFileUpload))
	upload := NewUploadService(client, store, validation.DefaultFileLimits(), logger.NewNopLogger())
	require.NoError(t, upload.Select([]entity.UploadedFile{{ID: "f2", Name: "b.pdf", Size: mb}}))
	require.NoError(t, upload.Process(context.Background()))

	assert.Equal(t, entity.DefaultFilterCriteria(), results.Criteria())
	assert.Equal(t, 12, results.Stats().Total)
	assert.Equal(t, 10, results.Stats().Filtered)
	assert.Len(t, store.Snapshot().FilteredCandidates, 10)
}

func TestProcessRequiresFilesAndJob(t *testing.T) {
	store := newTestStore(t, newFakeClient())
	svc := NewUploadService(newFakeClient(), store, validation.DefaultFileLimits(), logger.NewNopLogger())

	var fields validation.FieldErrors
	require.ErrorAs(t, svc.Process(context.Background()), &fields)
	assert.Equal(t, "Please upload at least one resume.", fields["files"])

	require.NoError(t, svc.Select([]entity.UploadedFile{{ID: "f1", Name: "a.pdf", Size: mb}}))
	require.ErrorAs(t, svc.Process(context.Background()), &fields)
	assert.Contains(t, fields["files"], "Job requirements not found")
}

func TestFilterCandidates(t *testing.T) {
	candidates := []entity.Candidate{
		{ID: "a", MatchScore: 95, Category: "Engineering"},
		{ID: "b", MatchScore: 62, Category: "Design"},
		{ID: "c", MatchScore: 80, Category: "Engineering"},
		{ID: "d", MatchScore: 80, Category: "Design"},
	}
	ids := func(cs []entity.Candidate) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		criteria entity.FilterCriteria
		expected []string
	}{
		{"defaults", entity.DefaultFilterCriteria(), []string{"a", "c", "d", "b"}},
		{"min score", entity.FilterCriteria{MinScore: 70, MaxScore: 100, TopN: 10}, []string{"a", "c", "d"}},
		{"category", entity.FilterCriteria{Category: "Design", MaxScore: 100, TopN: 10}, []string{"d", "b"}},
		{"top n after filters", entity.FilterCriteria{Category: "Engineering", MaxScore: 100, TopN: 1}, []string{"a"}},
		{"show all ignores top n", entity.FilterCriteria{MaxScore: 100, TopN: 1, ShowAll: true}, []string{"a", "c", "d", "b"}},
		{"range excludes all", entity.FilterCriteria{MinScore: 96, MaxScore: 100, TopN: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterCandidates(candidates, tt.criteria)))
		})
	}
	assert.Equal(t, "a", candidates[0].ID)
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, "Excellent Match", ScoreLabel(90))
	assert.Equal(t, "Good Match", ScoreLabel(85))
	assert.Equal(t, "Fair Match", ScoreLabel(70))
	assert.Equal(t, "Poor Match", ScoreLabel(69))
}

func TestResultsFilteringAndStats(t *testing.T) {
	client := newFakeClient()
	store := screenedStore(t, client)
	svc := NewResultsService(client, store, t.TempDir(), logger.NewNopLogger())

	filtered := svc.SetCriteria(entity.FilterCriteria{MinScore: 70, MaxScore: 100, TopN: 10})
	require.Len(t, filtered, 2)
	assert.Equal(t, 95, filtered[0].MatchScore)
	assert.Equal(t, 80, filtered[1].MatchScore)
	assert.Len(t, store.Snapshot().FilteredCandidates, 2)

	st := svc.Stats()
	assert.Equal(t, Stats{Total: 3, Filtered: 2, AverageScore: 88, TopCandidates: 1}, st)
	assert.Equal(t, []string{"Design", "Engineering"}, svc.Categories())
}

func TestResultsDownloads(t *testing.T) {
	client := newFakeClient()
	client.downloadRes = &api.Download{Filename: "x.zip", ContentType: "application/zip", Data: []byte("PK")}
	store := screenedStore(t, client)
	dir := t.TempDir()
	svc := NewResultsService(client, store, dir, logger.NewNopLogger()).(*resultsService)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }

	svc.SetCriteria(entity.FilterCriteria{MinScore: 99, MaxScore: 100, TopN: 10})
	_, err := svc.DownloadFiltered(context.Background())
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "No candidates to download.", fields["download"])

	svc.SetCriteria(entity.FilterCriteria{MinScore: 70, MaxScore: 100, TopN: 10})
	path, err := svc.DownloadFiltered(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filtered_resumes_2026-03-04.zip"), path)
	assert.Equal(t, []string{"r1", "r3"}, client.lastFilter.FilteredResumeIDs)
	assert.Equal(t, 70, client.lastFilter.Filters.MinScore)

	path, err = svc.DownloadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "all_resumes_2026-03-04.zip"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), data)
}

func TestViewResumeWithoutID(t *testing.T) {
	store := newTestStore(t, newFakeClient())
	svc := NewResultsService(newFakeClient(), store, t.TempDir(), logger.NewNopLogger())

	preview, err := svc.ViewResume(context.Background(), entity.Candidate{Filename: "jane.resume.txt"})
	require.NoError(t, err)
	assert.Equal(t, "jane - Resume", preview.Title)
	assert.Equal(t, "Resume content not available.", preview.Text)
	assert.Equal(t, entity.ModalResume, store.Snapshot().Modal.Kind)
}

func TestConfirmRestart(t *testing.T) {
	client := newFakeClient()
	store := screenedStore(t, client)
	svc := NewResultsService(client, store, t.TempDir(), logger.NewNopLogger())
	svc.SetCriteria(entity.FilterCriteria{Category: "Design", MaxScore: 100, TopN: 5})

	svc.RequestRestart()
	assert.Equal(t, entity.ModalRestart, store.Snapshot().Modal.Kind)

	svc.ConfirmRestart(context.Background())
	snap := store.Snapshot()
	assert.Equal(t, entity.StepJobSetup, snap.Step)
	assert.Empty(t, snap.Candidates)
	assert.Nil(t, snap.Job)
	assert.Equal(t, entity.DefaultFilterCriteria(), svc.Criteria())
}
