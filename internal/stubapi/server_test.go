package stubapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"talentify-client/internal/dto"
	"talentify-client/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{JWTSecret: "test-secret", UploadDir: t.TempDir()}, logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// registerVerified signs a user up and confirms the signup OTP.
func registerVerified(t *testing.T, s *Server, email string) dto.UserPayload {
	t.Helper()
	status := doJSON(t, s, http.MethodPost, "/api/signup", dto.SignUpRequest{Email: email, Password: "Str0ng!pass"}, nil)
	require.Equal(t, http.StatusCreated, status)

	otp, ok := s.PendingOTP(email, "signup")
	require.True(t, ok)

	var user dto.UserPayload
	status = doJSON(t, s, http.MethodPost, "/api/verify_otp", dto.VerifyOTPRequest{Email: email, OTP: otp, Action: "signup"}, &user)
	require.Equal(t, http.StatusOK, status)
	return user
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	user := registerVerified(t, s, "jane.doe@acme.io")

	assert.NotEmpty(t, user.Token)
	assert.False(t, user.RoleSet)
	assert.Equal(t, "jane.doe", user.Name)

	var login dto.UserPayload
	status := doJSON(t, s, http.MethodPost, "/api/login", dto.LoginRequest{Email: "jane.doe@acme.io", Password: "Str0ng!pass"}, &login)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.UserID, login.UserID)

	var profile dto.UserPayload
	status = doJSON(t, s, http.MethodPost, "/api/update_profile", dto.UpdateProfileRequest{
		Email: "jane.doe@acme.io", Name: "Jane", HRID: "HR-1", Position: "Lead", Department: "Engineering",
	}, &profile)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, profile.RoleSet)
	assert.Equal(t, "hr", profile.Role)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, doJSON(t, s, http.MethodPost, "/api/signup", dto.SignUpRequest{Email: "a@b.io", Password: "Str0ng!pass"}, nil))

	tests := []struct {
		name     string
		req      dto.LoginRequest
		expected int
	}{
		{"unverified", dto.LoginRequest{Email: "a@b.io", Password: "Str0ng!pass"}, http.StatusForbidden},
		{"wrong password", dto.LoginRequest{Email: "a@b.io", Password: "nope"}, http.StatusUnauthorized},
		{"unknown user", dto.LoginRequest{Email: "x@b.io", Password: "Str0ng!pass"}, http.StatusUnauthorized},
		{"invalid email", dto.LoginRequest{Email: "not-an-email", Password: "x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg dto.MessageResponse
			assert.Equal(t, tt.expected, doJSON(t, s, http.MethodPost, "/api/login", tt.req, &msg))
			assert.NotEmpty(t, msg.Message)
		})
	}
}

func TestResetPasswordRequiresVerifiedOTP(t *testing.T) {
	s := newTestServer(t)
	registerVerified(t, s, "r@b.io")

	reset := dto.ResetPasswordRequest{Email: "r@b.io", NewPassword: "N3w!password"}
	assert.Equal(t, http.StatusForbidden, doJSON(t, s, http.MethodPost, "/api/reset_password", reset, nil))

	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/forgot_password", dto.ForgotPasswordRequest{Email: "r@b.io"}, nil))
	otp, ok := s.PendingOTP("r@b.io", "reset_password")
	require.True(t, ok)

	var msg dto.MessageResponse
	bad := dto.VerifyOTPRequest{Email: "r@b.io", OTP: "000000", Action: "reset_password"}
	if otp == "000000" {
		bad.OTP = "111111"
	}
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, s, http.MethodPost, "/api/verify_otp", bad, &msg))
	assert.Equal(t, "Invalid OTP", msg.Message)

	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/verify_otp", dto.VerifyOTPRequest{Email: "r@b.io", OTP: otp, Action: "reset_password"}, nil))
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/reset_password", reset, nil))
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/login", dto.LoginRequest{Email: "r@b.io", Password: "N3w!password"}, nil))
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/u1", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func uploadResumes(t *testing.T, s *Server, userID string, files map[string]string) dto.UploadResumesResponse {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("user_id", userID))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload_resumes", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out dto.UploadResumesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return out
}

func TestScreeningPipeline(t *testing.T) {
	s := newTestServer(t)
	user := registerVerified(t, s, "hr@acme.io")

	var job dto.CreateJobResponse
	status := doJSON(t, s, http.MethodPost, "/api/job_requirements", dto.CreateJobRequest{
		UserID: user.UserID, JobTitle: "Backend", JobDescription: "APIs", Skills: []string{"Go", "SQL"},
	}, &job)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, job.JobID)

	uploaded := uploadResumes(t, s, user.UserID, map[string]string{
		"alice.docx": "Senior engineer. Go, SQL, golang services",
		"bob.doc":    "Go developer",
	})
	require.Len(t, uploaded.ResumeIDs, 2)

	var screened dto.ScreenResumesResponse
	status = doJSON(t, s, http.MethodPost, "/api/screen_resumes", dto.ScreenResumesRequest{JobID: job.JobID, ResumeIDs: uploaded.ResumeIDs}, &screened)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, screened.Results, 2)

	scores := map[string]float64{}
	for _, r := range screened.Results {
		scores[r.Filename] = r.MatchScore
	}
	assert.Equal(t, 100.0, scores["alice.docx"])
	assert.Equal(t, 50.0, scores["bob.doc"])

	var content dto.ResumeContentResponse
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/api/resume/"+uploaded.ResumeIDs[0], nil, &content))
	assert.NotEmpty(t, content.Content)

	req := httptest.NewRequest(http.MethodGet, "/api/download_all_resumes/"+job.JobID, nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)

	var notes []dto.NotificationPayload
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/api/notifications/"+user.UserID, nil, &notes))
	require.NotEmpty(t, notes)
	assert.Equal(t, "Screening Completed", notes[0].Title)
}

func TestUploadRejectsUnsupportedFiles(t *testing.T) {
	s := newTestServer(t)
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("text"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload_resumes", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadFilteredEmpty(t *testing.T) {
	s := newTestServer(t)
	var msg dto.MessageResponse
	status := doJSON(t, s, http.MethodPost, "/api/download_all_filtered_resumes", dto.DownloadFilteredRequest{}, &msg)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No filtered resumes to download.", msg.Message)
}

func TestNotificationsMarkRead(t *testing.T) {
	s := newTestServer(t)
	s.db.notify("u1", "one", "first", "info")
	s.db.notify("u1", "two", "second", "info")

	var notes []dto.NotificationPayload
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/api/notifications/u1", nil, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "two", notes[0].Title)

	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/notifications/u1/"+notes[0].ID+"/read", nil, nil))
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/api/notifications/u1", nil, &notes))
	assert.True(t, notes[0].Read)
	assert.False(t, notes[1].Read)

	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodPost, "/api/notifications/u1/read_all", nil, nil))
	require.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/api/notifications/u1", nil, &notes))
	assert.True(t, notes[1].Read)
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		skills   []string
		expected int
	}{
		{"all", "React and Node.js", []string{"react", "node.js"}, 100},
		{"none", "cooking", []string{"Go"}, 0},
		{"third", "python", []string{"Python", "Rust", "Java"}, 33},
		{"no skills", "anything", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := matchScore(tt.text, tt.skills)
			assert.Equal(t, tt.expected, score)
		})
	}
}
