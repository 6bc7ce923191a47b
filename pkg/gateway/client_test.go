package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        ContentKind
	}{
		{"application/json", KindJSON},
		{"application/json; charset=utf-8", KindJSON},
		{"application/pdf", KindBinary},
		{"application/zip", KindBinary},
		{"application/octet-stream", KindBinary},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindBinary},
		{"text/html; charset=utf-8", KindText},
		{"", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestCallAttachesTokenAndDecodesJSON(t *testing.T) {
	var gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"j1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second, WithTokenSource(func(context.Context) string { return "tok" }))
	res, err := c.Call(context.Background(), "/job_requirements", Options{Method: http.MethodPost, Body: map[string]string{"job_title": "Go"}})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"job_title":"Go"}`, gotBody)

	out, err := Decode[struct {
		JobID string `json:"job_id"`
	}](res)
	require.NoError(t, err)
	assert.Equal(t, "j1", out.JobID)
}

func TestCallWithoutTokenSendsNoAuthorization(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithTokenSource(func(context.Context) string { return "" }))
	res, err := c.Call(context.Background(), "/ping", Options{})
	require.NoError(t, err)
	assert.False(t, hadAuth)
	assert.Equal(t, KindText, res.Kind)
	assert.Equal(t, "ok", res.Text)
}

func TestCallBinaryWithFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename=all_resumes_j1.zip`)
		_, _ = w.Write([]byte("PK\x03\x04"))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Call(context.Background(), "/download_all_resumes/j1", Options{})
	require.NoError(t, err)
	assert.Equal(t, KindBinary, res.Kind)
	assert.Equal(t, "all_resumes_j1.zip", res.Filename)
	assert.Equal(t, []byte("PK\x03\x04"), res.Binary)
}

func TestCallErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        string
	}{
		{"json message", "application/json", `{"message":"Invalid OTP"}`, 401, "Invalid OTP"},
		{"json without message", "application/json", `{"error":"x"}`, 500, "HTTP error! status: 500"},
		{"plain text", "text/html", "<h1>oops</h1>", 502, "HTTP error! status: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Call(context.Background(), "/x", Options{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Error())
		})
	}
}

func TestCallNetworkFailureIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Call(context.Background(), "/x", Options{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "Network request failed", MessageOf(err, "fallback"))
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := Decode[map[string]any](&Result{Kind: KindBinary})
	assert.Error(t, err)
}
