package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/pkg/gateway"
)

// Download is a binary file returned by one of the download endpoints.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

type IClient interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserPayload, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.UserPayload, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserPayload, error)

	CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*dto.CreateJobResponse, error)
	UploadResumes(ctx context.Context, userID string, files []entity.UploadedFile) (*dto.UploadResumesResponse, error)
	ScreenResumes(ctx context.Context, req *dto.ScreenResumesRequest) (*dto.ScreenResumesResponse, error)
	ResumeContent(ctx context.Context, resumeID string) (*dto.ResumeContentResponse, error)
	ResumeFile(ctx context.Context, resumeID string) (*Download, error)
	DownloadResume(ctx context.Context, req *dto.DownloadResumeRequest) (*Download, error)
	DownloadFiltered(ctx context.Context, req *dto.DownloadFilteredRequest) (*Download, error)
	DownloadAll(ctx context.Context, jobID string) (*Download, error)

	ListNotifications(ctx context.Context, userID string) ([]dto.NotificationPayload, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	ClearSessionData(ctx context.Context) error
}

type client struct {
	gw *gateway.Client
}

func NewClient(gw *gateway.Client) IClient {
	return &client{gw: gw}
}

func post(body any) gateway.Options {
	return gateway.Options{Method: http.MethodPost, Body: body}
}

func callJSON[T any](ctx context.Context, gw *gateway.Client, endpoint string, opts gateway.Options) (*T, error) {
	res, err := gw.Call(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return gateway.Decode[T](res)
}

func callBinary(ctx context.Context, gw *gateway.Client, endpoint string, opts gateway.Options) (*Download, error) {
	res, err := gw.Call(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	if res.Kind != gateway.KindBinary {
		return nil, &gateway.APIError{Status: res.StatusCode, Message: "Unexpected response"}
	}
	return &Download{Filename: res.Filename, ContentType: res.ContentType, Data: res.Binary}, nil
}

func (c *client) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.SignUpResponse, error) {
	return callJSON[dto.SignUpResponse](ctx, c.gw, "/signup", post(req))
}

func (c *client) Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserPayload, error) {
	return callJSON[dto.UserPayload](ctx, c.gw, "/login", post(req))
}

func (c *client) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.UserPayload, error) {
	return callJSON[dto.UserPayload](ctx, c.gw, "/verify_otp", post(req))
}

func (c *client) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	return callJSON[dto.MessageResponse](ctx, c.gw, "/forgot_password", post(req))
}

func (c *client) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	return callJSON[dto.MessageResponse](ctx, c.gw, "/reset_password", post(req))
}

func (c *client) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserPayload, error) {
	return callJSON[dto.UserPayload](ctx, c.gw, "/update_profile", post(req))
}

func (c *client) CreateJob(ctx context.Context, req *dto.CreateJobRequest) (*dto.CreateJobResponse, error) {
	return callJSON[dto.CreateJobResponse](ctx, c.gw, "/job_requirements", post(req))
}

// UploadResumes sends every file under the multipart field "files" together with user_id.
func (c *client) UploadResumes(ctx context.Context, userID string, files []entity.UploadedFile) (*dto.UploadResumesResponse, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		if err := copyFilePart(w, f); err != nil {
			return nil, &gateway.APIError{Message: fmt.Sprintf("Failed to read %s", f.Name), Err: err}
		}
	}
	if userID != "" {
		if err := w.WriteField("user_id", userID); err != nil {
			return nil, fmt.Errorf("write user_id field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return callJSON[dto.UploadResumesResponse](ctx, c.gw, "/upload_resumes", gateway.Options{
		Method:      http.MethodPost,
		RawBody:     body,
		ContentType: w.FormDataContentType(),
	})
}

func copyFilePart(w *multipart.Writer, f entity.UploadedFile) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	part, err := w.CreateFormFile("files", f.Name)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}

func (c *client) ScreenResumes(ctx context.Context, req *dto.ScreenResumesRequest) (*dto.ScreenResumesResponse, error) {
	return callJSON[dto.ScreenResumesResponse](ctx, c.gw, "/screen_resumes", post(req))
}

func (c *client) ResumeContent(ctx context.Context, resumeID string) (*dto.ResumeContentResponse, error) {
	return callJSON[dto.ResumeContentResponse](ctx, c.gw, "/resume/"+url.PathEscape(resumeID), gateway.Options{})
}

func (c *client) ResumeFile(ctx context.Context, resumeID string) (*Download, error) {
	return callBinary(ctx, c.gw, "/resume_file/"+url.PathEscape(resumeID), gateway.Options{})
}

func (c *client) DownloadResume(ctx context.Context, req *dto.DownloadResumeRequest) (*Download, error) {
	return callBinary(ctx, c.gw, "/download_resume", post(req))
}

func (c *client) DownloadFiltered(ctx context.Context, req *dto.DownloadFilteredRequest) (*Download, error) {
	return callBinary(ctx, c.gw, "/download_all_filtered_resumes", post(req))
}

func (c *client) DownloadAll(ctx context.Context, jobID string) (*Download, error) {
	return callBinary(ctx, c.gw, "/download_all_resumes/"+url.PathEscape(jobID), gateway.Options{})
}

func (c *client) ListNotifications(ctx context.Context, userID string) ([]dto.NotificationPayload, error) {
	out, err := callJSON[[]dto.NotificationPayload](ctx, c.gw, "/notifications/"+url.PathEscape(userID), gateway.Options{})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *client) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	endpoint := fmt.Sprintf("/notifications/%s/%s/read", url.PathEscape(userID), url.PathEscape(notificationID))
	_, err := c.gw.Call(ctx, endpoint, gateway.Options{Method: http.MethodPost})
	return err
}

func (c *client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := c.gw.Call(ctx, "/notifications/"+url.PathEscape(userID)+"/read_all", gateway.Options{Method: http.MethodPost})
	return err
}

func (c *client) ClearSessionData(ctx context.Context) error {
	_, err := c.gw.Call(ctx, "/clear_session_data", gateway.Options{Method: http.MethodPost})
	return err
}
