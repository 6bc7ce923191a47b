package stubapi

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type resumeHandler struct {
	s *Server
}

func newResumeHandler(s *Server) *resumeHandler {
	return &resumeHandler{s: s}
}

func (h *resumeHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/upload_resumes", h.Upload)
	r.Post("/screen_resumes", h.Screen)
	r.Get("/resume/:id", h.Content)
	r.Get("/resume_file/:id", h.File)
	r.Post("/download_resume", h.Download)
	r.Post("/download_all_filtered_resumes", h.DownloadFiltered)
	r.Get("/download_all_resumes/:jobId", h.DownloadAll)
}

func (h *resumeHandler) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return fail(ctx, fiber.StatusBadRequest, "No file part")
	}
	userID := ""
	if v := form.Value["user_id"]; len(v) > 0 {
		userID = v[0]
	}

	var ids, errs []string
	for _, fh := range form.File["files"] {
		if !validation.AllowedExtension(fh.Filename) {
			errs = append(errs, fmt.Sprintf("%s: unsupported format", fh.Filename))
			continue
		}
		f, err := fh.Open()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}

		id := uuid.NewString()
		path := filepath.Join(h.s.cfg.UploadDir, id+"_"+filepath.Base(fh.Filename))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		text := extractText(fh.Filename, data)
		h.s.db.saveResume(resumeRecord{
			ID:       id,
			UserID:   userID,
			Filename: fh.Filename,
			Filepath: path,
			RawText:  text,
			Category: categorize(text),
		})
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return fail(ctx, fiber.StatusBadRequest, "No valid resumes uploaded. "+strings.Join(errs, "; "))
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.UploadResumesResponse{
		Message:   "Resumes uploaded successfully",
		ResumeIDs: ids,
		Errors:    errs,
	})
}

func (h *resumeHandler) Screen(ctx *fiber.Ctx) error {
	var req dto.ScreenResumesRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}
	job, ok := h.s.db.job(req.JobID)
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "Job requirements not found.")
	}

	results := make([]dto.ScreenResult, 0, len(req.ResumeIDs))
	var screened []string
	for _, id := range req.ResumeIDs {
		r, ok := h.s.db.resume(id)
		if !ok {
			continue
		}
		score, matched := matchScore(r.RawText, job.Skills)
		experience := job.Experience
		if experience == "" {
			experience = entity.ExperienceAny
		}
		results = append(results, dto.ScreenResult{
			ResumeID:         r.ID,
			Filename:         r.Filename,
			Filepath:         r.Filepath,
			MatchScore:       float64(score),
			MatchedSkills:    matched,
			CategorizedField: r.Category,
			ExperienceLevel:  experience,
			RawText:          r.RawText,
		})
		screened = append(screened, r.ID)
	}
	h.s.db.attachResumes(job.ID, screened)
	h.s.db.notify(job.UserID, "Screening Completed", fmt.Sprintf("Screened %d resumes for your job.", len(results)), string(entity.NotificationSuccess))

	return ctx.JSON(dto.ScreenResumesResponse{Message: "Screening complete", Results: results})
}

func (h *resumeHandler) Content(ctx *fiber.Ctx) error {
	r, ok := h.s.db.resume(ctx.Params("id"))
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "Resume not found")
	}
	return ctx.JSON(dto.ResumeContentResponse{Content: r.RawText})
}

func (h *resumeHandler) File(ctx *fiber.Ctx) error {
	r, ok := h.s.db.resume(ctx.Params("id"))
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "Resume not found")
	}
	return sendResume(ctx, r, false)
}

func (h *resumeHandler) Download(ctx *fiber.Ctx) error {
	var req dto.DownloadResumeRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}
	r, ok := h.s.db.resume(req.ResumeID)
	if !ok || r.Filepath != req.Filepath {
		r, ok = h.s.db.resumeByPath(req.Filepath)
	}
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "File not found on server or invalid path")
	}
	return sendResume(ctx, r, true)
}

func (h *resumeHandler) DownloadFiltered(ctx *fiber.Ctx) error {
	var req dto.DownloadFilteredRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}
	if len(req.FilteredResumeIDs) == 0 {
		return fail(ctx, fiber.StatusNotFound, "No filtered resumes to download.")
	}
	return h.sendArchive(ctx, req.FilteredResumeIDs, "filtered_resumes.zip")
}

func (h *resumeHandler) DownloadAll(ctx *fiber.Ctx) error {
	job, ok := h.s.db.job(ctx.Params("jobId"))
	if !ok || len(job.ResumeIDs) == 0 {
		return fail(ctx, fiber.StatusNotFound, "No resumes found for this job ID.")
	}
	return h.sendArchive(ctx, job.ResumeIDs, "all_resumes_"+job.ID+".zip")
}

func (h *resumeHandler) sendArchive(ctx *fiber.Ctx, ids []string, name string) error {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, id := range ids {
		r, ok := h.s.db.resume(id)
		if !ok {
			continue
		}
		data, err := os.ReadFile(r.Filepath)
		if err != nil {
			h.s.log.Warn("StubAPI", "Skipping unreadable resume", map[string]interface{}{"resume_id": id, "error": err.Error()})
			continue
		}
		w, err := zw.Create(r.ID + "_" + r.Filename)
		if err != nil {
			return fail(ctx, fiber.StatusInternalServerError, "Error downloading resumes")
		}
		if _, err := w.Write(data); err != nil {
			return fail(ctx, fiber.StatusInternalServerError, "Error downloading resumes")
		}
	}
	if err := zw.Close(); err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Error downloading resumes")
	}

	ctx.Set(fiber.HeaderContentType, "application/zip")
	ctx.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	return ctx.Send(buf.Bytes())
}

func sendResume(ctx *fiber.Ctx, r resumeRecord, attachment bool) error {
	data, err := os.ReadFile(r.Filepath)
	if err != nil {
		return fail(ctx, fiber.StatusNotFound, "File not found on server or invalid path")
	}
	ctx.Set(fiber.HeaderContentType, contentTypeFor(r.Filename))
	if attachment {
		ctx.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": r.Filename}))
	}
	return ctx.Send(data)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
