package service

import (
	"context"
	"os"
	"path/filepath"

	"talentify-client/internal/api"
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"

	"github.com/google/uuid"
)

type IUploadService interface {
	Select(files []entity.UploadedFile) error
	AddPaths(paths ...string) error
	Remove(index int) error
	Process(ctx context.Context) error
}

type uploadService struct {
	api             api.IClient
	store           *session.Store
	limits          validation.FileLimits
	candidateMapper *mapper.CandidateMapper
	log             logger.ILogger
}

func NewUploadService(client api.IClient, store *session.Store, limits validation.FileLimits, log logger.ILogger) IUploadService {
	return &uploadService{
		api:             client,
		store:           store,
		limits:          limits,
		candidateMapper: mapper.NewCandidateMapper(),
		log:             log,
	}
}

// Select queues every acceptable file and reports the rest in one *validation.RejectionError.
func (s *uploadService) Select(files []entity.UploadedFile) error {
	existing := len(s.store.Snapshot().UploadedFiles)
	accepted, rejected := validation.GateFiles(s.limits, existing, files)
	if len(accepted) > 0 {
		s.store.AddUploadedFiles(accepted...)
	}
	if len(rejected) > 0 {
		return &validation.RejectionError{Rejections: rejected}
	}
	return nil
}

// AddPaths turns local paths into file handles and selects them. Paths that
// cannot be read are rejected alongside the gating failures.
func (s *uploadService) AddPaths(paths ...string) error {
	files, unreadable := FilesFromPaths(paths)
	err := s.Select(files)
	if len(unreadable) == 0 {
		return err
	}
	all := unreadable
	if rej, ok := err.(*validation.RejectionError); ok {
		all = append(all, rej.Rejections...)
	}
	return &validation.RejectionError{Rejections: all}
}

func FilesFromPaths(paths []string) ([]entity.UploadedFile, []validation.Rejection) {
	files := make([]entity.UploadedFile, 0, len(paths))
	var rejected []validation.Rejection
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			rejected = append(rejected, validation.Rejection{Name: filepath.Base(p), Reason: validation.ReasonUnreadable})
			continue
		}
		files = append(files, entity.UploadedFile{
			ID:   uuid.NewString(),
			Name: info.Name(),
			Size: info.Size(),
			Path: p,
		})
	}
	return files, rejected
}

func (s *uploadService) Remove(index int) error {
	return s.store.RemoveUploadedFile(index)
}

// Process uploads the queued files, screens them against the current job and
// moves to the results step. Any failure leaves the step unchanged.
func (s *uploadService) Process(ctx context.Context) error {
	snap := s.store.Snapshot()
	if len(snap.UploadedFiles) == 0 {
		return validation.FieldErrors{"files": "Please upload at least one resume."}
	}
	if snap.CurrentJobID == "" {
		return validation.FieldErrors{"files": "Job requirements not found. Please go back and set up the job first."}
	}
	userID := ""
	if snap.User != nil {
		userID = snap.User.ID
	}

	defer s.store.SetLoading(false, "")

	s.store.SetLoading(true, "Uploading resumes...")
	uploaded, err := s.api.UploadResumes(ctx, userID, snap.UploadedFiles)
	if err != nil {
		return err
	}
	if len(uploaded.ResumeIDs) == 0 {
		return validation.FieldErrors{"files": "No resumes were uploaded. Please try again."}
	}
	if len(uploaded.Errors) > 0 {
		s.log.Warn("UploadService", "Some resumes failed to upload", map[string]interface{}{"errors": uploaded.Errors})
	}
	s.store.SetUploadedResumeIDs(uploaded.ResumeIDs)

	s.store.SetLoading(true, "Processing and screening resumes...")
	screened, err := s.api.ScreenResumes(ctx, &dto.ScreenResumesRequest{JobID: snap.CurrentJobID, ResumeIDs: uploaded.ResumeIDs})
	if err != nil {
		return err
	}

	candidates := s.candidateMapper.ToRankedEntities(screened.Results)
	s.store.SetCandidates(ctx, candidates)
	s.store.ClearUploadedFiles()
	s.log.Info("UploadService", "Resumes screened", map[string]interface{}{"job_id": snap.CurrentJobID, "count": len(candidates)})
	return s.store.SetStep(entity.StepCandidateResults)
}
