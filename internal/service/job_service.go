package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"talentify-client/internal/api"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"
)

// JobDraft is the job setup form before submission.
type JobDraft struct {
	Title           string   `form:"title" validate:"required"`
	Description     string   `form:"description" validate:"required"`
	Skills          []string `form:"skills" validate:"min=1"`
	ExperienceLevel string   `form:"experience"`
	Department      string   `form:"department"`
	Location        string   `form:"location"`
	JobType         string   `form:"jobType"`
}

type IJobSetupService interface {
	Draft() JobDraft
	SetField(name, value string) error
	AddSkill(skill string) bool
	RemoveSkill(skill string)
	ApplyTemplate(title string) error
	Submit(ctx context.Context) error
	Reset()
}

type jobSetupService struct {
	mu    sync.Mutex
	draft JobDraft
	// departmentSet is true once the department was edited on the form.
	departmentSet bool

	api       api.IClient
	store     *session.Store
	validator *validation.Validator
	jobMapper *mapper.JobMapper
	log       logger.ILogger
}

func NewJobSetupService(client api.IClient, store *session.Store, v *validation.Validator, log logger.ILogger) IJobSetupService {
	s := &jobSetupService{
		api:       client,
		store:     store,
		validator: v,
		jobMapper: mapper.NewJobMapper(),
		log:       log,
	}
	s.Reset()
	return s
}

func (s *jobSetupService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = JobDraft{
		ExperienceLevel: entity.ExperienceAny,
		JobType:         entity.JobTypeFullTime,
	}
	s.departmentSet = false
}

// Draft returns a copy of the form. Until the department is edited it follows
// the signed-in user's profile.
func (s *jobSetupService) Draft() JobDraft {
	department := ""
	if u := s.store.Snapshot().User; u != nil {
		department = u.Department
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Skills = append([]string(nil), s.draft.Skills...)
	if !s.departmentSet {
		d.Department = department
	}
	return d
}

func (s *jobSetupService) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "title":
		s.draft.Title = value
	case "description":
		s.draft.Description = value
	case "department":
		s.draft.Department = value
		s.departmentSet = true
	case "location":
		s.draft.Location = value
	case "experience":
		if !slices.Contains(entity.ExperienceLevels, value) {
			return validation.FieldErrors{"experience": "Please select a valid experience level"}
		}
		s.draft.ExperienceLevel = value
	case "jobType":
		if !slices.Contains(entity.JobTypes, value) {
			return validation.FieldErrors{"jobType": "Please select a valid job type"}
		}
		s.draft.JobType = value
	default:
		return fmt.Errorf("unknown job field %q", name)
	}
	return nil
}

// AddSkill appends a trimmed skill unless it is empty or already present.
func (s *jobSetupService) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	s.mu.Lock()
	defer s.mu.Unlock()
	if skill == "" || slices.Contains(s.draft.Skills, skill) {
		return false
	}
	s.draft.Skills = append(s.draft.Skills, skill)
	return true
}

func (s *jobSetupService) RemoveSkill(skill string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Skills = slices.DeleteFunc(s.draft.Skills, func(v string) bool { return v == skill })
}

// ApplyTemplate replaces title, experience, description and skills in one step.
func (s *jobSetupService) ApplyTemplate(title string) error {
	for _, t := range entity.JobTemplates {
		if strings.EqualFold(t.Title, title) {
			s.mu.Lock()
			s.draft.Title = t.Title
			s.draft.ExperienceLevel = t.ExperienceLevel
			s.draft.Description = t.Description
			s.draft.Skills = append([]string(nil), t.Skills...)
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown job template %q", title)
}

// Submit creates the job, stores it in the session and advances to file upload.
func (s *jobSetupService) Submit(ctx context.Context) error {
	draft := s.Draft()
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := s.validator.Struct(draft); err != nil {
		return err
	}

	user := s.store.Snapshot().User
	if user == nil || user.ID == "" {
		return validation.FieldErrors{"title": "User session expired. Please login again."}
	}

	job := &entity.JobRequirement{
		Title:           draft.Title,
		Description:     draft.Description,
		Skills:          draft.Skills,
		ExperienceLevel: draft.ExperienceLevel,
		Department:      draft.Department,
		Location:        draft.Location,
		JobType:         draft.JobType,
	}

	done := loading(s.store, "Creating job requirements...")
	res, err := s.api.CreateJob(ctx, ptr(s.jobMapper.ToCreateRequest(user.ID, job)))
	done()
	if err != nil {
		return err
	}

	job.ID = res.JobID
	job.JobID = res.JobID
	s.store.SetJobRequirement(ctx, job)
	s.log.Info("JobSetupService", "Job requirement created", map[string]interface{}{"job_id": res.JobID})
	return s.store.SetStep(entity.StepFileUpload)
}
