package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"talentify-client/internal/api"
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"

	"github.com/ledongthuc/pdf"
)

type Stats struct {
	Total         int
	Filtered      int
	AverageScore  int
	TopCandidates int
}

type IResultsService interface {
	Criteria() entity.FilterCriteria
	SetCriteria(c entity.FilterCriteria) []entity.Candidate
	SetShowAll(showAll bool) []entity.Candidate
	Apply() []entity.Candidate
	Categories() []string
	Stats() Stats
	ViewResume(ctx context.Context, c entity.Candidate) (*entity.ResumePreview, error)
	DownloadResume(ctx context.Context, c entity.Candidate) (string, error)
	DownloadFiltered(ctx context.Context) (string, error)
	DownloadAll(ctx context.Context) (string, error)
	RequestRestart()
	ConfirmRestart(ctx context.Context)
}

type resultsService struct {
	api         api.IClient
	store       *session.Store
	jobMapper   *mapper.JobMapper
	downloadDir string
	log         logger.ILogger
	now         func() time.Time
}

func NewResultsService(client api.IClient, store *session.Store, downloadDir string, log logger.ILogger) IResultsService {
	return &resultsService{
		api:         client,
		store:       store,
		jobMapper:   mapper.NewJobMapper(),
		downloadDir: downloadDir,
		log:         log,
		now:         time.Now,
	}
}

// FilterCandidates applies category, score range and top-N in that order.
func FilterCandidates(candidates []entity.Candidate, c entity.FilterCriteria) []entity.Candidate {
	return c.Apply(candidates)
}

func ScoreLabel(score int) string {
	switch {
	case score >= 90:
		return "Excellent Match"
	case score >= 80:
		return "Good Match"
	case score >= 70:
		return "Fair Match"
	default:
		return "Poor Match"
	}
}

func (s *resultsService) Criteria() entity.FilterCriteria {
	return s.store.Snapshot().Criteria
}

// SetCriteria replaces the filters but keeps the show-all toggle.
func (s *resultsService) SetCriteria(c entity.FilterCriteria) []entity.Candidate {
	c.ShowAll = s.Criteria().ShowAll
	return s.store.SetFilterCriteria(c)
}

func (s *resultsService) SetShowAll(showAll bool) []entity.Candidate {
	c := s.Criteria()
	c.ShowAll = showAll
	return s.store.SetFilterCriteria(c)
}

// Apply recomputes the filtered subset from the current candidates.
func (s *resultsService) Apply() []entity.Candidate {
	return s.store.SetFilterCriteria(s.Criteria())
}

func (s *resultsService) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range s.store.Snapshot().Candidates {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out
}

func (s *resultsService) Stats() Stats {
	snap := s.store.Snapshot()
	st := Stats{Total: len(snap.Candidates), Filtered: len(snap.FilteredCandidates)}
	total := 0
	for _, c := range snap.FilteredCandidates {
		total += c.MatchScore
		if c.MatchScore >= 85 {
			st.TopCandidates++
		}
	}
	if st.Filtered > 0 {
		st.AverageScore = int(math.Round(float64(total) / float64(st.Filtered)))
	}
	return st
}

// ViewResume builds the preview shown in the resume modal. PDFs also carry
// their bytes and the text extracted from them.
func (s *resultsService) ViewResume(ctx context.Context, c entity.Candidate) (*entity.ResumePreview, error) {
	preview := &entity.ResumePreview{
		ResumeID:    c.ResumeID,
		Filename:    c.Filename,
		Filepath:    c.Filepath,
		Title:       strings.SplitN(c.Filename, ".", 2)[0] + " - Resume",
		ContentType: "text/plain",
	}

	if c.ResumeID == "" {
		preview.Text = c.RawText
		if preview.Text == "" {
			preview.Text = "Resume content not available."
		}
		s.store.ShowModal(entity.ModalResume, preview)
		return preview, nil
	}

	defer loading(s.store, "Loading resume content...")()

	content, err := s.api.ResumeContent(ctx, c.ResumeID)
	if err != nil {
		return nil, err
	}
	preview.Text = content.Content
	if preview.Text == "" {
		preview.Text = "Resume content not available."
	}

	if isPDF(c) {
		file, err := s.api.ResumeFile(ctx, c.ResumeID)
		if err != nil {
			s.log.Warn("ResultsService", "PDF preview unavailable, falling back to text", map[string]interface{}{"resume_id": c.ResumeID, "error": err.Error()})
		} else {
			preview.ContentType = "application/pdf"
			preview.PDF = file.Data
			if text, pages, err := extractPDFText(file.Data); err == nil {
				preview.Pages = pages
				if strings.TrimSpace(text) != "" {
					preview.Text = text
				}
			} else {
				s.log.Warn("ResultsService", "Failed to extract PDF text", map[string]interface{}{"resume_id": c.ResumeID, "error": err.Error()})
			}
		}
	}

	s.store.ShowModal(entity.ModalResume, preview)
	return preview, nil
}

func isPDF(c entity.Candidate) bool {
	name := c.Filepath
	if name == "" {
		name = c.Filename
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func extractPDFText(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	var b strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), pages, nil
}

func (s *resultsService) DownloadResume(ctx context.Context, c entity.Candidate) (string, error) {
	if c.ResumeID == "" || c.Filepath == "" {
		return "", validation.FieldErrors{"download": "Resume download not available for this candidate."}
	}

	defer loading(s.store, "Preparing download...")()
	file, err := s.api.DownloadResume(ctx, &dto.DownloadResumeRequest{ResumeID: c.ResumeID, Filepath: c.Filepath})
	if err != nil {
		return "", err
	}
	return s.save(c.Filename, file.Data)
}

func (s *resultsService) DownloadFiltered(ctx context.Context) (string, error) {
	snap := s.store.Snapshot()
	if len(snap.FilteredCandidates) == 0 {
		return "", validation.FieldErrors{"download": "No candidates to download."}
	}
	if snap.CurrentJobID == "" {
		return "", validation.FieldErrors{"download": "Job ID not found. Cannot download filtered resumes."}
	}
	ids := make([]string, 0, len(snap.FilteredCandidates))
	for _, c := range snap.FilteredCandidates {
		if c.ResumeID != "" {
			ids = append(ids, c.ResumeID)
		}
	}

	defer loading(s.store, "Preparing filtered resumes download...")()
	file, err := s.api.DownloadFiltered(ctx, &dto.DownloadFilteredRequest{
		JobID:             snap.CurrentJobID,
		FilteredResumeIDs: ids,
		Filters:           s.jobMapper.ToFilters(s.Criteria()),
	})
	if err != nil {
		return "", err
	}
	return s.save(fmt.Sprintf("filtered_resumes_%s.zip", s.now().Format("2006-01-02")), file.Data)
}

func (s *resultsService) DownloadAll(ctx context.Context) (string, error) {
	jobID := s.store.Snapshot().CurrentJobID
	if jobID == "" {
		return "", validation.FieldErrors{"download": "Job ID not found. Cannot download all resumes."}
	}

	defer loading(s.store, "Preparing all resumes download...")()
	file, err := s.api.DownloadAll(ctx, jobID)
	if err != nil {
		return "", err
	}
	return s.save(fmt.Sprintf("all_resumes_%s.zip", s.now().Format("2006-01-02")), file.Data)
}

func (s *resultsService) save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	path := filepath.Join(s.downloadDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	s.log.Info("ResultsService", "Download saved", map[string]interface{}{"path": path, "bytes": len(data)})
	return path, nil
}

func (s *resultsService) RequestRestart() {
	s.store.ShowModal(entity.ModalRestart, nil)
}

// ConfirmRestart clears the screening; the store resets the filters to their defaults.
func (s *resultsService) ConfirmRestart(ctx context.Context) {
	s.store.RestartScreening(ctx)
}
