package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"talentify-client/internal/entity"
)

const (
	ReasonTooMany     = "maximum 1000 files allowed"
	ReasonUnsupported = "unsupported format"
	ReasonTooLarge    = "too large - max 10MB"
	ReasonUnreadable  = "cannot be read"
)

var AllowedExtensions = []string{".pdf", ".doc", ".docx"}

type FileLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

func DefaultFileLimits() FileLimits {
	return FileLimits{MaxFiles: 1000, MaxFileSize: 10 * 1024 * 1024}
}

type Rejection struct {
	Name   string
	Reason string
}

// RejectionError aggregates every rejected file of one selection.
type RejectionError struct {
	Rejections []Rejection
}

func (e *RejectionError) Error() string {
	lines := make([]string, 0, len(e.Rejections))
	for _, r := range e.Rejections {
		lines = append(lines, fmt.Sprintf("- %s (%s)", r.Name, r.Reason))
	}
	return "Some files were not added:\n" + strings.Join(lines, "\n")
}

func AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// GateFiles splits a selection into accepted files and rejections. existing is
// the number of files already queued; it counts towards the cap.
func GateFiles(limits FileLimits, existing int, files []entity.UploadedFile) ([]entity.UploadedFile, []Rejection) {
	accepted := make([]entity.UploadedFile, 0, len(files))
	var rejected []Rejection
	for _, f := range files {
		switch {
		case existing+len(accepted) >= limits.MaxFiles:
			rejected = append(rejected, Rejection{Name: f.Name, Reason: tooManyReason(limits.MaxFiles)})
		case !AllowedExtension(f.Name):
			rejected = append(rejected, Rejection{Name: f.Name, Reason: ReasonUnsupported})
		case f.Size > limits.MaxFileSize:
			rejected = append(rejected, Rejection{Name: f.Name, Reason: tooLargeReason(limits.MaxFileSize)})
		default:
			accepted = append(accepted, f)
		}
	}
	return accepted, rejected
}

func tooManyReason(max int) string {
	if max == 1000 {
		return ReasonTooMany
	}
	return fmt.Sprintf("maximum %d files allowed", max)
}

func tooLargeReason(max int64) string {
	if max == 10*1024*1024 {
		return ReasonTooLarge
	}
	return fmt.Sprintf("too large - max %dMB", max/(1024*1024))
}
