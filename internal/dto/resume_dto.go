package dto

type UploadResumesResponse struct {
	Message   string   `json:"message"`
	ResumeIDs []string `json:"resume_ids"`
	Errors    []string `json:"errors,omitempty"`
}

type ScreenResumesRequest struct {
	JobID     string   `json:"job_id" validate:"required"`
	ResumeIDs []string `json:"resume_ids" validate:"required,min=1"`
}

type ScreenResult struct {
	ResumeID         string   `json:"resume_id"`
	Filename         string   `json:"filename"`
	Filepath         string   `json:"filepath"`
	MatchScore       float64  `json:"match_score"`
	MatchedSkills    []string `json:"matched_skills"`
	CategorizedField string   `json:"categorized_field"`
	ExperienceLevel  string   `json:"experience_level"`
	RawText          string   `json:"raw_text"`
}

type ScreenResumesResponse struct {
	Message string         `json:"message,omitempty"`
	Results []ScreenResult `json:"results"`
}

type ResumeContentResponse struct {
	Content string `json:"content"`
}

type DownloadResumeRequest struct {
	ResumeID string `json:"resumeId"`
	Filepath string `json:"filepath" validate:"required"`
}

type ResultFilters struct {
	Category string `json:"category"`
	MinScore int    `json:"minScore"`
	MaxScore int    `json:"maxScore"`
	ShowTop  int    `json:"showTop"`
}

type DownloadFilteredRequest struct {
	JobID             string         `json:"job_id"`
	FilteredResumeIDs []string       `json:"filtered_resume_ids"`
	Filters           *ResultFilters `json:"filters,omitempty"`
}
