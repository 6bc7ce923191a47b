package dto

type CreateJobRequest struct {
	UserID             string   `json:"user_id,omitempty"`
	JobTitle           string   `json:"job_title" validate:"required"`
	JobDescription     string   `json:"job_description" validate:"required"`
	Department         string   `json:"department"`
	Skills             []string `json:"skills" validate:"required,min=1"`
	ExperienceRequired string   `json:"experience_required"`
	Location           string   `json:"location,omitempty"`
	JobType            string   `json:"job_type,omitempty"`
}

type CreateJobResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}
