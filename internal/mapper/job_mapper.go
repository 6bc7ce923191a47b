package mapper

import (
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
)

type JobMapper struct{}

func NewJobMapper() *JobMapper {
	return &JobMapper{}
}

func (m *JobMapper) ToCreateRequest(userID string, job *entity.JobRequirement) dto.CreateJobRequest {
	return dto.CreateJobRequest{
		UserID:             userID,
		JobTitle:           job.Title,
		JobDescription:     job.Description,
		Department:         job.Department,
		Skills:             append([]string(nil), job.Skills...),
		ExperienceRequired: job.ExperienceLevel,
		Location:           job.Location,
		JobType:            job.JobType,
	}
}

func (m *JobMapper) ToFilters(c entity.FilterCriteria) *dto.ResultFilters {
	return &dto.ResultFilters{
		Category: c.Category,
		MinScore: c.MinScore,
		MaxScore: c.MaxScore,
		ShowTop:  c.TopN,
	}
}
