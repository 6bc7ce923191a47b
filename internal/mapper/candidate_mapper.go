package mapper

import (
	"math"
	"sort"

	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
)

const experienceNotSpecified = "Not Specified"

type CandidateMapper struct{}

func NewCandidateMapper() *CandidateMapper {
	return &CandidateMapper{}
}

func (m *CandidateMapper) ToEntity(r dto.ScreenResult) entity.Candidate {
	experience := r.ExperienceLevel
	if experience == "" {
		experience = experienceNotSpecified
	}
	skills := r.MatchedSkills
	if skills == nil {
		skills = []string{}
	}
	return entity.Candidate{
		ID:              r.ResumeID,
		ResumeID:        r.ResumeID,
		Filename:        r.Filename,
		Filepath:        r.Filepath,
		MatchScore:      clampScore(r.MatchScore),
		MatchedSkills:   skills,
		Category:        r.CategorizedField,
		ExperienceLevel: experience,
		RawText:         r.RawText,
	}
}

// ToRankedEntities translates a screening response and orders it by match score,
// highest first. Equal scores keep the backend order.
func (m *CandidateMapper) ToRankedEntities(results []dto.ScreenResult) []entity.Candidate {
	candidates := make([]entity.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, m.ToEntity(r))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	return candidates
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
