package mapper

import (
	"testing"

	"talentify-client/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestCandidateMapperRanksDescendingAndStable(t *testing.T) {
	m := NewCandidateMapper()
	got := m.ToRankedEntities([]dto.ScreenResult{
		{ResumeID: "a", Filename: "a.pdf", MatchScore: 62},
		{ResumeID: "b", Filename: "b.pdf", MatchScore: 95},
		{ResumeID: "c", Filename: "c.pdf", MatchScore: 80},
		{ResumeID: "d", Filename: "d.pdf", MatchScore: 80},
	})

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids)
}

func TestCandidateMapperTranslatesWireFields(t *testing.T) {
	c := NewCandidateMapper().ToEntity(dto.ScreenResult{
		ResumeID:         "r1",
		Filename:         "jane.pdf",
		Filepath:         "abc_jane.pdf",
		MatchScore:       84.6,
		MatchedSkills:    []string{"Go"},
		CategorizedField: "Engineering",
		RawText:          "text",
	})

	assert.Equal(t, "r1", c.ID)
	assert.Equal(t, "r1", c.ResumeID)
	assert.Equal(t, 85, c.MatchScore)
	assert.Equal(t, "Engineering", c.Category)
	assert.Equal(t, "Not Specified", c.ExperienceLevel)
	assert.Equal(t, []string{"Go"}, c.MatchedSkills)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3))
	assert.Equal(t, 100, clampScore(130))
	assert.Equal(t, 50, clampScore(49.5))
}

func TestUserMapperFallsBackToEmailName(t *testing.T) {
	u := NewUserMapper().ToEntity(&dto.UserPayload{UserID: "u1", Email: "jane@acme.io"})
	assert.Equal(t, "jane", u.Name)
	assert.Equal(t, "u1", u.ID)
	assert.False(t, u.ProfileComplete())
}

func TestNotificationMapperNormalisesType(t *testing.T) {
	n := NewNotificationMapper().ToEntity(dto.NotificationPayload{ID: "n1", Type: "urgent"})
	assert.Equal(t, "info", string(n.Type))
}
