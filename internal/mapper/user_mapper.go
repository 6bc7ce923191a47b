package mapper

import (
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToEntity translates the /login and /verify_otp payload into the session user.
func (m *UserMapper) ToEntity(p *dto.UserPayload) *entity.User {
	if p == nil {
		return nil
	}
	name := p.Name
	if name == "" {
		name = entity.DisplayNameFromEmail(p.Email)
	}
	return &entity.User{
		ID:         p.UserID,
		UserID:     p.UserID,
		Email:      p.Email,
		Name:       name,
		Role:       p.Role,
		HRID:       p.HRID,
		Department: p.Department,
		Position:   p.Position,
	}
}

func (m *UserMapper) ToUpdateProfileRequest(u *entity.User) dto.UpdateProfileRequest {
	return dto.UpdateProfileRequest{
		Email:      u.Email,
		Name:       u.Name,
		HRID:       u.HRID,
		Position:   u.Position,
		Department: u.Department,
	}
}
