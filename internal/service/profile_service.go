package service

import (
	"context"
	"strings"

	"talentify-client/internal/api"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"
)

type ProfileForm struct {
	FullName   string `form:"fullName" validate:"required"`
	Department string `form:"department" validate:"required,department"`
	Position   string `form:"position" validate:"required"`
	HRID       string `form:"hrId" validate:"required"`
}

type IProfileService interface {
	Complete(ctx context.Context, form ProfileForm) error
}

type profileService struct {
	api        api.IClient
	store      *session.Store
	validator  *validation.Validator
	userMapper *mapper.UserMapper
	log        logger.ILogger
}

func NewProfileService(client api.IClient, store *session.Store, v *validation.Validator, log logger.ILogger) IProfileService {
	return &profileService{
		api:        client,
		store:      store,
		validator:  v,
		userMapper: mapper.NewUserMapper(),
		log:        log,
	}
}

// Complete submits the HR profile, saves the returned identity and grants
// dashboard access. An already authenticated user stays on the current page.
func (s *profileService) Complete(ctx context.Context, form ProfileForm) error {
	snap := s.store.Snapshot()
	if snap.User == nil || snap.User.Email == "" {
		return validation.FieldErrors{"fullName": "User session expired. Please login again."}
	}

	form.FullName = strings.TrimSpace(form.FullName)
	form.Position = strings.TrimSpace(form.Position)
	form.HRID = strings.TrimSpace(form.HRID)
	if err := s.validator.Struct(form); err != nil {
		return err
	}

	user := *snap.User
	user.Name = form.FullName
	user.Department = form.Department
	user.Position = form.Position
	user.HRID = form.HRID

	done := loading(s.store, "Saving your profile...")
	res, err := s.api.UpdateProfile(ctx, ptr(s.userMapper.ToUpdateProfileRequest(&user)))
	done()
	if err != nil {
		return err
	}

	user.Role = entity.RoleHR
	if res.Role != "" {
		user.Role = res.Role
	}
	if res.UserID != "" && user.ID == "" {
		user.ID = res.UserID
		user.UserID = res.UserID
	}
	if err := s.store.SaveSession(ctx, &user, res.Token); err != nil {
		return err
	}

	s.log.Info("ProfileService", "Profile completed", map[string]interface{}{"user_id": user.ID})

	page := entity.PageDashboard
	if snap.Authenticated {
		page = snap.Page
	}
	return s.store.Authenticate(page)
}

func ptr[T any](v T) *T {
	return &v
}
