package service

import (
	"context"

	"talentify-client/internal/entity"
	"talentify-client/internal/session"
)

// AccountService covers the account settings page and the logout confirmation.
type AccountService struct {
	store *session.Store
}

func NewAccountService(store *session.Store) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) User() *entity.User {
	return s.store.Snapshot().User
}

func (s *AccountService) RequestLogout() {
	s.store.ShowModal(entity.ModalLogout, nil)
}

func (s *AccountService) CancelModal() {
	s.store.CloseModal()
}

// ConfirmLogout ends the session on the server and locally.
func (s *AccountService) ConfirmLogout(ctx context.Context) {
	s.store.CloseModal()
	s.store.Logout(ctx)
}

func (s *AccountService) ToggleTheme(ctx context.Context) entity.Theme {
	return s.store.ToggleTheme(ctx)
}
