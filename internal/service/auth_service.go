package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"talentify-client/internal/api"
	"talentify-client/internal/dto"
	"talentify-client/internal/entity"
	"talentify-client/internal/mapper"
	"talentify-client/internal/pkg/logger"
	"talentify-client/internal/session"
	"talentify-client/internal/validation"
	"talentify-client/pkg/gateway"
)

type Stage string

const (
	StageCredentials       Stage = "credentials-entry"
	StageOTPSent           Stage = "otp-sent"
	StagePasswordEntry     Stage = "password-entry"
	StageProfileIncomplete Stage = "profile-incomplete"
	StageDone              Stage = "done"
)

var ErrWrongStage = errors.New("action not available at this stage")

type SignUpForm struct {
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone"`
	Password        string `form:"password" validate:"required,password"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignInForm deliberately skips the password policy; older accounts may predate it.
type SignInForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type ForgotPasswordForm struct {
	Email string `form:"forgotEmail" validate:"required,email"`
}

type ResetPasswordForm struct {
	NewPassword        string `form:"newPassword" validate:"required,password"`
	ConfirmNewPassword string `form:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type PendingUser struct {
	Email  string
	UserID string
}

// AuthState is a copy of the transient auth flow state.
type AuthState struct {
	Stage      Stage
	Action     entity.OTPAction
	Pending    *PendingUser
	ResetEmail string
	OTP        string
	Errors     validation.FieldErrors
}

type IAuthFlow interface {
	State() AuthState
	SignUp(ctx context.Context, form SignUpForm) error
	SignIn(ctx context.Context, form SignInForm) error
	ForgotPassword(ctx context.Context, form ForgotPasswordForm) error
	VerifyOTP(ctx context.Context, code string) error
	ResetPassword(ctx context.Context, form ResetPasswordForm) error
	Resend(ctx context.Context) error
	Back(ctx context.Context) error
	CompleteProfile(ctx context.Context, form ProfileForm) error
}

type authFlow struct {
	mu sync.Mutex

	api        api.IClient
	store      *session.Store
	profile    IProfileService
	validator  *validation.Validator
	userMapper *mapper.UserMapper
	log        logger.ILogger

	stage      Stage
	action     entity.OTPAction
	pending    *PendingUser
	signUp     *SignUpForm
	resetEmail string
	otp        string
	errors     validation.FieldErrors
}

func NewAuthFlow(client api.IClient, store *session.Store, profile IProfileService, v *validation.Validator, log logger.ILogger) IAuthFlow {
	return &authFlow{
		api:        client,
		store:      store,
		profile:    profile,
		validator:  v,
		userMapper: mapper.NewUserMapper(),
		log:        log,
		stage:      StageCredentials,
	}
}

func (f *authFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := AuthState{
		Stage:      f.stage,
		Action:     f.action,
		ResetEmail: f.resetEmail,
		OTP:        f.otp,
		Errors:     validation.FieldErrors{},
	}
	if f.pending != nil {
		p := *f.pending
		st.Pending = &p
	}
	for k, v := range f.errors {
		st.Errors[k] = v
	}
	return st
}

// fail records err against field and returns it. Validation errors replace the
// field error map as a whole.
func (f *authFlow) fail(field string, err error, fallback string) error {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		f.errors = fields
		return err
	}
	f.errors = validation.FieldErrors{field: gateway.MessageOf(err, fallback)}
	return err
}

// acceptsCredentials is true before any OTP is pending and again after a
// finished sign-in, so a later logout can start over.
func (f *authFlow) acceptsCredentials() bool {
	return f.stage == StageCredentials || f.stage == StageDone
}

func (f *authFlow) open(page entity.Page) error {
	if f.store.Snapshot().Page == page {
		return nil
	}
	return f.store.GoToPage(page)
}

func (f *authFlow) SignUp(ctx context.Context, form SignUpForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.acceptsCredentials() {
		return ErrWrongStage
	}
	if err := f.open(entity.PageSignUp); err != nil {
		return err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		return f.fail("email", err, "")
	}

	done := loading(f.store, "Creating your account...")
	res, err := f.api.SignUp(ctx, &dto.SignUpRequest{Email: form.Email, Phone: form.Phone, Password: form.Password})
	done()
	if err != nil {
		return f.fail("email", err, "Signup failed")
	}

	f.pending = &PendingUser{Email: form.Email, UserID: res.UserID}
	f.signUp = &form
	f.action = entity.OTPActionSignup
	f.stage = StageOTPSent
	f.otp = ""
	f.errors = nil
	f.store.SetOTPAction(entity.OTPActionSignup)
	return f.store.GoToPage(entity.PageOTPVerify)
}

func (f *authFlow) SignIn(ctx context.Context, form SignInForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.acceptsCredentials() {
		return ErrWrongStage
	}
	if err := f.open(entity.PageSignIn); err != nil {
		return err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		return f.fail("email", err, "")
	}

	done := loading(f.store, "Signing in...")
	res, err := f.api.Login(ctx, &dto.LoginRequest{Email: form.Email, Password: form.Password})
	done()
	if err != nil {
		return f.fail("email", err, "Login failed")
	}

	f.errors = nil
	return f.finishIdentity(ctx, res)
}

// finishIdentity saves the returned user and either completes sign-in or
// moves to profile collection without authenticating.
func (f *authFlow) finishIdentity(ctx context.Context, res *dto.UserPayload) error {
	user := f.userMapper.ToEntity(res)
	if err := f.store.SaveSession(ctx, user, res.Token); err != nil {
		return f.fail("email", err, "Failed to save session")
	}

	f.pending = nil
	f.signUp = nil
	f.otp = ""
	f.action = entity.OTPActionNone
	f.store.SetOTPAction(entity.OTPActionNone)

	if res.RoleSet && user.ProfileComplete() {
		f.stage = StageDone
		return f.store.Authenticate(entity.PageDashboard)
	}
	f.stage = StageProfileIncomplete
	return f.store.GoToPage(entity.PageProfileCollection)
}

func (f *authFlow) ForgotPassword(ctx context.Context, form ForgotPasswordForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.acceptsCredentials() {
		return ErrWrongStage
	}
	if err := f.open(entity.PageForgotPassword); err != nil {
		return err
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := f.validator.Struct(form); err != nil {
		return f.fail("forgotEmail", err, "")
	}

	done := loading(f.store, "Sending reset code...")
	_, err := f.api.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: form.Email})
	done()
	if err != nil {
		return f.fail("forgotEmail", err, "Failed to send OTP. Please try again.")
	}

	f.resetEmail = form.Email
	f.action = entity.OTPActionResetPassword
	f.stage = StageOTPSent
	f.otp = ""
	f.errors = nil
	f.store.SetOTPAction(entity.OTPActionResetPassword)
	return f.store.GoToPage(entity.PageOTPVerify)
}

func (f *authFlow) VerifyOTP(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageOTPSent {
		return ErrWrongStage
	}
	code = strings.TrimSpace(code)
	if !validation.ValidOTP(code) {
		return f.fail("otp", validation.FieldErrors{"otp": "Please enter a valid 6-digit OTP"}, "")
	}
	f.otp = code

	email := f.resetEmail
	if f.action == entity.OTPActionSignup && f.pending != nil {
		email = f.pending.Email
	}

	done := loading(f.store, "Verifying code...")
	res, err := f.api.VerifyOTP(ctx, &dto.VerifyOTPRequest{Email: email, OTP: code, Action: string(f.action)})
	done()
	if err != nil {
		return f.fail("otp", err, "Verification failed. Please try again.")
	}
	f.errors = nil

	if f.action == entity.OTPActionResetPassword {
		f.otp = ""
		f.stage = StagePasswordEntry
		return f.store.GoToPage(entity.PageForgotPassword)
	}
	return f.finishIdentity(ctx, res)
}

func (f *authFlow) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StagePasswordEntry {
		return ErrWrongStage
	}
	if err := f.validator.Struct(form); err != nil {
		return f.fail("newPassword", err, "")
	}

	done := loading(f.store, "Resetting password...")
	_, err := f.api.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: f.resetEmail, NewPassword: form.NewPassword})
	done()
	if err != nil {
		return f.fail("newPassword", err, "Failed to reset password. Please try again.")
	}

	f.resetTransient()
	return f.store.GoToPage(entity.PageSignIn)
}

// Resend re-issues the request that produced the pending OTP. The stage does not change.
func (f *authFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageOTPSent {
		return ErrWrongStage
	}

	done := loading(f.store, "Resending code...")
	defer done()

	var err error
	switch f.action {
	case entity.OTPActionSignup:
		if f.signUp == nil {
			return ErrWrongStage
		}
		_, err = f.api.SignUp(ctx, &dto.SignUpRequest{Email: f.signUp.Email, Phone: f.signUp.Phone, Password: f.signUp.Password})
	case entity.OTPActionResetPassword:
		_, err = f.api.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: f.resetEmail})
	default:
		return ErrWrongStage
	}
	if err != nil {
		return f.fail("otp", err, "Failed to resend OTP. Please try again.")
	}
	f.errors = nil
	return nil
}

// Back drops every transient value and returns to credentials entry. Leaving
// profile collection also drops the half-finished session.
func (f *authFlow) Back(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := entity.PageSignIn
	if f.action == entity.OTPActionSignup {
		target = entity.PageSignUp
	}
	if f.stage == StageProfileIncomplete {
		f.store.ClearSession(ctx)
		target = entity.PageSignIn
	}

	f.resetTransient()
	if f.store.Snapshot().Authenticated {
		return nil
	}
	return f.open(target)
}

func (f *authFlow) resetTransient() {
	f.stage = StageCredentials
	f.action = entity.OTPActionNone
	f.pending = nil
	f.signUp = nil
	f.resetEmail = ""
	f.otp = ""
	f.errors = nil
	f.store.SetOTPAction(entity.OTPActionNone)
}

func (f *authFlow) CompleteProfile(ctx context.Context, form ProfileForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.profile.Complete(ctx, form); err != nil {
		return f.fail("fullName", err, "Failed to update profile. Please try again.")
	}
	f.resetTransient()
	f.stage = StageDone
	return nil
}

// loading raises the shared loading overlay and returns the function that lowers it.
func loading(store *session.Store, message string) func() {
	store.SetLoading(true, message)
	return func() { store.SetLoading(false, "") }
}
