package stubapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"talentify-client/internal/dto"
	"talentify-client/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

type authHandler struct {
	s *Server
}

func newAuthHandler(s *Server) *authHandler {
	return &authHandler{s: s}
}

func (h *authHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
	r.Post("/verify_otp", h.VerifyOTP)
	r.Post("/forgot_password", h.ForgotPassword)
	r.Post("/reset_password", h.ResetPassword)
	r.Post("/update_profile", h.UpdateProfile)
	r.Post("/clear_session_data", h.ClearSessionData)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func (h *authHandler) issueOTP(email, action string) error {
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	h.s.otps.Set(otpKey(action, email), otp, cache.DefaultExpiration)
	h.s.log.Info("StubAPI", "OTP issued", map[string]interface{}{"email": email, "action": action, "otp": otp})
	return nil
}

func (h *authHandler) issueToken(u userRecord) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"exp":     time.Now().Add(h.s.cfg.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.s.cfg.JWTSecret))
}

func userPayload(u userRecord, message, token string) dto.UserPayload {
	name := u.Name
	if name == "" {
		name = entity.DisplayNameFromEmail(u.Email)
	}
	return dto.UserPayload{
		Message:    message,
		Token:      token,
		UserID:     u.ID,
		Email:      u.Email,
		Name:       name,
		Role:       u.Role,
		RoleSet:    u.Role != "",
		HRID:       u.HRID,
		Department: u.Department,
		Position:   u.Position,
	}
}

func (h *authHandler) SignUp(ctx *fiber.Ctx) error {
	var req dto.SignUpRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	if existing, ok := h.s.db.userByEmail(req.Email); ok {
		if existing.Verified {
			return fail(ctx, fiber.StatusConflict, "User with this email already exists and is verified")
		}
		if err := h.issueOTP(req.Email, string(entity.OTPActionSignup)); err != nil {
			return fail(ctx, fiber.StatusInternalServerError, "Failed to register user.")
		}
		return ctx.JSON(dto.SignUpResponse{
			Message: "User exists but not verified. OTP resent for email verification.",
			UserID:  existing.ID,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to register user.")
	}
	u := userRecord{ID: uuid.NewString(), Email: req.Email, Phone: req.Phone, PasswordHash: hash}
	h.s.db.saveUser(u)

	if err := h.issueOTP(req.Email, string(entity.OTPActionSignup)); err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to register user.")
	}
	return ctx.Status(fiber.StatusCreated).JSON(dto.SignUpResponse{
		Message: "User registered successfully. OTP sent for email verification.",
		UserID:  u.ID,
	})
}

func (h *authHandler) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	u, ok := h.s.db.userByEmail(req.Email)
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		return fail(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !u.Verified {
		return fail(ctx, fiber.StatusForbidden, "Please verify your email via OTP first.")
	}

	token, err := h.issueToken(u)
	if err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to issue token")
	}
	return ctx.JSON(userPayload(u, "Login successful", token))
}

func (h *authHandler) VerifyOTP(ctx *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	u, ok := h.s.db.userByEmail(req.Email)
	expected, pending := h.s.PendingOTP(req.Email, req.Action)
	if !ok || !pending || expected != req.OTP {
		return fail(ctx, fiber.StatusUnauthorized, "Invalid OTP")
	}
	h.s.otps.Delete(otpKey(req.Action, req.Email))

	if req.Action == string(entity.OTPActionResetPassword) {
		h.s.otps.Set(resetKey(req.Email), u.ID, cache.DefaultExpiration)
		return ctx.JSON(fiber.Map{"message": "OTP verified. You can now reset your password.", "user_id": u.ID})
	}

	u.Verified = true
	h.s.db.saveUser(u)
	h.s.db.notify(u.ID, "Welcome to Talentify", "Your email has been verified.", string(entity.NotificationSuccess))

	token, err := h.issueToken(u)
	if err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to issue token")
	}
	return ctx.JSON(userPayload(u, "Email verified and login successful", token))
}

func (h *authHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	if _, ok := h.s.db.userByEmail(req.Email); !ok {
		return fail(ctx, fiber.StatusNotFound, "User not found")
	}
	if err := h.issueOTP(req.Email, string(entity.OTPActionResetPassword)); err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to send OTP")
	}
	return ctx.JSON(dto.MessageResponse{Message: "OTP sent to your email for password reset"})
}

func (h *authHandler) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	u, ok := h.s.db.userByEmail(req.Email)
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "User not found")
	}
	if _, verified := h.s.otps.Get(resetKey(req.Email)); !verified {
		return fail(ctx, fiber.StatusForbidden, "Please verify the reset OTP first.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fail(ctx, fiber.StatusInternalServerError, "Failed to reset password")
	}
	u.PasswordHash = hash
	h.s.db.saveUser(u)
	h.s.otps.Delete(resetKey(req.Email))
	return ctx.JSON(dto.MessageResponse{Message: "Password reset successfully"})
}

func (h *authHandler) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if ok, err := h.s.parse(ctx, &req); !ok {
		return err
	}

	u, ok := h.s.db.userByEmail(req.Email)
	if !ok {
		return fail(ctx, fiber.StatusNotFound, "User not found")
	}
	u.Name = req.Name
	u.HRID = req.HRID
	u.Position = req.Position
	u.Department = req.Department
	u.Role = entity.RoleHR
	h.s.db.saveUser(u)

	return ctx.JSON(userPayload(u, "Profile updated successfully", ""))
}

func (h *authHandler) ClearSessionData(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.MessageResponse{Message: "Session data cleared successfully"})
}
