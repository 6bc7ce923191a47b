package dto

type MessageResponse struct {
	Message string `json:"message"`
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required"`
}

type SignUpResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email  string `json:"email" validate:"required,email"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
	Action string `json:"action" validate:"required,oneof=signup reset_password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UserPayload is returned by /login, /verify_otp and /update_profile.
// Nullable backend columns arrive as JSON null and decode to "".
type UserPayload struct {
	Message    string `json:"message,omitempty"`
	Token      string `json:"token,omitempty"`
	UserID     string `json:"user_id"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	RoleSet    bool   `json:"role_set"`
	HRID       string `json:"hr_id,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

type UpdateProfileRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name"`
	HRID       string `json:"hr_id"`
	Position   string `json:"position"`
	Department string `json:"department"`
}
