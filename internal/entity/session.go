package entity

type Page string

const (
	PageLanding           Page = "landing"
	PageAuthChoice        Page = "auth-choice"
	PageSignUp            Page = "sign-up"
	PageSignIn            Page = "sign-in"
	PageOTPVerify         Page = "otp-verify"
	PageForgotPassword    Page = "forgot-password"
	PageProfileCollection Page = "profile-collection"
	PageJobDescription    Page = "job-description"

	PageDashboard       Page = "dashboard"
	PageNotifications   Page = "notifications"
	PageAccountSettings Page = "account-settings"
	PageProfile         Page = "profile"
)

type Step int

const (
	StepJobSetup Step = iota
	StepFileUpload
	StepCandidateResults
)

func (s Step) Valid() bool {
	return s >= StepJobSetup && s <= StepCandidateResults
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

type OTPAction string

const (
	OTPActionNone          OTPAction = ""
	OTPActionSignup        OTPAction = "signup"
	OTPActionResetPassword OTPAction = "reset_password"
)

type ModalKind string

const (
	ModalNone    ModalKind = ""
	ModalLogout  ModalKind = "logout"
	ModalRestart ModalKind = "restart"
	ModalResume  ModalKind = "resume"
)

type Modal struct {
	Kind ModalKind
	Data any
}
