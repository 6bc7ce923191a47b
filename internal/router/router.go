package router

import (
	"errors"

	"talentify-client/internal/entity"
)

var ErrInvalidTransition = errors.New("invalid page transition")

type Screen string

const (
	ScreenLanding           Screen = "landing"
	ScreenAuthChoice        Screen = "auth-choice"
	ScreenSignUp            Screen = "sign-up"
	ScreenSignIn            Screen = "sign-in"
	ScreenOTPVerify         Screen = "otp-verify"
	ScreenForgotPassword    Screen = "forgot-password"
	ScreenProfileCollection Screen = "profile-collection"
	ScreenJobDescription    Screen = "job-description"

	ScreenNotifications   Screen = "notifications"
	ScreenAccountSettings Screen = "account-settings"
	ScreenProfile         Screen = "profile"

	ScreenJobSetup         Screen = "job-setup"
	ScreenFileUpload       Screen = "file-upload"
	ScreenCandidateResults Screen = "candidate-results"
)

// View is the slice of session state routing depends on.
type View struct {
	Authenticated  bool             `json:"authenticated"`
	Page           entity.Page      `json:"page"`
	Step           entity.Step      `json:"step"`
	Loading        bool             `json:"loading"`
	LoadingMessage string           `json:"loadingMessage,omitempty"`
	Modal          entity.ModalKind `json:"modal,omitempty"`
}

// Route is the screen to render plus the overlays drawn above it.
type Route struct {
	Screen         Screen
	Loading        bool
	LoadingMessage string
	Modal          entity.ModalKind
}

func (r Route) HasOverlay() bool {
	return r.Loading || r.Modal != entity.ModalNone
}

var publicScreens = map[entity.Page]Screen{
	entity.PageAuthChoice:        ScreenAuthChoice,
	entity.PageSignUp:            ScreenSignUp,
	entity.PageSignIn:            ScreenSignIn,
	entity.PageOTPVerify:         ScreenOTPVerify,
	entity.PageForgotPassword:    ScreenForgotPassword,
	entity.PageLanding:           ScreenLanding,
	entity.PageProfileCollection: ScreenProfileCollection,
	entity.PageJobDescription:    ScreenJobDescription,
}

var privateScreens = map[entity.Page]Screen{
	entity.PageNotifications:   ScreenNotifications,
	entity.PageAccountSettings: ScreenAccountSettings,
	entity.PageProfile:         ScreenProfile,
}

var stepScreens = map[entity.Step]Screen{
	entity.StepJobSetup:         ScreenJobSetup,
	entity.StepFileUpload:       ScreenFileUpload,
	entity.StepCandidateResults: ScreenCandidateResults,
}

// Resolve maps session state onto exactly one screen. Unknown pages fall back
// to landing or the dashboard, unknown steps to job setup.
func Resolve(v View) Route {
	route := Route{
		Loading:        v.Loading,
		LoadingMessage: v.LoadingMessage,
		Modal:          v.Modal,
	}

	if !v.Authenticated {
		if s, ok := publicScreens[v.Page]; ok {
			route.Screen = s
		} else {
			route.Screen = ScreenLanding
		}
		return route
	}

	if s, ok := privateScreens[v.Page]; ok {
		route.Screen = s
		return route
	}
	route.Screen = DashboardScreen(v.Step)
	return route
}

func DashboardScreen(step entity.Step) Screen {
	if s, ok := stepScreens[step]; ok {
		return s
	}
	return ScreenJobSetup
}

// IsPublic reports whether page belongs to the unauthenticated page set.
func IsPublic(page entity.Page) bool {
	_, ok := publicScreens[page]
	return ok
}

func IsPrivate(page entity.Page) bool {
	return page == entity.PageDashboard || privateScreens[page] != ""
}
