package router

import (
	"fmt"

	"talentify-client/internal/entity"
)

type pageSet map[entity.Page]struct{}

func pages(ps ...entity.Page) pageSet {
	out := make(pageSet, len(ps))
	for _, p := range ps {
		out[p] = struct{}{}
	}
	return out
}

var publicTransitions = map[entity.Page]pageSet{
	entity.PageLanding:           pages(entity.PageAuthChoice, entity.PageSignIn, entity.PageSignUp, entity.PageJobDescription),
	entity.PageAuthChoice:        pages(entity.PageLanding, entity.PageSignIn, entity.PageSignUp),
	entity.PageSignUp:            pages(entity.PageAuthChoice, entity.PageSignIn, entity.PageOTPVerify, entity.PageLanding),
	entity.PageSignIn:            pages(entity.PageAuthChoice, entity.PageSignUp, entity.PageForgotPassword, entity.PageOTPVerify, entity.PageProfileCollection, entity.PageLanding),
	entity.PageOTPVerify:         pages(entity.PageSignIn, entity.PageSignUp, entity.PageAuthChoice, entity.PageForgotPassword, entity.PageProfileCollection),
	entity.PageForgotPassword:    pages(entity.PageSignIn, entity.PageOTPVerify, entity.PageAuthChoice),
	entity.PageProfileCollection: pages(entity.PageLanding, entity.PageSignIn),
	entity.PageJobDescription:    pages(entity.PageLanding, entity.PageAuthChoice, entity.PageSignIn),
}

var privatePages = pages(entity.PageDashboard, entity.PageNotifications, entity.PageAccountSettings, entity.PageProfile)

// CanNavigate reports whether a page change is allowed within the current
// authentication state. Crossing between the public and private page sets only
// happens through sign-in completion or session teardown, never here.
func CanNavigate(authenticated bool, from, to entity.Page) bool {
	if authenticated {
		_, okTo := privatePages[to]
		if !okTo {
			return false
		}
		if from == to {
			return true
		}
		_, okFrom := privatePages[from]
		// A stale public page left over from sign-in may move anywhere private.
		return okFrom || IsPublic(from)
	}

	if !IsPublic(to) {
		return false
	}
	if from == to {
		return true
	}
	next, ok := publicTransitions[from]
	if !ok {
		// Unknown origin resolves to landing.
		next = publicTransitions[entity.PageLanding]
	}
	_, allowed := next[to]
	return allowed
}

func CheckTransition(authenticated bool, from, to entity.Page) error {
	if CanNavigate(authenticated, from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
