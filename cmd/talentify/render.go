package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"talentify-client/internal/bootstrap"
	"talentify-client/internal/entity"
	"talentify-client/internal/router"
	"talentify-client/internal/service"
	"talentify-client/internal/session"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	overlayColor = color.New(color.FgMagenta, color.Bold)
)

var screenTitles = map[router.Screen]string{
	router.ScreenLanding:           "Welcome to Talentify",
	router.ScreenAuthChoice:        "Get started",
	router.ScreenSignUp:            "Create your account",
	router.ScreenSignIn:            "Sign in",
	router.ScreenOTPVerify:         "Verify your email",
	router.ScreenForgotPassword:    "Reset your password",
	router.ScreenProfileCollection: "Complete your HR profile",
	router.ScreenJobDescription:    "How Talentify works",
	router.ScreenNotifications:     "Notifications",
	router.ScreenAccountSettings:   "Account settings",
	router.ScreenProfile:           "Profile",
	router.ScreenJobSetup:          "Step 1 of 3: Job requirements",
	router.ScreenFileUpload:        "Step 2 of 3: Upload resumes",
	router.ScreenCandidateResults:  "Step 3 of 3: Candidate results",
}

type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	c    *bootstrap.Container
	last router.Route
}

func newTerminal(c *bootstrap.Container, out io.Writer) *terminal {
	return &terminal{c: c, out: out}
}

// follow redraws when a session change moves to another screen or overlay.
// Changes that keep the route, such as a notification poll, only refresh the badge.
func (t *terminal) follow(events <-chan *message.Message) {
	for msg := range events {
		var view router.View
		if err := json.Unmarshal(msg.Payload, &view); err != nil {
			t.c.Logger.Warn("Terminal", "Malformed session event", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}
		msg.Ack()

		route := router.Resolve(view)
		t.mu.Lock()
		changed := route != t.last
		t.mu.Unlock()
		if changed {
			t.render()
		}
	}
}

func (t *terminal) prompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, "> ")
}

func (t *terminal) render() {
	t.mu.Lock()
	defer t.mu.Unlock()

	route := t.c.Store.Route()
	t.last = route
	snap := t.c.Store.Snapshot()

	fmt.Fprintln(t.out)
	header := screenTitles[route.Screen]
	if snap.Authenticated {
		if unread := t.c.Store.UnreadCount(); unread > 0 {
			header += fmt.Sprintf("  [%d unread]", unread)
		}
	}
	titleColor.Fprintln(t.out, header)
	mutedColor.Fprintf(t.out, "theme: %s\n", snap.Theme)

	switch route.Screen {
	case router.ScreenLanding:
		fmt.Fprintln(t.out, "AI-assisted resume screening for HR teams.")
		mutedColor.Fprintln(t.out, "page auth-choice | page job-description | signin | signup")
	case router.ScreenOTPVerify:
		fmt.Fprintf(t.out, "Enter the 6-digit code sent to your email (%s).\n", snap.OTPAction)
		mutedColor.Fprintln(t.out, "otp <code> | resend | back")
	case router.ScreenForgotPassword:
		if t.c.Auth.State().Stage == service.StagePasswordEntry {
			fmt.Fprintln(t.out, "Choose a new password.")
			mutedColor.Fprintln(t.out, "reset <new password> <confirm password>")
		} else {
			mutedColor.Fprintln(t.out, "forgot <email>")
		}
	case router.ScreenProfileCollection:
		mutedColor.Fprintln(t.out, "profile <full name> | <department> | <position> | <hr id>")
		mutedColor.Fprintf(t.out, "departments: %s\n", strings.Join(entity.Departments, ", "))
	case router.ScreenJobSetup:
		t.renderDraft()
	case router.ScreenFileUpload:
		t.renderUploads(snap)
	case router.ScreenCandidateResults:
		t.renderResults(snap)
	case router.ScreenNotifications:
		t.renderNotifications()
	case router.ScreenAccountSettings, router.ScreenProfile:
		if u := snap.User; u != nil {
			fmt.Fprintf(t.out, "%s <%s>\n%s, %s (HR ID %s)\n", u.Name, u.Email, u.Position, u.Department, u.HRID)
		}
		mutedColor.Fprintln(t.out, "theme | logout")
	}

	if route.Loading {
		overlayColor.Fprintf(t.out, "... %s\n", route.LoadingMessage)
	}
	switch route.Modal {
	case entity.ModalLogout:
		overlayColor.Fprintln(t.out, "Log out of Talentify? (confirm | cancel)")
	case entity.ModalRestart:
		overlayColor.Fprintln(t.out, "Start a new screening? Current results will be lost. (confirm | cancel)")
	case entity.ModalResume:
		if p, ok := snap.Modal.Data.(*entity.ResumePreview); ok {
			overlayColor.Fprintln(t.out, p.Title)
			if p.IsPDF() {
				mutedColor.Fprintf(t.out, "PDF, %d page(s)\n", p.Pages)
			}
			fmt.Fprintln(t.out, p.Text)
			mutedColor.Fprintln(t.out, "cancel to close")
		}
	}
}

func (t *terminal) renderDraft() {
	d := t.c.JobSetup.Draft()
	fmt.Fprintf(t.out, "title:       %s\n", d.Title)
	fmt.Fprintf(t.out, "experience:  %s\n", d.ExperienceLevel)
	fmt.Fprintf(t.out, "department:  %s\n", d.Department)
	fmt.Fprintf(t.out, "location:    %s\n", d.Location)
	fmt.Fprintf(t.out, "jobType:     %s\n", d.JobType)
	fmt.Fprintf(t.out, "skills:      %s\n", strings.Join(d.Skills, ", "))
	fmt.Fprintf(t.out, "description: %s\n", d.Description)
	mutedColor.Fprintln(t.out, "job <field> <value> | skill add|rm <skill> | template <title> | job submit")
}

func (t *terminal) renderUploads(snap session.State) {
	if snap.Job != nil {
		fmt.Fprintf(t.out, "Screening for: %s\n", snap.Job.Title)
	}
	var total int64
	for i, f := range snap.UploadedFiles {
		fmt.Fprintf(t.out, "%3d. %s (%.1f KB)\n", i+1, f.Name, float64(f.Size)/1024)
		total += f.Size
	}
	fmt.Fprintf(t.out, "%d file(s), %.2f MB\n", len(snap.UploadedFiles), float64(total)/(1024*1024))
	mutedColor.Fprintln(t.out, "add <path>... | remove <n> | process")
}

func (t *terminal) renderResults(snap session.State) {
	st := t.c.Results.Stats()
	fmt.Fprintf(t.out, "total %d | shown %d | average %d%% | top %d\n", st.Total, st.Filtered, st.AverageScore, st.TopCandidates)
	for i, c := range snap.FilteredCandidates {
		line := fmt.Sprintf("%3d. %-32s %3d%%  %-15s %s", i+1, c.Filename, c.MatchScore, service.ScoreLabel(c.MatchScore), c.Category)
		switch {
		case c.MatchScore >= 80:
			okColor.Fprintln(t.out, line)
		case c.MatchScore >= 70:
			warnColor.Fprintln(t.out, line)
		default:
			fmt.Fprintln(t.out, line)
		}
	}
	mutedColor.Fprintln(t.out, "filter category=<c> min=<n> max=<n> top=<n> | showall on|off | view <n> | download <n>|filtered|all | restart")
}

func (t *terminal) renderNotifications() {
	list := t.c.Notifications.List()
	if len(list) == 0 {
		fmt.Fprintln(t.out, "No notifications yet.")
	}
	for i, n := range list {
		marker := "*"
		if n.Read {
			marker = " "
		}
		fmt.Fprintf(t.out, "%s %2d. [%s] %s: %s\n", marker, i+1, n.Type, n.Title, n.Message)
	}
	mutedColor.Fprintln(t.out, "read <n> | readall | page dashboard")
}

func (t *terminal) printError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	errColor.Fprintln(t.out, describe(err))
}

func (t *terminal) printInfo(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	okColor.Fprintf(t.out, format+"\n", args...)
}
