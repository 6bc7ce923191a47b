package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"talentify-client/internal/entity"
	"talentify-client/internal/router"
	"talentify-client/internal/service"
	"talentify-client/internal/validation"
	"talentify-client/pkg/gateway"
)

type command struct {
	usage string
	run   func(t *terminal, ctx context.Context, args []string, rest string) error
}

var errUsage = errors.New("usage")

var commands = map[string]command{
	"signup": {"signup <email> <password> <confirm> [phone]", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) < 3 {
			return errUsage
		}
		form := service.SignUpForm{Email: a[0], Password: a[1], ConfirmPassword: a[2]}
		if len(a) > 3 {
			form.Phone = a[3]
		}
		return t.c.Auth.SignUp(ctx, form)
	}},
	"signin": {"signin <email> <password>", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) < 2 {
			return errUsage
		}
		return t.c.Auth.SignIn(ctx, service.SignInForm{Email: a[0], Password: a[1]})
	}},
	"otp": {"otp <6-digit code>", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) < 1 {
			return errUsage
		}
		return t.c.Auth.VerifyOTP(ctx, a[0])
	}},
	"forgot": {"forgot <email>", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) < 1 {
			return errUsage
		}
		return t.c.Auth.ForgotPassword(ctx, service.ForgotPasswordForm{Email: a[0]})
	}},
	"reset": {"reset <new password> <confirm password>", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) < 2 {
			return errUsage
		}
		return t.c.Auth.ResetPassword(ctx, service.ResetPasswordForm{NewPassword: a[0], ConfirmNewPassword: a[1]})
	}},
	"resend": {"resend", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		if err := t.c.Auth.Resend(ctx); err != nil {
			return err
		}
		t.printInfo("A new code is on its way.")
		return nil
	}},
	"back": {"back", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		return t.c.Auth.Back(ctx)
	}},
	"profile": {"profile <full name> | <department> | <position> | <hr id>", func(t *terminal, ctx context.Context, _ []string, rest string) error {
		parts := strings.Split(rest, "|")
		if len(parts) != 4 {
			return errUsage
		}
		form := service.ProfileForm{
			FullName:   strings.TrimSpace(parts[0]),
			Department: strings.TrimSpace(parts[1]),
			Position:   strings.TrimSpace(parts[2]),
			HRID:       strings.TrimSpace(parts[3]),
		}
		if t.c.Auth.State().Stage == service.StageProfileIncomplete {
			return t.c.Auth.CompleteProfile(ctx, form)
		}
		return t.c.Profile.Complete(ctx, form)
	}},
	"job": {"job <title|description|department|location|experience|jobType> <value> | job submit | job reset", func(t *terminal, ctx context.Context, a []string, rest string) error {
		if len(a) < 1 {
			return errUsage
		}
		switch a[0] {
		case "submit":
			return t.c.JobSetup.Submit(ctx)
		case "reset":
			t.c.JobSetup.Reset()
			return nil
		}
		value := strings.TrimSpace(strings.TrimPrefix(rest, a[0]))
		return t.c.JobSetup.SetField(a[0], value)
	}},
	"template": {"template <title>", func(t *terminal, _ context.Context, _ []string, rest string) error {
		if rest == "" {
			return errUsage
		}
		return t.c.JobSetup.ApplyTemplate(rest)
	}},
	"skill": {"skill add|rm <skill>", func(t *terminal, _ context.Context, a []string, rest string) error {
		if len(a) < 2 {
			return errUsage
		}
		skill := strings.TrimSpace(strings.TrimPrefix(rest, a[0]))
		switch a[0] {
		case "add":
			if !t.c.JobSetup.AddSkill(skill) {
				return fmt.Errorf("skill %q is empty or already listed", skill)
			}
		case "rm":
			t.c.JobSetup.RemoveSkill(skill)
		default:
			return errUsage
		}
		return nil
	}},
	"add": {"add <path>...", func(t *terminal, _ context.Context, a []string, _ string) error {
		if len(a) == 0 {
			return errUsage
		}
		return t.c.Upload.AddPaths(a...)
	}},
	"remove": {"remove <n>", func(t *terminal, _ context.Context, a []string, _ string) error {
		n, err := index(a)
		if err != nil {
			return err
		}
		return t.c.Upload.Remove(n)
	}},
	"process": {"process", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		sctx, cancel := t.c.Store.ScreenContext(ctx)
		defer cancel()
		return t.c.Upload.Process(sctx)
	}},
	"filter": {"filter [category=<c>] [min=<n>] [max=<n>] [top=<n>]", func(t *terminal, _ context.Context, a []string, _ string) error {
		c := t.c.Results.Criteria()
		for _, kv := range a {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return errUsage
			}
			if key == "category" {
				c.Category = value
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return errUsage
			}
			switch key {
			case "min":
				c.MinScore = n
			case "max":
				c.MaxScore = n
			case "top":
				c.TopN = n
			default:
				return errUsage
			}
		}
		t.c.Results.SetCriteria(c)
		return nil
	}},
	"showall": {"showall on|off", func(t *terminal, _ context.Context, a []string, _ string) error {
		if len(a) != 1 || (a[0] != "on" && a[0] != "off") {
			return errUsage
		}
		t.c.Results.SetShowAll(a[0] == "on")
		return nil
	}},
	"view": {"view <n>", func(t *terminal, ctx context.Context, a []string, _ string) error {
		c, err := t.candidate(a)
		if err != nil {
			return err
		}
		sctx, cancel := t.c.Store.ScreenContext(ctx)
		defer cancel()
		_, err = t.c.Results.ViewResume(sctx, c)
		return err
	}},
	"download": {"download <n>|filtered|all", func(t *terminal, ctx context.Context, a []string, _ string) error {
		if len(a) != 1 {
			return errUsage
		}
		sctx, cancel := t.c.Store.ScreenContext(ctx)
		defer cancel()

		var path string
		var err error
		switch a[0] {
		case "filtered":
			path, err = t.c.Results.DownloadFiltered(sctx)
		case "all":
			path, err = t.c.Results.DownloadAll(sctx)
		default:
			var c entity.Candidate
			if c, err = t.candidate(a); err == nil {
				path, err = t.c.Results.DownloadResume(sctx, c)
			}
		}
		if err != nil {
			return err
		}
		t.printInfo("Saved %s", path)
		return nil
	}},
	"restart": {"restart", func(t *terminal, _ context.Context, _ []string, _ string) error {
		t.c.Results.RequestRestart()
		return nil
	}},
	"confirm": {"confirm", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		switch t.c.Store.Snapshot().Modal.Kind {
		case entity.ModalLogout:
			t.c.Account.ConfirmLogout(ctx)
		case entity.ModalRestart:
			t.c.Results.ConfirmRestart(ctx)
			t.c.JobSetup.Reset()
		default:
			return errors.New("nothing to confirm")
		}
		return nil
	}},
	"cancel": {"cancel", func(t *terminal, _ context.Context, _ []string, _ string) error {
		t.c.Account.CancelModal()
		return nil
	}},
	"notifications": {"notifications", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		return t.c.Notifications.Open(ctx)
	}},
	"read": {"read <n>", func(t *terminal, _ context.Context, a []string, _ string) error {
		n, err := index(a)
		if err != nil {
			return err
		}
		list := t.c.Notifications.List()
		if n >= len(list) {
			return fmt.Errorf("no notification %d", n+1)
		}
		t.c.Notifications.MarkRead(list[n].ID)
		t.render()
		return nil
	}},
	"readall": {"readall", func(t *terminal, _ context.Context, _ []string, _ string) error {
		t.c.Notifications.MarkAllRead()
		t.render()
		return nil
	}},
	"theme": {"theme", func(t *terminal, ctx context.Context, _ []string, _ string) error {
		t.printInfo("Theme is now %s", t.c.Account.ToggleTheme(ctx))
		return nil
	}},
	"page": {"page <name>", func(t *terminal, _ context.Context, a []string, _ string) error {
		if len(a) != 1 {
			return errUsage
		}
		return t.c.Store.GoToPage(entity.Page(a[0]))
	}},
	"logout": {"logout", func(t *terminal, _ context.Context, _ []string, _ string) error {
		t.c.Account.RequestLogout()
		return nil
	}},
}

// dispatch runs one input line and reports whether the user asked to quit.
func (t *terminal) dispatch(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return true
	case "help":
		t.help()
		return false
	case "show":
		t.render()
		return false
	}

	cmd, ok := commands[name]
	if !ok {
		t.printError(fmt.Errorf("unknown command %q, type 'help'", name))
		return false
	}
	if err := cmd.run(t, ctx, strings.Fields(rest), rest); err != nil {
		if errors.Is(err, errUsage) {
			t.printError(errors.New("usage: " + cmd.usage))
		} else {
			t.printError(err)
		}
		return false
	}
	t.render()
	return false
}

func (t *terminal) help() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		fmt.Fprintf(t.out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(t.out, "  show | help | quit")
}

func (t *terminal) candidate(args []string) (entity.Candidate, error) {
	n, err := index(args)
	if err != nil {
		return entity.Candidate{}, err
	}
	shown := t.c.Store.Snapshot().FilteredCandidates
	if n >= len(shown) {
		return entity.Candidate{}, fmt.Errorf("no candidate %d", n+1)
	}
	return shown[n], nil
}

// index parses a 1-based list position into a slice index.
func index(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, errUsage
	}
	return n - 1, nil
}

// describe renders an error the way the screens show it.
func describe(err error) string {
	var fields validation.FieldErrors
	var rejected *validation.RejectionError
	switch {
	case errors.As(err, &fields):
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %s", k, fields[k]))
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &rejected):
		return rejected.Error()
	case errors.Is(err, router.ErrInvalidTransition):
		return "That page is not available from here."
	case errors.Is(err, service.ErrWrongStage):
		return "That action is not available right now."
	default:
		return gateway.MessageOf(err, err.Error())
	}
}
