package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"naayee/internal/api"
	"naayee/internal/booking"
	"naayee/internal/config"
	"naayee/internal/directory"
	"naayee/internal/events"
	"naayee/internal/models"
	"naayee/internal/payment"
	"naayee/internal/profile"
	"naayee/internal/repository"
	"naayee/internal/session"

	"github.com/rs/zerolog"
)

// lineSource is the single owner of the input stream. One reader goroutine
// serves lines over a channel so every prompt, the payment checkout included,
// reads from the same place and can bail out on ctx cancellation without
// leaving a reader blocked on the stream.
type lineSource struct {
	lines chan string
}

func newLineSource(in io.Reader) *lineSource {
	ls := &lineSource{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			ls.lines <- strings.TrimSpace(scanner.Text())
		}
		close(ls.lines)
	}()
	return ls
}

// ReadLine blocks until a line arrives, input ends (io.EOF) or ctx is done.
func (ls *lineSource) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-ls.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

type app struct {
	cfg          *config.Config
	client       *api.Client
	sessions     *session.Manager
	states       *repository.FailoverStateRepository
	fetcher      *directory.Fetcher
	orchestrator *payment.Orchestrator
	bus          *events.EventBus
	logger       zerolog.Logger

	input *lineSource
	out   io.Writer
}

// Run drives the terminal session: authenticate, mount the profile view,
// then loop over the menu until quit, end of input or ctx cancellation.
func (a *app) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := a.sessions.Validate(ctx); err != nil {
			if !errors.Is(err, session.ErrNoSession) && !errors.Is(err, session.ErrExpired) {
				return err
			}
			if errors.Is(err, session.ErrExpired) {
				fmt.Fprintln(a.out, "Session expired. Please log in again.")
			}
			if done := a.authMenu(ctx); done {
				return ctx.Err()
			}
			continue
		}

		view := profile.NewController(a.sessions, a.client, a.fetcher, a.bus, a.logger)
		if err := view.Mount(ctx); err != nil {
			if errors.Is(err, api.ErrAuth) || errors.Is(err, session.ErrExpired) || errors.Is(err, session.ErrNoSession) {
				continue // credential cleared, back to login
			}
			// the session is still good, so offer a retry instead of
			// dropping the user back to login
			fmt.Fprintf(a.out, "Failed to fetch data: %v\n", err)
			choice, rerr := a.readLine(ctx, "[r] Retry  [q] Quit\n> ")
			if rerr != nil || choice == "q" || choice == "quit" {
				return ctx.Err()
			}
			continue
		}

		if done := a.mainMenu(ctx, view); done {
			return ctx.Err()
		}
	}
	return ctx.Err()
}

// authMenu returns true when the user quits or input is gone.
func (a *app) authMenu(ctx context.Context) bool {
	for {
		choice, err := a.readLine(ctx, "\n[1] Login  [2] Sign up  [q] Quit\n> ")
		if err != nil {
			return true
		}
		switch choice {
		case "1":
			fields, err := a.readFields(ctx, "email: ", "password: ")
			if err != nil {
				return true
			}
			token, err := a.client.Login(ctx, fields[0], fields[1])
			if err != nil {
				fmt.Fprintf(a.out, "Login failed: %v\n", err)
				continue
			}
			if err := a.sessions.SetToken(ctx, token); err != nil {
				fmt.Fprintf(a.out, "Failed to store credential: %v\n", err)
				continue
			}
			return false
		case "2":
			fields, err := a.readFields(ctx, "full name: ", "email: ", "password: ", "phone: ")
			if err != nil {
				return true
			}
			req := models.SignupRequest{
				FullName:    fields[0],
				Email:       fields[1],
				Password:    fields[2],
				PhoneNumber: fields[3],
			}
			token, err := a.client.Signup(ctx, req)
			if err != nil {
				fmt.Fprintf(a.out, "Signup failed: %v\n", err)
				continue
			}
			if err := a.sessions.SetToken(ctx, token); err != nil {
				fmt.Fprintf(a.out, "Failed to store credential: %v\n", err)
				continue
			}
			return false
		case "q", "quit":
			return true
		}
	}
}

// mainMenu returns true when the user quits or input is gone.
func (a *app) mainMenu(ctx context.Context, view *profile.Controller) bool {
	a.renderProfile(view)

	owner := ""
	if p := view.Profile(); p != nil {
		owner = p.Email
	}
	form := booking.NewFormController(a.fetcher, a.states, owner, a.logger)
	if err := form.Restore(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("could not restore draft")
	}

	for {
		choice, err := a.readLine(ctx, "\n[1] View profile  [2] Edit profile  [3] Book a service  [4] Logout  [q] Quit\n> ")
		if err != nil {
			return true
		}
		switch choice {
		case "1":
			if err := view.Mount(ctx); err != nil {
				fmt.Fprintf(a.out, "Failed to fetch data: %v\n", err)
				return false
			}
			a.renderProfile(view)
		case "2":
			a.editProfile(ctx, view)
		case "3":
			a.bookService(ctx, form)
		case "4":
			if err := a.sessions.Clear(ctx); err != nil {
				fmt.Fprintf(a.out, "Logout failed: %v\n", err)
			}
			return false
		case "q", "quit":
			return true
		}
	}
}

func (a *app) renderProfile(view *profile.Controller) {
	p := view.Profile()
	if p == nil {
		fmt.Fprintln(a.out, "No profile data available")
		return
	}
	fmt.Fprintf(a.out, "\n%s <%s> %s %s\n", p.FullName, p.Email, p.PhoneNumber, p.Gender)

	fmt.Fprintln(a.out, "Salons:")
	for _, s := range view.Salons() {
		marker := " "
		if s.ID == a.fetcher.Selected() {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %d: %s, %s %s\n", marker, s.ID, s.Name, s.Address, s.City)
	}
	fmt.Fprintln(a.out, "Services:")
	for _, svc := range a.fetcher.Services() {
		fmt.Fprintf(a.out, "   %d: %s - %d\n", svc.ID, svc.Name, svc.Price)
	}
	fmt.Fprintln(a.out, "Staff:")
	for _, st := range a.fetcher.Staff() {
		fmt.Fprintf(a.out, "   %d: %s\n", st.ID, st.Name)
	}
}

func (a *app) editProfile(ctx context.Context, view *profile.Controller) {
	view.Edit()

	fields := []struct {
		label  string
		mutate func(*models.Profile, string)
	}{
		{"full name", func(p *models.Profile, v string) { p.FullName = v }},
		{"email", func(p *models.Profile, v string) { p.Email = v }},
		{"phone", func(p *models.Profile, v string) { p.PhoneNumber = v }},
		{"gender (male/female/other)", func(p *models.Profile, v string) {
			if g := models.Gender(v); g.Valid() {
				p.Gender = g
			}
		}},
	}
	for _, f := range fields {
		val, err := a.readLine(ctx, f.label+" (empty keeps current): ")
		if err != nil {
			view.Cancel()
			return
		}
		if val == "" {
			continue
		}
		mutate := f.mutate
		_ = view.SetField(func(p *models.Profile) { mutate(p, val) })
	}

	confirm, err := a.readLine(ctx, "save? [y/N]: ")
	if err != nil || confirm != "y" {
		view.Cancel()
		fmt.Fprintln(a.out, "Edit discarded.")
		return
	}
	if err := view.Save(ctx); err != nil {
		fmt.Fprintf(a.out, "Failed to update profile: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Profile saved.")
}

func (a *app) bookService(ctx context.Context, form *booking.FormController) {
	salonID, err := a.readInt64(ctx, "salon id: ")
	if err != nil {
		return
	}
	if err := form.SelectSalon(ctx, salonID); err != nil {
		fmt.Fprintf(a.out, "Failed to fetch salon details: %v\n", err)
		return
	}
	for _, svc := range a.fetcher.Services() {
		fmt.Fprintf(a.out, "  %d: %s - %d\n", svc.ID, svc.Name, svc.Price)
	}
	serviceID, err := a.readInt64(ctx, "service id: ")
	if err != nil {
		return
	}
	form.SetService(ctx, serviceID)

	for _, st := range a.fetcher.Staff() {
		fmt.Fprintf(a.out, "  %d: %s\n", st.ID, st.Name)
	}
	staffID, err := a.readInt64(ctx, "staff id: ")
	if err != nil {
		return
	}
	form.SetStaff(ctx, staffID)

	fields, err := a.readFields(ctx, "email: ", "date (YYYY-MM-DD): ", "start time (HH:MM): ", "end time (HH:MM): ")
	if err != nil {
		return
	}
	form.SetEmail(ctx, fields[0])
	form.SetDate(ctx, fields[1])
	form.SetTimes(ctx, fields[2], fields[3])

	draft, err := form.Prepare()
	if err != nil {
		fmt.Fprintln(a.out, payment.UserMessage(err))
		return
	}

	if _, err := a.orchestrator.Process(ctx, draft); err != nil {
		fmt.Fprintln(a.out, payment.UserMessage(err))
		return
	}

	form.Reset(ctx)
	fmt.Fprintln(a.out, "Booking confirmed and payment successful!")
}

func (a *app) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	return a.input.ReadLine(ctx)
}

func (a *app) readFields(ctx context.Context, prompts ...string) ([]string, error) {
	values := make([]string, 0, len(prompts))
	for _, prompt := range prompts {
		val, err := a.readLine(ctx, prompt)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func (a *app) readInt64(ctx context.Context, prompt string) (int64, error) {
	line, err := a.readLine(ctx, prompt)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, nil
	}
	return val, nil
}
