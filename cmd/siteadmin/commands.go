package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/nonprofit-site/internal/client"
	"github.com/dom/nonprofit-site/internal/dashboard"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/guard"
	"github.com/dom/nonprofit-site/internal/session"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	errNotLoggedIn = errors.New("not logged in: run `siteadmin login` first")
	errNotAdmin    = errors.New("this command requires an admin account")
)

type app struct {
	apiURL string
	store  *session.Store
	in     *bufio.Reader
	out    io.Writer
}

func (a *app) commands() map[string]func([]string) error {
	return map[string]func([]string) error{
		"register":       a.registerCmd,
		"login":          a.loginCmd,
		"logout":         a.logoutCmd,
		"whoami":         a.whoamiCmd,
		"dashboard":      a.dashboardCmd,
		"contacts":       a.contactsCmd,
		"create-event":   a.createEventCmd,
		"create-project": a.createProjectCmd,
		"feature-event":  a.featureEventCmd,
		"update-project": a.updateProjectCmd,
		"delete-event":   a.deleteEventCmd,
		"delete-project": a.deleteProjectCmd,
		"delete-contact": a.deleteContactCmd,
		"submit-contact": a.submitContactCmd,
	}
}

func (a *app) api() *client.Client {
	return client.New(a.apiURL).WithToken(a.store.State().Token)
}

// require hydrates the stored session and applies the route guard to it.
func (a *app) require(req guard.Requirement) error {
	state := a.store.Hydrate()
	switch guard.Check(state, req) {
	case guard.Allow:
		return nil
	case guard.Forbidden:
		return errNotAdmin
	default:
		return errNotLoggedIn
	}
}

func (a *app) registerCmd(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := session.RegisterRequest{FirstName: *first, LastName: *last, Email: *email}
	var err error
	if req.FirstName == "" {
		if req.FirstName, err = promptLine(a.in, a.out, "First name"); err != nil {
			return err
		}
	}
	if req.LastName == "" {
		if req.LastName, err = promptLine(a.in, a.out, "Last name"); err != nil {
			return err
		}
	}
	if req.Email == "" {
		if req.Email, err = promptLine(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	if req.Password, err = promptPassword(a.out); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.store.Register(ctx, client.New(a.apiURL), req); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", a.store.State().User.Email)
	return nil
}

func (a *app) loginCmd(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = promptLine(a.in, a.out, "Email"); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.store.Login(ctx, client.New(a.apiURL), *email, password); err != nil {
		return describe(err)
	}

	state := a.store.State()
	role := "member"
	if state.IsAdmin() {
		role = "admin"
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", state.User.Email, role)
	return nil
}

func (a *app) logoutCmd(args []string) error {
	a.store.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) whoamiCmd(args []string) error {
	if err := a.require(guard.RequireAuth); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The stored token may have been issued by a server that no longer accepts it.
	user, err := a.api().Me(ctx)
	if err != nil {
		if client.StatusCode(err) == http.StatusUnauthorized {
			a.store.Logout()
			return errNotLoggedIn
		}
		return describe(err)
	}

	role := "member"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, role)
	return nil
}

func (a *app) dashboardCmd(args []string) error {
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := dashboard.NewBoard(a.api())
	if err := board.Refresh(ctx); err != nil {
		return describe(err)
	}

	stats := board.Stats()
	fmt.Fprintln(a.out, "=== Dashboard ===")
	fmt.Fprintf(a.out, "Events:   %d total, %d this month\n", stats.TotalEvents, stats.EventsThisMonth)
	fmt.Fprintf(a.out, "Projects: %d total, %d this month\n", stats.TotalProjects, stats.ProjectsThisMonth)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Recent activity:")
	if len(stats.RecentActivity) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, act := range stats.RecentActivity {
		fmt.Fprintf(a.out, "  %s  %-7s  %s  (%s)\n", act.CreatedAt.Format("2006-01-02"), act.Kind, act.Title, act.ID)
	}
	return nil
}

func (a *app) contactsCmd(args []string) error {
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	contacts, err := a.api().ListContacts(ctx)
	if err != nil {
		return describe(err)
	}
	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contact submissions")
		return nil
	}
	for _, c := range contacts {
		fmt.Fprintf(a.out, "%s  %s <%s>  %s  (%s)\n", c.Date.Format("2006-01-02 15:04"), c.Name, c.Email, c.Subject, c.ID)
	}
	return nil
}

func (a *app) createEventCmd(args []string) error {
	fs := flag.NewFlagSet("create-event", flag.ContinueOnError)
	title := fs.String("title", "", "Event title")
	description := fs.String("description", "", "Event description")
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD, defaults to --start)")
	at := fs.String("time", "", "Time of day, free text")
	location := fs.String("location", "", "Location")
	category := fs.String("category", "", "Category")
	image := fs.String("image", "", "Image URL or data URI")
	featured := fs.Bool("featured", false, "Feature on the home page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*start, *end)
	if err != nil {
		return err
	}
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := dashboard.NewBoard(a.api())
	if err := board.Refresh(ctx); err != nil {
		return describe(err)
	}
	created, err := board.CreateEvent(ctx, &domain.Event{
		Title:       *title,
		Description: *description,
		Scope:       datatypes.NewJSONType(scope),
		Time:        *at,
		Location:    *location,
		Category:    *category,
		Image:       *image,
		Featured:    *featured,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "Created event %s (%s), %d events total\n", created.Title, created.ID, board.Stats().TotalEvents)
	return nil
}

func (a *app) createProjectCmd(args []string) error {
	fs := flag.NewFlagSet("create-project", flag.ContinueOnError)
	title := fs.String("title", "", "Project title")
	description := fs.String("description", "", "Project description")
	start := fs.String("start", "", "Start date (YYYY-MM-DD)")
	end := fs.String("end", "", "End date (YYYY-MM-DD, defaults to --start)")
	leader := fs.String("leader", "", "Project leader")
	status := fs.String("status", "", "Planning, Active, Completed or On Hold (default Planning)")
	image := fs.String("image", "", "Image URL or data URI")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scope, err := parseScope(*start, *end)
	if err != nil {
		return err
	}
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := dashboard.NewBoard(a.api())
	if err := board.Refresh(ctx); err != nil {
		return describe(err)
	}
	created, err := board.CreateProject(ctx, &domain.Project{
		Title:       *title,
		Description: *description,
		Scope:       datatypes.NewJSONType(scope),
		Leader:      *leader,
		Image:       *image,
		Status:      domain.ProjectStatus(*status),
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "Created project %s (%s, %s), %d projects total\n", created.Title, created.Status, created.ID, board.Stats().TotalProjects)
	return nil
}

// featureEventCmd toggles the featured flag, sending the rest of the event back unchanged.
func (a *app) featureEventCmd(args []string) error {
	fs := flag.NewFlagSet("feature-event", flag.ContinueOnError)
	idFlag := fs.String("id", "", "Event id")
	off := fs.Bool("off", false, "Remove the featured flag instead of setting it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(*idFlag)
	if err != nil {
		return err
	}
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := a.api()
	event, err := api.GetEvent(ctx, id)
	if err != nil {
		return describe(err)
	}
	event.Featured = !*off
	updated, err := api.UpdateEvent(ctx, id, event)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "%s featured=%t\n", updated.Title, updated.Featured)
	return nil
}

func (a *app) updateProjectCmd(args []string) error {
	fs := flag.NewFlagSet("update-project", flag.ContinueOnError)
	idFlag := fs.String("id", "", "Project id")
	status := fs.String("status", "", "New status: Planning, Active, Completed or On Hold")
	leader := fs.String("leader", "", "New leader")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(*idFlag)
	if err != nil {
		return err
	}
	if *status == "" && *leader == "" {
		return errors.New("nothing to update: pass --status and/or --leader")
	}
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := a.api()
	project, err := api.GetProject(ctx, id)
	if err != nil {
		return describe(err)
	}
	if *status != "" {
		project.Status = domain.ProjectStatus(*status)
	}
	if *leader != "" {
		project.Leader = *leader
	}
	updated, err := api.UpdateProject(ctx, id, project)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "%s: status %s, leader %s\n", updated.Title, updated.Status, updated.Leader)
	return nil
}

func (a *app) deleteContactCmd(args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ContinueOnError)
	idFlag := fs.String("id", "", "Contact id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(*idFlag)
	if err != nil {
		return err
	}
	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.api().DeleteContact(ctx, id); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Deleted contact %s\n", id)
	return nil
}

// submitContactCmd posts to the public contact form; no login is needed.
func (a *app) submitContactCmd(args []string) error {
	fs := flag.NewFlagSet("submit-contact", flag.ContinueOnError)
	req := client.ContactRequest{}
	fs.StringVar(&req.Name, "name", "", "Sender name")
	fs.StringVar(&req.Email, "email", "", "Sender email")
	fs.StringVar(&req.Phone, "phone", "", "Sender phone")
	fs.StringVar(&req.Subject, "subject", "", "Subject")
	fs.StringVar(&req.Message, "message", "", "Message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	contact, err := client.New(a.apiURL).SubmitContact(ctx, req)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Submitted contact %s at %s\n", contact.ID, contact.Date.Format(time.RFC3339))
	return nil
}

func (a *app) deleteEventCmd(args []string) error {
	return a.deleteCmd("delete-event", args, func(ctx context.Context, b *dashboard.Board, id uuid.UUID) error {
		return b.DeleteEvent(ctx, id)
	})
}

func (a *app) deleteProjectCmd(args []string) error {
	return a.deleteCmd("delete-project", args, func(ctx context.Context, b *dashboard.Board, id uuid.UUID) error {
		return b.DeleteProject(ctx, id)
	})
}

func (a *app) deleteCmd(name string, args []string, del func(context.Context, *dashboard.Board, uuid.UUID) error) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	idFlag := fs.String("id", "", "Resource id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(*idFlag)
	if err != nil {
		return err
	}

	if err := a.require(guard.RequireAdmin); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board := dashboard.NewBoard(a.api())
	if err := board.Refresh(ctx); err != nil {
		return describe(err)
	}
	if err := del(ctx, board, id); err != nil {
		return describe(err)
	}

	stats := board.Stats()
	fmt.Fprintf(a.out, "Deleted %s (%d events, %d projects remain)\n", id, stats.TotalEvents, stats.TotalProjects)
	return nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--id must be a uuid: %w", err)
	}
	return id, nil
}

// parseScope reads --start and --end; an empty end means a one-day scope.
func parseScope(start, end string) (domain.Scope, error) {
	if start == "" {
		return domain.Scope{}, errors.New("--start is required")
	}
	if end == "" {
		end = start
	}
	startDate, err := domain.ParseScopeDate(start)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("--start: %w", err)
	}
	endDate, err := domain.ParseScopeDate(end)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("--end: %w", err)
	}
	return domain.Scope{StartDate: startDate, EndDate: endDate}, nil
}

// describe turns API errors into one-line messages, listing field problems.
func describe(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if len(apiErr.Fields) == 0 {
		return fmt.Errorf("%s", apiErr.Message)
	}
	msg := apiErr.Message
	for _, f := range apiErr.Fields {
		msg += fmt.Sprintf("\n  - %s %s", f.Field, f.Message)
	}
	return errors.New(msg)
}
