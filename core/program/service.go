package program

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

var (
	ErrNotFound = errors.New("program not found")
	ErrClosed   = errors.New("applications for this program are closed")
)

const (
	table             = "programs"
	applicationsTable = "program_applications"
)

type Service struct {
	qs     core.QueryService
	mail   core.EmailService
	logger core.Logger
}

func NewService(qs core.QueryService, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{qs: qs, mail: mailSvc, logger: logger}
}

// Open lists programs currently accepting applications, soonest start first.
func (svc *Service) Open(ctx context.Context) ([]Program, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   table,
		Filters: []core.Filter{core.Eq("status", StatusOpen)},
		Order:   &core.DBOrdering{Field: "start_date", Ascending: true},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying open programs")
	}

	programs := make([]Program, 0, len(recs))
	for _, rec := range recs {
		programs = append(programs, mapProgram(rec))
	}
	return programs, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Program, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   table,
		Filters: []core.Filter{core.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return Program{}, errors.Wrap(err, "querying program")
	}
	if len(recs) == 0 {
		return Program{}, ErrNotFound
	}
	return mapProgram(recs[0]), nil
}

// Apply validates and records an application for an open program, then sends
// the applicant a confirmation email.
func (svc *Service) Apply(ctx context.Context, programID string, na NewApplication) (Application, error) {
	if err := na.Validate(); err != nil {
		return Application{}, err
	}

	prog, err := svc.Get(ctx, programID)
	if err != nil {
		return Application{}, err
	}
	if prog.Status != StatusOpen {
		return Application{}, ErrClosed
	}
	if prog.Deadline.Valid && time.Now().UTC().After(prog.Deadline.Time) {
		return Application{}, ErrClosed
	}

	rec, err := svc.qs.Insert(ctx, applicationsTable, core.Record{
		"program_id": prog.ID,
		"full_name":  core.CleanString(na.FullName),
		"email":      core.CleanString(na.Email, true /* lower */),
		"phone":      core.CleanString(na.Phone),
		"motivation": core.CleanString(na.Motivation),
		"status":     ApplicationReceived,
	})
	if err != nil {
		return Application{}, errors.Wrap(err, "inserting application")
	}
	app := mapApplication(rec)

	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: app.FullName, Address: app.Email}},
		Subject: fmt.Sprintf("Your application to %s", prog.Title),
		BodyStr: fmt.Sprintf(
			"Hello %s,\n\nWe received your application to %s. "+
				"The program team will be in touch after the review.\n\nUongozi",
			app.FullName, prog.Title,
		),
	})
	return app, nil
}

func (na NewApplication) Validate() error {
	return core.Validate.Struct(na)
}

func mapProgram(rec core.Record) Program {
	prog := Program{
		ID:          rec.String("id"),
		Title:       rec.String("title"),
		Summary:     rec.NullString("summary"),
		Status:      rec.String("status"),
		IsResidency: rec.Bool("is_residency"),
	}
	if t, ok := rec.Time("start_date"); ok {
		prog.StartDate = t
	}
	if t, ok := rec.Time("deadline"); ok {
		prog.Deadline.SetValid(t)
	}
	return prog
}

func mapApplication(rec core.Record) Application {
	app := Application{
		ID:         rec.String("id"),
		ProgramID:  rec.String("program_id"),
		FullName:   rec.String("full_name"),
		Email:      rec.String("email"),
		Phone:      rec.String("phone"),
		Motivation: rec.String("motivation"),
		Status:     rec.String("status"),
	}
	if t, ok := rec.Time("created_at"); ok {
		app.CreatedAt = t
	}
	return app
}
