package mentorship

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

var (
	ErrRequestNotFound = errors.New("mentorship request not found")
	ErrAlreadyMatched  = errors.New("request already matched")
	ErrNoMentors       = errors.New("no mentor available for this focus area")
)

const (
	mentorsTable  = "mentors"
	requestsTable = "mentorship_requests"
	matchesTable  = "mentorship_matches"
)

type Service struct {
	qs     core.QueryService
	mail   core.EmailService
	logger core.Logger
}

func NewService(qs core.QueryService, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{qs: qs, mail: mailSvc, logger: logger}
}

// Mentors lists active mentors, optionally narrowed to one focus area.
func (svc *Service) Mentors(ctx context.Context, focusArea string) ([]Mentor, error) {
	filters := []core.Filter{core.Eq("active", true)}
	if focusArea != "" {
		filters = append(filters, core.Eq("focus_area", focusArea))
	}
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   mentorsTable,
		Filters: filters,
		Order:   &core.DBOrdering{Field: "name", Ascending: true},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying mentors")
	}

	mentors := make([]Mentor, 0, len(recs))
	for _, rec := range recs {
		mentors = append(mentors, mapMentor(rec))
	}
	return mentors, nil
}

// Request records a mentee's mentorship request.
func (svc *Service) Request(ctx context.Context, nr NewRequest) (Request, error) {
	if err := core.Validate.Struct(nr); err != nil {
		return Request{}, err
	}
	rec, err := svc.qs.Insert(ctx, requestsTable, core.Record{
		"mentee_name":  core.CleanString(nr.MenteeName),
		"mentee_email": core.CleanString(nr.MenteeEmail, true /* lower */),
		"focus_area":   core.CleanString(nr.FocusArea, true),
		"status":       RequestPending,
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "inserting mentorship request")
	}
	return mapRequest(rec), nil
}

// Match pairs a pending request with the least-loaded active mentor sharing
// its focus area, records the match and notifies both parties.
func (svc *Service) Match(ctx context.Context, requestID string) (Match, error) {
	req, err := svc.getRequest(ctx, requestID)
	if err != nil {
		return Match{}, err
	}
	if req.Status != RequestPending {
		return Match{}, ErrAlreadyMatched
	}

	mentors, err := svc.Mentors(ctx, req.FocusArea)
	if err != nil {
		return Match{}, err
	}

	mentor, err := svc.pickLeastLoaded(ctx, mentors)
	if err != nil {
		return Match{}, err
	}

	rec, err := svc.qs.Insert(ctx, matchesTable, core.Record{
		"request_id": req.ID,
		"mentor_id":  mentor.ID,
	})
	if err != nil {
		return Match{}, errors.Wrap(err, "inserting match")
	}
	if err = svc.qs.Update(ctx, requestsTable, req.ID, core.Record{"status": RequestMatched}); err != nil {
		return Match{}, errors.Wrap(err, "updating request status")
	}

	svc.mail.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: req.MenteeName, Address: req.MenteeEmail}},
			Subject: "You have been matched with a mentor",
			BodyStr: fmt.Sprintf("Hello %s,\n\n%s will walk with you on %s. Expect an email from them shortly.\n\nUongozi", req.MenteeName, mentor.Name, req.FocusArea),
		},
		&core.EmailMessage{
			To:      []mail.Address{{Name: mentor.Name, Address: mentor.Email}},
			Subject: "New mentee matched to you",
			BodyStr: fmt.Sprintf("Hello %s,\n\n%s (%s) has been matched to you for %s.\n\nUongozi", mentor.Name, req.MenteeName, req.MenteeEmail, req.FocusArea),
		},
	)

	match := Match{ID: rec.String("id"), RequestID: req.ID, MentorID: mentor.ID}
	if t, ok := rec.Time("created_at"); ok {
		match.CreatedAt = t
	}
	return match, nil
}

// pickLeastLoaded returns the mentor with the most remaining capacity;
// mentors at or over capacity are skipped.
func (svc *Service) pickLeastLoaded(ctx context.Context, mentors []Mentor) (Mentor, error) {
	var (
		best     Mentor
		bestFree = -1
	)
	for _, m := range mentors {
		matches, err := svc.qs.Select(ctx, core.Query{
			Table:   matchesTable,
			Filters: []core.Filter{core.Eq("mentor_id", m.ID)},
		})
		if err != nil {
			return Mentor{}, errors.Wrap(err, "counting mentor matches")
		}
		if free := m.Capacity - len(matches); free > bestFree && free > 0 {
			best, bestFree = m, free
		}
	}
	if bestFree < 1 {
		return Mentor{}, ErrNoMentors
	}
	return best, nil
}

func (svc *Service) getRequest(ctx context.Context, id string) (Request, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   requestsTable,
		Filters: []core.Filter{core.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return Request{}, errors.Wrap(err, "querying request")
	}
	if len(recs) == 0 {
		return Request{}, ErrRequestNotFound
	}
	return mapRequest(recs[0]), nil
}

func mapMentor(rec core.Record) Mentor {
	return Mentor{
		ID:        rec.String("id"),
		UserID:    rec.String("user_id"),
		Name:      rec.String("name"),
		Email:     rec.String("email"),
		FocusArea: rec.String("focus_area"),
		Bio:       rec.NullString("bio"),
		Capacity:  rec.Int("capacity"),
		Active:    rec.Bool("active"),
	}
}

func mapRequest(rec core.Record) Request {
	req := Request{
		ID:          rec.String("id"),
		MenteeName:  rec.String("mentee_name"),
		MenteeEmail: rec.String("mentee_email"),
		FocusArea:   rec.String("focus_area"),
		Status:      rec.String("status"),
	}
	if t, ok := rec.Time("created_at"); ok {
		req.CreatedAt = t
	}
	return req
}
