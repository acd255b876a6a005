// Package notification derives the dashboard badge counts. Like the
// calendar, a failing source degrades to zero for that badge instead of
// failing the whole lookup.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/tmukana/uongozi/core"
)

const (
	forumNotificationsTable = "forum_notifications"
	registrationsTable      = "event_registrations"
	applicationsTable       = "program_applications"
)

type Counts struct {
	Forum          int `json:"forum"`
	UpcomingEvents int `json:"upcoming_events"`
	Applications   int `json:"applications"`
}

func (c Counts) Total() int {
	return c.Forum + c.UpcomingEvents + c.Applications
}

type Service struct {
	qs     core.QueryService
	logger core.Logger
	clock  func() time.Time
}

func NewService(qs core.QueryService, logger core.Logger) *Service {
	return &Service{qs: qs, logger: logger, clock: time.Now}
}

// Counts builds the badge counts for one user.
func (svc *Service) Counts(ctx context.Context, userID string) Counts {
	var counts Counts
	if userID == "" {
		return counts
	}

	counts.Forum = svc.count(ctx, core.Query{
		Table: forumNotificationsTable,
		Filters: []core.Filter{
			core.Eq("user_id", userID),
			core.Eq("read", false),
		},
	})
	counts.UpcomingEvents = svc.count(ctx, core.Query{
		Table: registrationsTable,
		Filters: []core.Filter{
			core.Eq("user_id", userID),
			core.Gte("event_date", svc.clock().UTC()),
		},
	})
	counts.Applications = svc.count(ctx, core.Query{
		Table: applicationsTable,
		Filters: []core.Filter{
			core.Eq("user_id", userID),
			core.Eq("status", "received"),
		},
	})
	return counts
}

func (svc *Service) count(ctx context.Context, q core.Query) int {
	recs, err := svc.qs.Select(ctx, q)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("notification: %s count failed: %v", q.Table, err), err)
		return 0
	}
	return len(recs)
}
