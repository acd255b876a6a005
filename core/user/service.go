package user

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

var ErrNotFound = errors.New("user not found")

const table = "users"

// Service is the Identity Service: it resolves the current user and their
// roles from the backend users table. Account management itself lives with
// the hosted backend, not here.
type Service struct {
	qs core.QueryService
}

func NewService(qs core.QueryService) *Service {
	return &Service{qs: qs}
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.getOne(ctx, core.Eq("id", id))
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	uname = core.CleanString(uname, true /* lower */)
	usr, err := svc.getOne(ctx, core.Eq("username", uname))
	if err == nil || errors.Cause(err) != ErrNotFound {
		return usr, err
	}
	return svc.getOne(ctx, core.Eq("email", uname))
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	err := svc.qs.Update(ctx, table, usr.ID, core.Record{"last_login": usr.LastLogin})
	return usr, errors.Wrap(err, "updating last login")
}

func (svc *Service) getOne(ctx context.Context, filter core.Filter) (User, error) {
	recs, err := svc.qs.Select(ctx, core.Query{
		Table:   table,
		Filters: []core.Filter{filter},
		Limit:   1,
	})
	if err != nil {
		return User{}, errors.Wrap(err, "querying users")
	}
	if len(recs) == 0 {
		return User{}, ErrNotFound
	}
	return mapUser(recs[0]), nil
}

func mapUser(rec core.Record) User {
	usr := User{
		ID:           rec.String("id"),
		Name:         rec.String("name"),
		Username:     rec.String("username"),
		Email:        rec.String("email"),
		IsActive:     rec.Bool("is_active"),
		PasswordHash: []byte(rec.String("password_hash")),
	}
	// roles are stored as a comma-separated list in the backend table
	if raw := rec.String("roles"); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				usr.Roles = append(usr.Roles, role)
			}
		}
	}
	if t, ok := rec.Time("created_at"); ok {
		usr.CreatedAt = t
	}
	if t, ok := rec.Time("updated_at"); ok {
		usr.UpdatedAt = t
	}
	if t, ok := rec.Time("last_login"); ok {
		usr.LastLogin = t
	}
	return usr
}
