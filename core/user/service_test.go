package user

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmukana/uongozi/core"
	memoryqs "github.com/tmukana/uongozi/storage/query/memory"
)

func seedUser(t *testing.T, qs *memoryqs.Service) User {
	t.Helper()
	usr := User{ID: "u1", Username: "neema", Email: "neema@example.com", IsActive: true}
	if err := usr.SetPassword("hunter2!"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	qs.Load("users", core.Record{
		"id":            usr.ID,
		"username":      usr.Username,
		"email":         usr.Email,
		"is_active":     true,
		"roles":         "member:, mentor:",
		"password_hash": string(usr.PasswordHash),
	})
	return usr
}

func TestGetByUsernameOrEmail(t *testing.T) {
	qs := memoryqs.Open()
	seedUser(t, qs)
	svc := NewService(qs)
	ctx := context.Background()

	byUname, err := svc.GetByUsernameOrEmail(ctx, "  NEEMA ")
	require.NoError(t, err, "lookup is trimmed and case-insensitive")
	assert.Equal(t, "u1", byUname.ID)

	byEmail, err := svc.GetByUsernameOrEmail(ctx, "neema@example.com")
	require.NoError(t, err, "falls back to email when username misses")
	assert.Equal(t, "u1", byEmail.ID)

	_, err = svc.GetByUsernameOrEmail(ctx, "ghost")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestRolesParsing(t *testing.T) {
	qs := memoryqs.Open()
	seedUser(t, qs)
	svc := NewService(qs)

	usr, err := svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"member:", "mentor:"}, usr.Roles)
	assert.True(t, usr.IsMember())
	assert.True(t, usr.IsMentor())
	assert.False(t, usr.IsAdmin())
}

func TestCheckPassword(t *testing.T) {
	qs := memoryqs.Open()
	seedUser(t, qs)
	svc := NewService(qs)

	usr, err := svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("hunter2!"))
	assert.Error(t, usr.CheckPassword("wrong"))
}

func TestSetLastLogin(t *testing.T) {
	qs := memoryqs.Open()
	usr := seedUser(t, qs)
	svc := NewService(qs)
	ctx := context.Background()

	usr, err := svc.SetLastLogin(ctx, usr)
	require.NoError(t, err)
	assert.False(t, usr.LastLogin.IsZero())

	stored, err := svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.LastLogin, stored.LastLogin)
}
