package main

import (
	"context"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()

	usrSvc := user.NewService(cli.qs)
	usr, err := usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	return cli.qs.Update(ctx, "users", usr.ID, core.Record{
		"password_hash": string(usr.PasswordHash),
	})
}
