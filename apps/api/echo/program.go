package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/program"
)

type programApi struct {
	svc *program.Service
}

func registerProgramAPI(g *echo.Group, svc *program.Service) {
	api := programApi{svc: svc}

	pg := g.Group("/programs")

	// applications are open to visitors, no account needed
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.POST("/:id/apply", api.apply)
}

// Handlers

func (api *programApi) query(ctx echo.Context) error {
	programs, err := api.svc.Open(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying open programs")
	}
	return ctx.JSON(http.StatusOK, programs)
}

func (api *programApi) retrieve(ctx echo.Context) error {
	prog, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding program by ID")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *programApi) apply(ctx echo.Context) error {
	var data program.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}

	app, err := api.svc.Apply(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case program.ErrNotFound:
			return errHttpNotFound
		case program.ErrClosed:
			return core.NewValidationError(program.ErrClosed)
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, app)
}
