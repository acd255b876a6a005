package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/mentorship"
)

type mentorshipApi struct {
	svc *mentorship.Service
}

func registerMentorshipAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *mentorship.Service) {
	api := mentorshipApi{svc: svc}

	mg := g.Group("/mentorship")

	// un-authed endpoints
	mg.GET("/mentors", api.queryMentors)
	mg.POST("/requests", api.request)

	// matching is an admin action
	ag := mg.Group("", jwt)
	ag.POST("/requests/:id/match", api.match, adminMiddleware())
}

// Handlers

func (api *mentorshipApi) queryMentors(ctx echo.Context) error {
	mentors, err := api.svc.Mentors(ctx.Request().Context(), ctx.QueryParam("focus"))
	if err != nil {
		return errors.Wrap(err, "querying mentors")
	}
	return ctx.JSON(http.StatusOK, mentors)
}

func (api *mentorshipApi) request(ctx echo.Context) error {
	var data mentorship.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	req, err := api.svc.Request(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *mentorshipApi) match(ctx echo.Context) error {
	match, err := api.svc.Match(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case mentorship.ErrRequestNotFound:
			return errHttpNotFound
		case mentorship.ErrAlreadyMatched, mentorship.ErrNoMentors:
			return core.NewValidationError(errors.Cause(err))
		}
		return errors.Wrap(err, "matching request")
	}
	return ctx.JSON(http.StatusCreated, match)
}
