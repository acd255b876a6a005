package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.GET("/me", api.me)
	ag.GET("/roles", api.queryRoles, adminMiddleware())
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}
