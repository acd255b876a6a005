package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tmukana/uongozi/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}
	g.GET("/notifications/counts", api.counts, jwt)
}

func (api *notificationApi) counts(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Counts(ctx.Request().Context(), claims.Subject))
}
