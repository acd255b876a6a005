package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core/resource"
)

type resourceApi struct {
	svc *resource.Service
}

func registerResourceAPI(g *echo.Group, svc *resource.Service) {
	api := resourceApi{svc: svc}

	rg := g.Group("/resources")
	rg.GET("", api.query)
	rg.GET("/:slug/download", api.download)
}

// Handlers

func (api *resourceApi) query(ctx echo.Context) error {
	resources, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) download(ctx echo.Context) error {
	dl, err := api.svc.ResolveDownload(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "resolving download")
	}
	return ctx.Redirect(http.StatusFound, dl.URL)
}
