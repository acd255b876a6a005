package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core/forum"
)

type forumApi struct {
	svc *forum.Service
}

func registerForumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *forum.Service) {
	api := forumApi{svc: svc}

	fg := g.Group("/forum")

	// reading is public
	fg.GET("/categories", api.queryCategories)
	fg.GET("/categories/:id/threads", api.queryThreads)
	fg.GET("/threads/:id/posts", api.queryPosts)

	// posting requires an account
	ag := fg.Group("", jwt)
	ag.POST("/categories/:id/threads", api.createThread)
	ag.POST("/threads/:id/posts", api.createPost)
}

// Handlers

func (api *forumApi) queryCategories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *forumApi) queryThreads(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	threads, err := api.svc.Threads(ctx.Request().Context(), ctx.Param("id"), limit)
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	return ctx.JSON(http.StatusOK, threads)
}

func (api *forumApi) queryPosts(ctx echo.Context) error {
	posts, err := api.svc.Posts(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *forumApi) createThread(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data forum.NewThread
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewThread")
	}

	thread, err := api.svc.CreateThread(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == forum.ErrCategoryNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, thread)
}

func (api *forumApi) createPost(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data forum.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}

	post, err := api.svc.CreatePost(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == forum.ErrThreadNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, post)
}
