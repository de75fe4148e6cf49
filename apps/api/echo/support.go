package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/support"
)

type supportApi struct {
	deps ServerDeps
}

func registerSupportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := supportApi{deps: deps}

	sg := g.Group("/support/tickets", jwt)

	sg.POST("", api.open)
	sg.GET("", api.query)
	sg.PUT("/:id/status", api.setStatus, adminMiddleware())
}

func (api *supportApi) open(ctx echo.Context) error {
	var data support.NewTicket
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTicket")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tkt, err := api.deps.SupportSvc.Open(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return errors.Wrap(err, "opening ticket")
	}
	return ctx.JSON(http.StatusCreated, tkt)
}

// query returns the tickets visible to the authenticated user: students get
// their own, staff gets all of them.
func (api *supportApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tickets, err := api.deps.SupportSvc.QueryVisible(ctx.Request().Context(), ctxUsr)
	if err != nil {
		return errors.Wrap(err, "querying tickets")
	}
	if tickets == nil {
		tickets = []support.Ticket{}
	}
	return ctx.JSON(http.StatusOK, tickets)
}

func (api *supportApi) setStatus(ctx echo.Context) error {
	var data support.StatusChange
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChange")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tkt, err := api.deps.SupportSvc.SetStatus(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == support.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating ticket status")
	}
	return ctx.JSON(http.StatusOK, tkt)
}
