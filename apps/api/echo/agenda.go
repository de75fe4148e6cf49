package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/agenda"
)

type agendaApi struct {
	deps ServerDeps
}

func registerAgendaAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := agendaApi{deps: deps}

	ag := g.Group("/agenda/events", jwt)

	ag.POST("", api.create, professorMiddleware())
	ag.GET("", api.query)
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *agendaApi) create(ctx echo.Context) error {
	var data agenda.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	e, err := api.deps.AgendaSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, e)
}

// query returns the calendar entries visible to the authenticated user,
// ordered by date.
func (api *agendaApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	events, err := api.deps.AgendaSvc.QueryVisible(ctx.Request().Context(), ctxUsr)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []agenda.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *agendaApi) destroy(ctx echo.Context) error {
	if err := api.deps.AgendaSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
