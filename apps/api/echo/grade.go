package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/grade"
	"github.com/tmbureta/academia/core/user"
)

type gradeApi struct {
	deps ServerDeps
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{deps: deps}

	gg := g.Group("/grades", jwt)

	gg.POST("/:studentId/:subjectId", api.record, professorMiddleware())
	gg.GET("", api.query, staffMiddleware())
	gg.GET("/mine", api.mine)
	gg.GET("/:id", api.retrieve, staffMiddleware())
	gg.PUT("/:id/published", api.setPublished, professorMiddleware())
}

// record enters scores for a (student, subject) pair; professors may
// only grade subjects they lecture.
func (api *gradeApi) record(ctx echo.Context) error {
	var data grade.ScoreUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreUpdate")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	subjectID := ctx.Param("subjectId")
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() && !ctxUsr.Lectures(subjectID) {
		return errHttpForbidden
	}

	g, err := api.deps.GradeSvc.Record(ctx.Request().Context(), ctx.Param("studentId"), subjectID, data)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) query(ctx echo.Context) error {
	filter := new(grade.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []grade.Grade{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	grades, err := api.deps.GradeSvc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

// mine returns the authenticated student's own published grades.
func (api *gradeApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := grade.QueryFilter{StudentID: claims.Subject, PublishedOnly: true}
	grades, err := api.deps.GradeSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	g, err := api.deps.GradeSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) setPublished(ctx echo.Context) error {
	var data struct {
		Published *bool `json:"published" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding published flag")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	g, err := api.deps.GradeSvc.SetPublished(ctx.Request().Context(), ctx.Param("id"), *data.Published)
	if err != nil {
		if errors.Cause(err) == grade.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "publishing grade")
	}
	return ctx.JSON(http.StatusOK, g)
}
