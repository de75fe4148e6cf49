package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/attendance"
)

type attendanceApi struct {
	deps ServerDeps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{deps: deps}

	ag := g.Group("/attendance", jwt)

	ag.POST("", api.save, professorMiddleware())
	ag.GET("/sheet", api.retrieveSheet, staffMiddleware())
	ag.GET("/students/:studentId", api.studentHistory, selfOrStaffMiddlewareParam("studentId"))
}

// save upserts the roll call for a (date, subject, class) tuple.
func (api *attendanceApi) save(ctx echo.Context) error {
	var data attendance.NewSheet
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSheet")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() && !ctxUsr.Lectures(data.SubjectID) {
		return errHttpForbidden
	}

	sheet, err := api.deps.AttendanceSvc.Save(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving attendance sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) retrieveSheet(ctx echo.Context) error {
	sheet, err := api.deps.AttendanceSvc.Get(
		ctx.Request().Context(),
		ctx.QueryParam("date"),
		ctx.QueryParam("subject_id"),
		ctx.QueryParam("class_id"),
	)
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting attendance sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	records, err := api.deps.AttendanceSvc.StudentHistory(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	if records == nil {
		records = []attendance.StudentRecord{}
	}
	return ctx.JSON(http.StatusOK, records)
}
