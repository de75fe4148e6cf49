package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/billing"
)

type billingApi struct {
	deps ServerDeps
}

func registerBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := billingApi{deps: deps}

	bg := g.Group("/billing", jwt)

	bg.POST("", api.create, financeMiddleware())
	bg.GET("", api.query, financeMiddleware())
	bg.GET("/summary/:studentId", api.studentSummary, financeMiddleware())
	bg.GET("/methods", api.queryMethods)
	bg.GET("/mine", api.mine)

	dg := bg.Group("/:id")
	dg.GET("", api.retrieve, financeMiddleware())
	dg.POST("/payments", api.addPayment, financeMiddleware())
	dg.POST("/mark-paid", api.markPaid, financeMiddleware())
	dg.PUT("/status", api.setStatus, financeMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *billingApi) create(ctx echo.Context) error {
	var data billing.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rec, err := api.deps.BillingSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating financial record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *billingApi) query(ctx echo.Context) error {
	filter := new(billing.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []billing.FinancialRecord{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	recs, err := api.deps.BillingSvc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying financial records")
	}
	if recs == nil {
		recs = []billing.FinancialRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

// mine returns the authenticated student's own records.
func (api *billingApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	recs, err := api.deps.BillingSvc.Query(ctx.Request().Context(), billing.QueryFilter{StudentID: claims.Subject})
	if err != nil {
		return errors.Wrap(err, "querying financial records")
	}
	if recs == nil {
		recs = []billing.FinancialRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *billingApi) queryMethods(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, billing.AllMethods)
}

func (api *billingApi) retrieve(ctx echo.Context) error {
	rec, err := api.deps.BillingSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == billing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting financial record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *billingApi) addPayment(ctx echo.Context) error {
	var data billing.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rec, err := api.deps.BillingSvc.AddPayment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == billing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding payment")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *billingApi) markPaid(ctx echo.Context) error {
	rec, err := api.deps.BillingSvc.MarkPaid(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == billing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking record paid")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *billingApi) setStatus(ctx echo.Context) error {
	var data struct {
		Status billing.Status `json:"status" validate:"required,billstatus"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding status")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	rec, err := api.deps.BillingSvc.SetStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		if errors.Cause(err) == billing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting record status")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *billingApi) studentSummary(ctx echo.Context) error {
	summary, err := api.deps.BillingSvc.StudentSummary(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "summarizing student records")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *billingApi) destroy(ctx echo.Context) error {
	if err := api.deps.BillingSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting financial record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
