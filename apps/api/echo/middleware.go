package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/user"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// rolesMiddleware allows users carrying a role with any of the given
// prefixes; admins always pass.
func rolesMiddleware(rolePrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin || claimsHaveRolePrefix(claims, rolePrefixes) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// staffMiddleware allows any non-student user.
func staffMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.StaffRoles...)
}

func professorMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleProfessor)
}

func financeMiddleware() echo.MiddlewareFunc {
	return rolesMiddleware(user.RoleFinance)
}

// selfOrStaffMiddleware allows staff and admins through, plus the user
// whose ID matches the :id path param.
func selfOrStaffMiddleware() echo.MiddlewareFunc {
	return selfOrStaffMiddlewareParam("id")
}

func selfOrStaffMiddlewareParam(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin || claimsHaveRolePrefix(claims, user.StaffRoles) || ctx.Param(param) == claims.Subject {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func claimsHaveRolePrefix(claims Claims, prefixes []string) bool {
	for _, role := range claims.Roles {
		for _, prefix := range prefixes {
			if strings.HasPrefix(role, prefix) {
				return true
			}
		}
	}
	return false
}
