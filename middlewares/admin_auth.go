package middlewares

import (
	"CourseShelf/services"

	"github.com/labstack/echo/v4"
)

// AdminPasswordHeader carries the shared admin credential on mutating
// requests. It is re-verified on every request; there are no sessions.
const AdminPasswordHeader = "X-Admin-Password"

// RequireAdmin rejects the request unless the admin password header
// verifies against the credential store. A missing header gets the same
// generic rejection as a wrong one.
func RequireAdmin(creds *services.CredentialService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			password := c.Request().Header.Get(AdminPasswordHeader)
			if err := creds.Verify(c.Request().Context(), password); err != nil {
				return err
			}
			return next(c)
		}
	}
}
