package middlewares

import (
	"CourseShelf/services"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler converts service errors into structured JSON responses.
// This is the only place error kinds are mapped to HTTP status codes;
// handlers just return what the services gave them.
func ErrorHandler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			if c.Response().Committed {
				return err
			}

			// Let Echo's own errors (404 route, 413 body limit, ...)
			// flow to the default handler.
			if _, ok := err.(*echo.HTTPError); ok {
				return err
			}

			status := http.StatusInternalServerError
			message := "Failed to process request"
			switch services.KindOf(err) {
			case services.KindValidation:
				status = http.StatusBadRequest
				message = services.MessageOf(err)
			case services.KindNotFound:
				status = http.StatusNotFound
				message = services.MessageOf(err)
			case services.KindUnauthorized:
				status = http.StatusUnauthorized
				message = services.MessageOf(err)
			default:
				logrus.Error("Error request: ", err)
			}
			return c.JSON(status, echo.Map{"success": false, "message": message})
		}
	}
}
