package controllers

import (
	"CourseShelf/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AuthController serves the credential endpoints.
type AuthController struct {
	Credentials *services.CredentialService
}

// NewAuthController creates a new instance of AuthController.
func NewAuthController(creds *services.CredentialService) *AuthController {
	return &AuthController{Credentials: creds}
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// VerifyPassword checks a candidate password against the stored admin
// credential.
func (ctl *AuthController) VerifyPassword(c echo.Context) error {
	var req verifyPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	if err := ctl.Credentials.Verify(c.Request().Context(), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ChangePassword rotates the admin credential. The route is behind the
// admin gate, and the old password in the body is verified again as part
// of the rotate itself.
func (ctl *AuthController) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	if err := ctl.Credentials.Rotate(c.Request().Context(), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated successfully"})
}
