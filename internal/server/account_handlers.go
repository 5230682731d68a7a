package server

import (
	"trellis/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ChangePassword handles PUT /api/account/password
// @Summary Change password
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{current_password=string,new_password=string} true "Password change"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /account/password [put]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.accountService.ChangePassword(c.UserContext(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password updated",
	})
}

// RequestEmailChange handles POST /api/account/email
// @Summary Request an email change
// @Description Parks the new address; it becomes active once the emailed token is confirmed
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{email=string} true "New email address"
// @Success 202 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /account/email [post]
func (s *Server) RequestEmailChange(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.accountService.RequestEmailChange(c.UserContext(), currentUserID(c), req.Email)
	if err != nil {
		return mapServiceError(c, err)
	}

	// TODO: deliver the token by email once an outbound mail provider is
	// configured; until then the client relays it from this response.
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":            "Confirm the change with the emailed token",
		"confirmation_token": token,
	})
}

// ConfirmEmailChange handles POST /api/auth/email/confirm
// @Summary Confirm an email change
// @Tags account
// @Accept json
// @Produce json
// @Param request body object{token=string} true "Confirmation token"
// @Success 200 {object} object{message=string,email=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/email/confirm [post]
func (s *Server) ConfirmEmailChange(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.ConfirmEmailChange(c.UserContext(), req.Token)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email updated",
		"email":   user.Email,
	})
}

// DeleteAccount handles DELETE /api/account
// @Summary Delete account
// @Description Permanently removes the account and all journal data
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{password=string} true "Current password"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /account [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.accountService.DeleteAccount(c.UserContext(), currentUserID(c), req.Password); err != nil {
		return mapServiceError(c, err)
	}

	// The account is gone; revoke the token that authorized the deletion
	if claims, err := s.parseBearerClaims(c); err == nil {
		s.blacklistClaims(c, claims)
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}
