package server

import (
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// @Summary List notifications
// @Description Get the caller's notifications, newest first. Listing marks
// @Description them read; the returned items show their pre-read state.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	notifications, err := s.notificationService.List(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(notifications)
}

// ClearNotifications handles DELETE /api/notifications
// @Summary Clear notifications
// @Description Delete all of the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /notifications [delete]
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.notificationService.Clear(c.UserContext(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Notifications cleared"})
}
