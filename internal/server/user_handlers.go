package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/profile/:username
// @Summary User profile
// @Description Get a user's public profile with follower counts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} service.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/profile/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetProfile(c.UserContext(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// GetSuggestedUsers handles GET /api/users/suggested
// @Summary Suggested users
// @Description Get users the caller does not yet follow
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/suggested [get]
func (s *Server) GetSuggestedUsers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	suggested, err := s.userService.SuggestedUsers(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(suggested)
}

// UpdateUser handles POST /api/users/update
// @Summary Update profile
// @Description Update the caller's profile fields, password, and images
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param full_name formData string false "Full name"
// @Param email formData string false "Email"
// @Param username formData string false "Username"
// @Param bio formData string false "Bio"
// @Param link formData string false "Link"
// @Param current_password formData string false "Current password"
// @Param new_password formData string false "New password"
// @Param avatar formData file false "Avatar image"
// @Param cover_img formData file false "Cover image"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/update [post]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	in := service.UpdateProfileInput{UserID: userID}

	if c.Is("multipart") {
		in.FullName = c.FormValue("full_name")
		in.Email = c.FormValue("email")
		in.Username = c.FormValue("username")
		in.Bio = c.FormValue("bio")
		in.Link = c.FormValue("link")
		in.CurrentPassword = c.FormValue("current_password")
		in.NewPassword = c.FormValue("new_password")

		avatar, err := formUpload(c, "avatar")
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid avatar upload"))
		}
		in.Avatar = avatar

		coverImg, err := formUpload(c, "cover_img")
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid cover image upload"))
		}
		in.CoverImg = coverImg
	} else {
		var req struct {
			FullName        string `json:"full_name"`
			Email           string `json:"email"`
			Username        string `json:"username"`
			Bio             string `json:"bio"`
			Link            string `json:"link"`
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.FullName = req.FullName
		in.Email = req.Email
		in.Username = req.Username
		in.Bio = req.Bio
		in.Link = req.Link
		in.CurrentPassword = req.CurrentPassword
		in.NewPassword = req.NewPassword
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// FollowUnfollowUser handles PUT /api/users/:id/follow
// @Summary Follow or unfollow a user
// @Description Toggle the caller's follow edge toward the target user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} object{following=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [put]
func (s *Server) FollowUnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.engagementService.FollowUnfollow(c.UserContext(), userID, targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}
