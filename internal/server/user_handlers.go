package server

import (
	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/v1/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetMe(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user, "Current user fetched successfully")
}

// GetUserProfile handles GET /api/v1/users/p/:username
// @Summary Public profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/p/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user, "User profile fetched successfully")
}

// UpdateAccount handles PATCH /api/v1/users/update-account
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{fullName=string,bio=string,avatar=string} true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/update-account [patch]
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullName"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	user, err := s.userService.UpdateAccount(c.UserContext(), actorFrom(c), service.UpdateAccountInput{
		FullName: req.FullName,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user, "Account details updated successfully")
}
