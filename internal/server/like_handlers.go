package server

import (
	"even/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/v1/likes/:postId
// @Summary Like or dislike a post
// @Description Sending the current reaction again removes it; sending the other one switches.
// @Tags likes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body object{type=string} true "like or dislike"
// @Success 200 {object} models.APIResponse{data=service.ToggleLikeResult}
// @Failure 400 {object} models.ErrorResponse
// @Router /likes/{postId} [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Type models.LikeType `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	result, err := s.likeService.ToggleLike(c.UserContext(), actorFrom(c), postID, req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, result.Message())
}

// GetLikeStatus handles GET /api/v1/likes/:postId/status
// @Summary Caller's reaction to a post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=service.LikeStatus}
// @Router /likes/{postId}/status [get]
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	status, err := s.likeService.GetLikeStatus(c.UserContext(), actorFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, status, "Like status fetched")
}
