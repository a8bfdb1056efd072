package server

import (
	"even/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleBookmark handles POST /api/v1/bookmarks/:postId
// @Summary Save or unsave a post
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=service.BookmarkState}
// @Router /bookmarks/{postId} [post]
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	state, err := s.bookmarkService.ToggleBookmark(c.UserContext(), actorFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Post removed from bookmarks"
	if state.IsBookmarked {
		msg = "Post saved to bookmarks"
	}
	return models.RespondWithData(c, fiber.StatusOK, state, msg)
}

// GetBookmarkStatus handles GET /api/v1/bookmarks/:postId/status
// @Summary Whether the caller saved a post
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=service.BookmarkState}
// @Router /bookmarks/{postId}/status [get]
func (s *Server) GetBookmarkStatus(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	state, err := s.bookmarkService.GetBookmarkStatus(c.UserContext(), actorFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, state, "Bookmark status fetched")
}

// ListBookmarks handles GET /api/v1/bookmarks
// @Summary Saved posts, most recently saved first
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Post}
// @Router /bookmarks [get]
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	posts, err := s.bookmarkService.ListBookmarks(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return models.RespondWithData(c, fiber.StatusOK, posts, "Bookmarks fetched successfully")
}
