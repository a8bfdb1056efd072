package server

import (
	"net/url"

	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

const viewedPostsMaxAge = 3600

// TrackView handles POST /api/v1/analytics/view/:postId
// @Summary Count a post view
// @Description Counts at most one view per post while the viewed_posts cookie lives.
// @Tags analytics
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=service.ViewResult}
// @Failure 404 {object} models.ErrorResponse
// @Router /analytics/view/{postId} [post]
func (s *Server) TrackView(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	viewed, err := url.QueryUnescape(c.Cookies(service.ViewedPostsCookie))
	if err != nil {
		viewed = ""
	}

	result, cookie, err := s.analyticsService.TrackView(c.UserContext(), postID, viewed)
	if err != nil {
		return respondError(c, err)
	}
	if !result.Viewed {
		return models.RespondWithData(c, fiber.StatusOK, result, "Already viewed recently")
	}

	c.Cookie(&fiber.Cookie{
		Name:     service.ViewedPostsCookie,
		Value:    url.QueryEscape(cookie),
		Path:     "/",
		MaxAge:   viewedPostsMaxAge,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return models.RespondWithData(c, fiber.StatusOK, result, "View counted")
}

// GetTrending handles GET /api/v1/analytics/trending
// @Summary Most viewed published posts
// @Tags analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.Post}
// @Router /analytics/trending [get]
func (s *Server) GetTrending(c *fiber.Ctx) error {
	posts, err := s.analyticsService.Trending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return models.RespondWithData(c, fiber.StatusOK, posts, "Trending posts fetched")
}

// SharePost handles POST /api/v1/share/:postId
// @Summary Count a share and build social links
// @Tags analytics
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=service.ShareLinks}
// @Failure 404 {object} models.ErrorResponse
// @Router /share/{postId} [post]
func (s *Server) SharePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	links, err := s.analyticsService.Share(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, links, "Share links generated successfully")
}
