package server

import (
	"even/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GlobalSearch handles GET /api/v1/search?q=
// @Summary Search users, hubs and published posts
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Success 200 {object} models.APIResponse{data=service.SearchResults}
// @Router /search [get]
func (s *Server) GlobalSearch(c *fiber.Ctx) error {
	results, err := s.searchService.GlobalSearch(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	if results == nil {
		return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "Empty query")
	}
	return models.RespondWithData(c, fiber.StatusOK, results, "Search results fetched")
}
