package server

import (
	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListHubs handles GET /api/v1/hubs
// @Summary List tech hubs
// @Tags hubs
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.TechHub}
// @Router /hubs [get]
func (s *Server) ListHubs(c *fiber.Ctx) error {
	hubs, err := s.hubService.ListHubs(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if hubs == nil {
		hubs = []models.TechHub{}
	}
	return models.RespondWithData(c, fiber.StatusOK, hubs, "Tech Hubs fetched successfully")
}

// GetHub handles GET /api/v1/hubs/:slug
// @Summary Get a tech hub
// @Tags hubs
// @Produce json
// @Param slug path string true "Hub slug"
// @Success 200 {object} models.APIResponse{data=models.TechHub}
// @Failure 404 {object} models.ErrorResponse
// @Router /hubs/{slug} [get]
func (s *Server) GetHub(c *fiber.Ctx) error {
	hub, err := s.hubService.GetHubBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, hub, "Tech Hub fetched successfully")
}

// GetHubPosts handles GET /api/v1/hubs/:slug/posts
// @Summary Published posts in a hub
// @Tags hubs
// @Produce json
// @Param slug path string true "Hub slug"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse{data=service.PostPage}
// @Router /hubs/{slug}/posts [get]
func (s *Server) GetHubPosts(c *fiber.Ctx) error {
	page, limit := parsePage(c)
	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Hub:   c.Params("slug"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "Posts fetched successfully")
}

// CreateHub handles POST /api/v1/hubs
// @Summary Create a tech hub
// @Tags hubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,description=string,image=string} true "Hub"
// @Success 201 {object} models.APIResponse{data=models.TechHub}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /hubs [post]
func (s *Server) CreateHub(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	hub, err := s.hubService.CreateHub(c.UserContext(), actorFrom(c), service.CreateHubInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, hub, "Tech Hub created successfully")
}
