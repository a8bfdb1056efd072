package server

import (
	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Summary    string            `json:"summary"`
	CoverImage string            `json:"coverImage"`
	TechHubID  uint              `json:"techHubId"`
	Tags       []string          `json:"tags"`
	Status     models.PostStatus `json:"status"`
}

// ListPosts handles GET /api/v1/posts
// @Summary Published feed
// @Tags posts
// @Produce json
// @Param hub query string false "Hub slug"
// @Param author query int false "Author ID"
// @Param tag query string false "Tag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse{data=service.PostPage}
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page, limit := parsePage(c)
	author := c.QueryInt("author", 0)
	if author < 0 {
		author = 0
	}

	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Hub:      c.Query("hub"),
		AuthorID: uint(author),
		Tag:      c.Query("tag"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "Posts fetched successfully")
}

// GetPost handles GET /api/v1/posts/:slug
// @Summary Get a post by slug
// @Description Drafts are only visible to their author.
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.APIResponse{data=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPostBySlug(c.UserContext(), actorFrom(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post, "Post fetched successfully")
}

// CreatePost handles POST /api/v1/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post"
// @Success 201 {object} models.APIResponse{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	post, err := s.postService.CreatePost(c.UserContext(), actorFrom(c), service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CoverImage: req.CoverImage,
		TechHubID:  req.TechHubID,
		Tags:       req.Tags,
		Status:     req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, post, "Post created successfully")
}

// UpdatePost handles PATCH /api/v1/posts/:id
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body postRequest true "Fields to change"
// @Success 200 {object} models.APIResponse{data=models.Post}
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), actorFrom(c), service.UpdatePostInput{
		PostID:     postID,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CoverImage: req.CoverImage,
		Status:     req.Status,
		Tags:       req.Tags,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post, "Post updated successfully")
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), actorFrom(c), postID); err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "Post deleted successfully")
}
