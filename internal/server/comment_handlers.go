package server

import (
	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

// GetComments handles GET /api/v1/comments/:postId
// @Summary Top-level comments on a post
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse{data=service.CommentPage}
// @Router /comments/{postId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	page, limit := parsePage(c)
	result, err := s.commentService.ListComments(c.UserContext(), postID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "Comments fetched successfully")
}

// AddComment handles POST /api/v1/comments/:postId
// @Summary Comment on a post or reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} models.APIResponse{data=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{postId} [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}
	if req.ParentCommentID != nil && *req.ParentCommentID == 0 {
		req.ParentCommentID = nil
	}

	comment, err := s.commentService.AddComment(c.UserContext(), actorFrom(c), service.CreateCommentInput{
		PostID:          postID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	msg := "Comment added successfully"
	if req.ParentCommentID != nil {
		msg = "Reply added successfully"
	}
	return models.RespondWithData(c, fiber.StatusCreated, comment, msg)
}

// GetReplies handles GET /api/v1/comments/replies/:commentId
// @Summary Replies to a comment, oldest first
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.APIResponse{data=[]models.Comment}
// @Router /comments/replies/{commentId} [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	replies, err := s.commentService.ListReplies(c.UserContext(), commentID)
	if err != nil {
		return respondError(c, err)
	}
	if replies == nil {
		replies = []*models.Comment{}
	}
	return models.RespondWithData(c, fiber.StatusOK, replies, "Replies fetched successfully")
}

// ToggleClap handles POST /api/v1/comments/clap/:commentId
// @Summary Clap or unclap a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.APIResponse{data=service.ClapState}
// @Router /comments/clap/{commentId} [post]
func (s *Server) ToggleClap(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	state, err := s.commentService.ToggleClap(c.UserContext(), actorFrom(c), commentID)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Clap removed"
	if state.IsClapped {
		msg = "Clap added"
	}
	return models.RespondWithData(c, fiber.StatusOK, state, msg)
}

// UpdateComment handles PATCH /api/v1/comments/c/:commentId
// @Summary Edit own comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param request body object{content=string} true "New content"
// @Success 200 {object} models.APIResponse{data=models.Comment}
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/c/{commentId} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), actorFrom(c), service.UpdateCommentInput{
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, comment, "Comment updated successfully")
}

// DeleteComment handles DELETE /api/v1/comments/c/:commentId
// @Summary Delete own comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/c/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), actorFrom(c), commentID); err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "Comment deleted successfully")
}
