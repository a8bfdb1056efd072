package server

import (
	"even/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleHubSubscription handles POST /api/v1/subscriptions/hubs/:hubId
// @Summary Subscribe to or leave a tech hub
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param hubId path int true "Hub ID"
// @Success 200 {object} models.APIResponse{data=service.HubSubscriptionState}
// @Failure 404 {object} models.ErrorResponse
// @Router /subscriptions/hubs/{hubId} [post]
func (s *Server) ToggleHubSubscription(c *fiber.Ctx) error {
	hubID, err := s.parseID(c, "hubId")
	if err != nil {
		return nil
	}
	state, err := s.subscriptionService.ToggleHubSubscription(c.UserContext(), actorFrom(c), hubID)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Unsubscribed from Tech Hub successfully"
	if state.Subscribed {
		msg = "Subscribed to Tech Hub successfully"
	}
	return models.RespondWithData(c, fiber.StatusOK, state, msg)
}

// ToggleAuthorSubscription handles POST /api/v1/subscriptions/users/:userId
// @Summary Follow or unfollow an author
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Author ID"
// @Success 200 {object} models.APIResponse{data=service.AuthorSubscriptionState}
// @Failure 400 {object} models.ErrorResponse
// @Router /subscriptions/users/{userId} [post]
func (s *Server) ToggleAuthorSubscription(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	state, err := s.subscriptionService.ToggleAuthorSubscription(c.UserContext(), actorFrom(c), authorID)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Unfollowed author successfully"
	if state.Subscribed {
		msg = "Followed author successfully"
	}
	return models.RespondWithData(c, fiber.StatusOK, state, msg)
}

// GetHubSubscriptionStatus handles GET /api/v1/subscriptions/hubs/:hubId/status
// @Summary Whether the caller follows a hub
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param hubId path int true "Hub ID"
// @Success 200 {object} models.APIResponse{data=service.SubscriptionStatus}
// @Router /subscriptions/hubs/{hubId}/status [get]
func (s *Server) GetHubSubscriptionStatus(c *fiber.Ctx) error {
	hubID, err := s.parseID(c, "hubId")
	if err != nil {
		return nil
	}
	return s.subscriptionStatus(c, models.HubTarget(hubID))
}

// GetAuthorSubscriptionStatus handles GET /api/v1/subscriptions/users/:userId/status
// @Summary Whether the caller follows an author
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Author ID"
// @Success 200 {object} models.APIResponse{data=service.SubscriptionStatus}
// @Router /subscriptions/users/{userId}/status [get]
func (s *Server) GetAuthorSubscriptionStatus(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	return s.subscriptionStatus(c, models.AuthorTarget(authorID))
}

func (s *Server) subscriptionStatus(c *fiber.Ctx, target models.SubscriptionTarget) error {
	status, err := s.subscriptionService.GetStatus(c.UserContext(), actorFrom(c), target)
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, status, "Subscription status fetched")
}

// GetMySubscribedHubs handles GET /api/v1/subscriptions/me/hubs
// @Summary Hubs the caller follows
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.TechHub}
// @Router /subscriptions/me/hubs [get]
func (s *Server) GetMySubscribedHubs(c *fiber.Ctx) error {
	hubs, err := s.subscriptionService.MySubscribedHubs(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	if hubs == nil {
		hubs = []models.TechHub{}
	}
	return models.RespondWithData(c, fiber.StatusOK, hubs, "Subscribed hubs fetched successfully")
}

// GetMySubscribedAuthors handles GET /api/v1/subscriptions/me/authors
// @Summary Authors the caller follows
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.User}
// @Router /subscriptions/me/authors [get]
func (s *Server) GetMySubscribedAuthors(c *fiber.Ctx) error {
	authors, err := s.subscriptionService.MySubscribedAuthors(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	if authors == nil {
		authors = []models.User{}
	}
	return models.RespondWithData(c, fiber.StatusOK, authors, "Following list fetched successfully")
}
