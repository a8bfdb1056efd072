package server

import (
	"time"

	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// Register handles POST /api/v1/auth/register
// @Summary Register
// @Description Create an account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{fullName=string,username=string,email=string,password=string} true "Registration"
// @Success 201 {object} models.APIResponse{data=service.AuthResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullName"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	result, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.setSessionCookies(c, result)
	return models.RespondWithData(c, fiber.StatusCreated, result, "User registered successfully")
}

// Login handles POST /api/v1/auth/login
// @Summary Login
// @Description Authenticate with email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,username=string,password=string} true "Credentials"
// @Success 200 {object} models.APIResponse{data=service.AuthResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	result, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.setSessionCookies(c, result)
	return models.RespondWithData(c, fiber.StatusOK, result, "User logged in successfully")
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token is read from
// its cookie, or from the body for clients that do not keep cookies.
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{refreshToken=string} false "Refresh token"
// @Success 200 {object} models.APIResponse{data=service.AuthResult}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshTokenCookie)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// An empty or non-JSON body simply means no token was sent.
		_ = c.BodyParser(&req)
		token = req.RefreshToken
	}

	result, err := s.authService.Refresh(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}

	s.setSessionCookies(c, result)
	return models.RespondWithData(c, fiber.StatusOK, result, "Access token refreshed")
}

// Logout handles POST /api/v1/auth/logout
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), actorFrom(c), accessClaimsFrom(c)); err != nil {
		return respondError(c, err)
	}

	clearSessionCookies(c)
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{}, "User logged out")
}

func (s *Server) setSessionCookies(c *fiber.Ctx, result *service.AuthResult) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   int(s.config.AccessTokenTTL / time.Second),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    result.RefreshToken,
		Path:     "/api/v1/auth",
		MaxAge:   int(s.config.RefreshTokenTTL / time.Second),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookies(c *fiber.Ctx) {
	for name, path := range map[string]string{accessTokenCookie: "/", refreshTokenCookie: "/api/v1/auth"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Path:     path,
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
