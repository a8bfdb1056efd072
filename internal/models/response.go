package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIResponse is the success envelope returned by every endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Code       string `json:"code,omitempty"`
}

// Pagination describes an offset-paginated listing.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total items split by limit.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Pages: pages}
}

// RespondWithData writes the success envelope.
func RespondWithData(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// RespondWithError creates a standardized error response. Details of
// internal errors stay in the logs.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{
		StatusCode: status,
		Message:    "Internal server error",
	}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		response.Code = appErr.Code
		response.Message = appErr.Message
	case errors.As(err, &fiberErr):
		response.Message = fiberErr.Message
	case status < fiber.StatusInternalServerError && err != nil:
		response.Message = err.Error()
	}

	return c.Status(status).JSON(response)
}
