package server

import (
	"io"

	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/v1/upload/image
// @Summary Upload an image
// @Description Accepts a multipart "image" field, re-encodes it as WebP and returns its public URL.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Success 200 {object} models.APIResponse{data=service.UploadResult}
// @Failure 400 {object} models.ErrorResponse
// @Router /upload/image [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No image file provided"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	result, err := s.imageService.Upload(c.UserContext(), actorFrom(c), service.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "Image uploaded successfully")
}
