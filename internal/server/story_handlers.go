package server

import (
	"io"
	"mime/multipart"

	"heirloom/internal/models"
	"heirloom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStoryResponse is returned after a story is created.
type CreateStoryResponse struct {
	Message string `json:"message"`
	StoryID uint   `json:"storyId"`
}

// CreateStory handles POST /api/stories
// @Summary Create a story
// @Description Create a story with up to ten photo, video or audio files.
// @Tags stories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Story title"
// @Param description formData string true "Story description"
// @Param eventDate formData string true "Event date (YYYY-MM-DD or RFC 3339)"
// @Param media formData file false "Media files"
// @Success 201 {object} CreateStoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 415 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stories [post]
func (s *Server) CreateStory(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expected a multipart/form-data body"))
	}

	story, err := s.storyService.CreateStory(c.UserContext(), service.CreateStoryInput{
		AuthorID:    viewerID(c),
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		EventDate:   formValue(form, "eventDate"),
		Media:       mediaUploads(form.File["media"]),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(CreateStoryResponse{
		Message: "Story created successfully",
		StoryID: story.ID,
	})
}

// GetTimeline handles GET /api/stories
// @Summary List the timeline
// @Description All stories, newest event date first, with media and interaction details.
// @Tags stories
// @Produce json
// @Success 200 {array} models.StoryWithDetails
// @Failure 500 {object} models.ErrorResponse
// @Router /stories [get]
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	timeline, err := s.timelineService.ListTimeline(c.UserContext(), viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(timeline)
}

// GetStory handles GET /api/stories/:id
// @Summary Get a story
// @Tags stories
// @Produce json
// @Param id path int true "Story ID"
// @Success 200 {object} models.StoryWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id} [get]
func (s *Server) GetStory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	story, err := s.timelineService.GetStory(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(story)
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func mediaUploads(headers []*multipart.FileHeader) []service.MediaUpload {
	uploads := make([]service.MediaUpload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, service.MediaUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}
