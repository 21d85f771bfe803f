package server

import (
	"heirloom/internal/models"
	"heirloom/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikeResponse reports the caller's like state after a toggle.
type LikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// ToggleLike handles POST /api/stories/:id/like
// @Summary Toggle a like
// @Description Like the story, or remove the caller's like if it already exists.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} LikeResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /stories/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.likeService.ToggleLike(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	msg := "Like removed"
	if liked {
		msg = "Like added"
	}
	return c.JSON(LikeResponse{Message: msg, Liked: liked})
}

// CreateComment handles POST /api/stories/:id/comment
// @Summary Comment on a story
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} models.Interaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/comment [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.CreateCommentInput{
		StoryID: id,
		UserID:  viewerID(c),
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/stories/:id/comments
// @Summary List comments
// @Description Comments on a story, oldest first.
// @Tags interactions
// @Produce json
// @Param id path int true "Story ID"
// @Success 200 {array} models.Interaction
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}
