package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogly/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	posts service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// ListPosts godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get post with its author and tags
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Update post and replace its tag set
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body service.PostInput true "Post payload"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.PostInput
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.UpdatePost(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
