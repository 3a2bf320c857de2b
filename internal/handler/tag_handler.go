package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/service"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	tags service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tags service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// TagUpdateResponse reports the tag after an edit. Updated is false when the
// tag is attached to no post and the edit was skipped.
type TagUpdateResponse struct {
	Tag     *model.Tag `json:"tag"`
	Updated bool       `json:"updated"`
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} model.Tag
// @Router /tags [get]
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tags.ListTags(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, tags)
}

// CreateTag godoc
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body service.TagInput true "Tag payload"
// @Success 201 {object} model.Tag
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /tags [post]
func (h *TagHandler) CreateTag(c echo.Context) error {
	var req service.TagInput
	if err := bind(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.CreateTag(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, tag)
}

// GetTag godoc
// @Summary Get tag with the posts it is attached to
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} model.Tag
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.tags.GetTag(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, tag)
}

// UpdateTag godoc
// @Summary Rename tag
// @Description A tag attached to no post is left unchanged and returned with updated=false.
// @Tags tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param tag body service.TagInput true "Tag payload"
// @Success 200 {object} TagUpdateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.TagInput
	if err := bind(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.UpdateTag(c.Request().Context(), id, req)
	if errors.Is(err, apperrors.ErrNothingToEdit) {
		return c.JSON(http.StatusOK, TagUpdateResponse{Tag: tag, Updated: false})
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, TagUpdateResponse{Tag: tag, Updated: true})
}

// DeleteTag godoc
// @Summary Delete tag
// @Description Detaches the tag from every post and deletes it in one unit of work.
// @Tags tags
// @Param id path int true "Tag ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tags.DeleteTag(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
