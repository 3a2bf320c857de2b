package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blogly/internal/service"
)

// UserHandler serves user endpoints and the posts nested under a user.
type UserHandler struct {
	users service.UserService
	posts service.PostService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, posts service.PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body service.UserInput true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req service.UserInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body service.UserInput true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.UserInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Deletes the user. Depending on USER_DELETE_MODE the user's posts are deleted too or the request is refused with 409.
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUserPosts godoc
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/posts [get]
func (h *UserHandler) ListUserPosts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	posts, err := h.users.ListPostsForUser(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreateUserPost godoc
// @Summary Create a post for a user
// @Description Unknown tag ids are ignored.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param post body service.PostInput true "Post payload"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{id}/posts [post]
func (h *UserHandler) CreateUserPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.PostInput
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.CreatePost(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, post)
}
