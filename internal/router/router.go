package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogly/docs"
	"blogly/internal/config"
	"blogly/internal/handler"
	"blogly/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	tagHandler *handler.TagHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{}

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(cfg.SwaggerHost, "https://")
		docs.SwaggerInfo.Host = strings.TrimPrefix(host, "http://")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/api/users")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/users", userHandler.ListUsers)
	api.POST("/users", userHandler.CreateUser)
	api.GET("/users/:id", userHandler.GetUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)
	api.GET("/users/:id/posts", userHandler.ListUserPosts)
	api.POST("/users/:id/posts", userHandler.CreateUserPost)

	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:id", postHandler.GetPost)
	api.PUT("/posts/:id", postHandler.UpdatePost)
	api.DELETE("/posts/:id", postHandler.DeletePost)

	api.GET("/tags", tagHandler.ListTags)
	api.POST("/tags", tagHandler.CreateTag)
	api.GET("/tags/:id", tagHandler.GetTag)
	api.PUT("/tags/:id", tagHandler.UpdateTag)
	api.DELETE("/tags/:id", tagHandler.DeleteTag)
}

// CustomValidator plugs the service input validation into Echo.
type CustomValidator struct{}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return service.Validate(i)
}
