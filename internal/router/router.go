package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/handler"
	"github.com/iliyamo/movie-review-api/internal/middleware"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Categories *handler.CategoryHandler
	Movies     *handler.MovieHandler
	Reviews    *handler.ReviewHandler
	Users      *handler.UserHandler
}

// Register wires all routes onto the Echo instance. Read endpoints are
// public and run behind the optional response cache; mutations run behind
// the token middleware, with the admin gate applied per route group.
// Ownership-gated mutations (reviews, users) verify ownership inside the
// handler after loading the target row.
func Register(e *echo.Echo, h Handlers, tokens *auth.TokenService, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	e.POST("/api/login", h.Auth.Login)

	withToken := middleware.RequireToken(tokens)
	adminOnly := middleware.RequireAdmin()

	cats := e.Group("/api/categories")
	cats.GET("", h.Categories.List, cache)
	cats.GET("/:id", h.Categories.Get, cache)
	cats.GET("/:id/movies", h.Categories.ListMovies, cache)
	cats.POST("", h.Categories.Create, withToken, adminOnly)
	cats.PUT("/:id", h.Categories.Update, withToken, adminOnly)
	cats.DELETE("/:id", h.Categories.Delete, withToken, adminOnly)

	movies := e.Group("/api/movies")
	movies.GET("", h.Movies.List, cache)
	movies.GET("/:id", h.Movies.Get, cache)
	movies.GET("/:id/reviews", h.Movies.ListReviews, cache)
	movies.POST("", h.Movies.Create, withToken, adminOnly)
	movies.PUT("/:id", h.Movies.Update, withToken, adminOnly)
	movies.DELETE("/:id", h.Movies.Delete, withToken, adminOnly)

	reviews := e.Group("/api/reviews")
	reviews.GET("", h.Reviews.List, cache)
	reviews.GET("/:id", h.Reviews.Get, cache)
	reviews.POST("", h.Reviews.Create, withToken)
	reviews.PUT("/:id", h.Reviews.Update, withToken)
	reviews.DELETE("/:id", h.Reviews.Delete, withToken)

	users := e.Group("/api/users")
	users.GET("", h.Users.List, cache)
	users.GET("/:id", h.Users.Get, cache)
	users.GET("/:id/reviews", h.Users.ListReviews, cache)
	users.POST("", h.Users.Create) // anonymous self-registration
	users.PUT("/:id", h.Users.Update, withToken)
	users.DELETE("/:id", h.Users.Delete, withToken)
}
