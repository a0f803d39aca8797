package main // Entry point package

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-review-api/internal/auth"
	"github.com/iliyamo/movie-review-api/internal/config"
	"github.com/iliyamo/movie-review-api/internal/database"
	"github.com/iliyamo/movie-review-api/internal/handler"
	"github.com/iliyamo/movie-review-api/internal/middleware"
	"github.com/iliyamo/movie-review-api/internal/queue"
	"github.com/iliyamo/movie-review-api/internal/repository"
	"github.com/iliyamo/movie-review-api/internal/router"
	"github.com/iliyamo/movie-review-api/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; cache and rate limiting disabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHour)*time.Hour)

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)
	guard := repository.NewIntegrityGuard(db)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(users, tokens),
		Categories: handler.NewCategoryHandler(categories, movies, guard),
		Movies:     handler.NewMovieHandler(movies, reviews, guard),
		Reviews:    handler.NewReviewHandler(reviews, service.NewQueuePublisher()),
		Users:      handler.NewUserHandler(users, reviews, guard, cfg.BcryptCost),
	}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, tokens, cache)

	// Background consumer mirrors review.created events into logs/review.log.
	go queue.StartReviewConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
