package server

import (
	"backend-memepool/internal/auth"
	"backend-memepool/internal/config"
	"backend-memepool/internal/feed"
	"backend-memepool/internal/like"
	"backend-memepool/internal/meme"
	"backend-memepool/internal/storage"
	"backend-memepool/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	viewerMiddleware := auth.OptionalJWTMiddleware(s.Cfg.JWTSecret)

	feedOpts := feed.Options{
		PageSize:       s.Cfg.FeedPageSize,
		PublicBrowsing: s.Cfg.FeedPublicBrowsing,
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	meme.RegisterRoutes(s.App.Group("/memes"), meme.NewService(s.DB, s.Stream), jwtMiddleware)
	like.RegisterRoutes(s.App.Group("/memes"), like.NewService(s.DB, s.Stream), jwtMiddleware)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB, feedOpts), viewerMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
