package routes

import (
	"context"
	"time"

	"github.com/craftfolio/api/internal/ai"
	"github.com/craftfolio/api/internal/api/v1"
	"github.com/craftfolio/api/internal/auth"
	"github.com/craftfolio/api/internal/config"
	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/internal/ratelimit"
	"github.com/craftfolio/api/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, gdb *gorm.DB, log *logger.Logger, rclient *db.RedisClient) {
	app.Use(
		logger.SetupLogger(log),
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     "http://localhost:3000",
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestCompression,
			},
		),
	)
	app.Use(log.Middleware())

	var store ratelimit.Store
	if cfg.RateLimit.Backend == "redis" && rclient != nil {
		store = ratelimit.NewRedisStore(rclient, log)
	} else {
		store = ratelimit.NewMemoryStore(time.Minute)
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimit, log)

	abilities := ai.NewAbilities(ai.NewClient(cfg.AI), log)
	v1.Setup(gdb, rclient, log, abilities)

	opts := auth.Options{DB: gdb, Rclient: rclient, Logger: log}
	guard := auth.Protected(opts)
	optional := auth.Optional(opts)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public portfolio view by slug or share token. The optional guard only
	// identifies logged-in viewers for request logs; it never rejects.
	app.Get("/p/:slug", optional, limiter.Handle(ratelimit.ClassPublic), v1.PublicPortfolio)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth", limiter.Handle(ratelimit.ClassAuth))
	authGroup.Post("/register", v1.Register)
	authGroup.Post("/login", v1.Login)
	authGroup.Post("/logout", guard, v1.Logout)
	authGroup.Post("/refresh", v1.Refresh)

	// The guard runs before the limiter on authenticated groups so that
	// per-user policies key on the resolved identity, not the caller IP.
	me := api.Group("/me", guard, limiter.Handle(ratelimit.ClassStandard))
	me.Get("/", v1.Me)
	me.Patch("/", v1.UpdateMe)

	portfolios := api.Group("/portfolios", guard, limiter.Handle(ratelimit.ClassStandard))
	portfolios.Post("/", v1.CreatePortfolio)
	portfolios.Get("/", v1.ListPortfolios)
	portfolios.Get("/:id", v1.GetPortfolio)
	portfolios.Patch("/:id", v1.UpdatePortfolio)
	portfolios.Delete("/:id", v1.DeletePortfolio)
	portfolios.Post("/:id/share", v1.SharePortfolio)

	portfolios.Post("/:id/sections", v1.CreateSection)
	portfolios.Get("/:id/sections", v1.ListSections)
	portfolios.Get("/:id/sections/:sectionId", v1.GetSection)
	portfolios.Patch("/:id/sections/:sectionId", v1.UpdateSection)
	portfolios.Delete("/:id/sections/:sectionId", v1.DeleteSection)
	portfolios.Put("/:id/sections/reorder", v1.ReorderSections)

	certifications := api.Group("/certifications", guard, limiter.Handle(ratelimit.ClassStandard))
	certifications.Post("/", v1.CreateCertification)
	certifications.Get("/", v1.ListCertifications)
	certifications.Get("/:id", v1.GetCertification)
	certifications.Patch("/:id", v1.UpdateCertification)
	certifications.Delete("/:id", v1.DeleteCertification)
	certifications.Put("/:id/tags/:tagId", v1.AssignCertificationTag)
	certifications.Delete("/:id/tags/:tagId", v1.RemoveCertificationTag)

	tags := api.Group("/tags", guard, limiter.Handle(ratelimit.ClassStandard))
	tags.Post("/", v1.CreateTag)
	tags.Get("/", v1.ListTags)
	tags.Patch("/:id", v1.UpdateTag)
	tags.Delete("/:id", v1.DeleteTag)

	catalog := api.Group("/catalog", limiter.Handle(ratelimit.ClassStandard))
	catalog.Get("/templates", v1.ListTemplates)
	catalog.Get("/themes", v1.ListThemes)

	aiGroup := api.Group("/ai", guard, limiter.Handle(ratelimit.ClassAI))
	aiGroup.Post("/rewrite", v1.RewriteText)
	aiGroup.Post("/summarize", v1.SummarizeText)
	aiGroup.Post("/suggest-tags", v1.SuggestTags)
	aiGroup.Post("/generate-portfolio", v1.GeneratePortfolio)

	go func() {
		<-ctx.Done()
		if ms, ok := store.(*ratelimit.MemoryStore); ok {
			ms.Stop()
		}
		if rclient != nil {
			rclient.Close(log)
		}
		log.Close()
	}()
}
