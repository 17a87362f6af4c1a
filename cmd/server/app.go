package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/craftfolio/api/internal/api"
	"github.com/craftfolio/api/internal/auth"
	"github.com/craftfolio/api/internal/config"
	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/logger"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	auth.SetSecret(cfg.JWTSecret)

	log, err := logger.NewLogger()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	redisClient, err := db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer redisClient.Close(log)

	gormDB, err := db.NewDB(
		ctx,
		cfg.DSN(),
		models.RegisterModels(),
		db.WithLogger(log),
	)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	app := fiber.New(fiber.Config{
		AppName: "craftfolio",
	})

	routes.NewRoutes(ctx, app, cfg, gormDB, log, redisClient)

	go func() {
		<-ctx.Done()
		log.Info(context.Background()).Logs("Shutting down")
		app.Shutdown()
	}()

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
	}
}
