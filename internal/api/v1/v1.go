package v1

import (
	"github.com/craftfolio/api/internal/ai"
	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/logger"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	DB        *gorm.DB
	Redis     *db.RedisClient
	Logger    *logger.Logger
	AI        *ai.Abilities
	Validator = utils.NewValidator()
)

// Setup wires the package-level handler dependencies once at startup.
func Setup(gdb *gorm.DB, rclient *db.RedisClient, log *logger.Logger, abilities *ai.Abilities) {
	DB = gdb
	Redis = rclient
	Logger = log
	AI = abilities
}

// currentUserID reads the authenticated identity the auth middleware stored.
// Ownership checks trust only this value, never ids from the request body.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, utils.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}

// pathUUID parses the named route parameter as a UUID.
func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, utils.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
