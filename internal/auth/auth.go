package auth

import (
	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/logger"
	"gorm.io/gorm"
)

type Options struct {
	DB      *gorm.DB
	Rclient *db.RedisClient
	Logger  *logger.Logger
}
