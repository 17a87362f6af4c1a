package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username  string `gorm:"size:50;not null;unique" json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string `gorm:"size:100;not null;unique" json:"email" validate:"required,email,max=100"`
	Password  string `gorm:"size:255;not null" json:"-" validate:"required,min=6"`
	Name      string `gorm:"size:100" json:"name" validate:"omitempty,max=100"`
	AvatarURL string `gorm:"size:500" json:"avatar_url" validate:"omitempty,url,max=500"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserOption configures a User.
type UserOption func(*User)

func WithName(name string) UserOption {
	return func(u *User) { u.Name = name }
}

func WithAvatarURL(url string) UserOption {
	return func(u *User) { u.AvatarURL = url }
}

func WithIsActive(active bool) UserOption {
	return func(u *User) { u.IsActive = active }
}

// NewUser creates a new User. Password must already be hashed.
func NewUser(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, username, email, password string, opts ...UserOption) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "user creation canceled")
	}

	u := &User{
		Username: username,
		Email:    email,
		Password: password,
		IsActive: true,
	}

	for _, opt := range opts {
		opt(u)
	}

	if err := gormDB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create user in database")
	}

	cacheUser(ctx, rclient, u)
	return u, nil
}

// GetUserBy retrieves a user by an arbitrary condition.
func GetUserBy(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, condition string, args []interface{}) (*User, error) {
	var u User
	if err := gormDB.WithContext(ctx).Where(condition, args...).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "User not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get user")
	}
	return &u, nil
}

// GetUserByID first consults the Redis cache, then the database.
func GetUserByID(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, id uuid.UUID) (*User, error) {
	if rclient != nil {
		if cached, err := rclient.Get(ctx, "user:"+id.String()).Result(); err == nil && cached != "" {
			var u User
			if json.Unmarshal([]byte(cached), &u) == nil {
				return &u, nil
			}
		}
	}

	u, err := GetUserBy(ctx, rclient, gormDB, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}
	cacheUser(ctx, rclient, u)
	return u, nil
}

// UpdateUser applies options and saves the row.
func UpdateUser(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, id uuid.UUID, opts ...UserOption) (*User, error) {
	u, err := GetUserBy(ctx, rclient, gormDB, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(u)
	}

	if err := gormDB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update user")
	}

	cacheUser(ctx, rclient, u)
	return u, nil
}

// DeleteUser soft-deletes a user and clears cache.
func DeleteUser(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, id uuid.UUID) error {
	u, err := GetUserBy(ctx, rclient, gormDB, "id = ?", []interface{}{id})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Delete(u).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete user")
	}

	if rclient != nil {
		rclient.Del(ctx, "user:"+id.String())
	}
	return nil
}

func cacheUser(ctx context.Context, rclient *db.RedisClient, u *User) {
	if rclient == nil {
		return
	}
	userJSON, err := json.Marshal(u)
	if err != nil {
		return
	}
	rclient.Set(ctx, "user:"+u.ID.String(), userJSON, 30*time.Minute)
}
