package models

import (
	"context"
	"strings"
	"time"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is an owner-scoped label for certifications. Names are unique per
// owner, not globally.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_tag_owner_name" json:"owner_id"`
	Name    string    `gorm:"size:30;not null;uniqueIndex:idx_tag_owner_name" json:"name" validate:"required,min=1,max=30"`
	Color   string    `gorm:"size:7" json:"color" validate:"omitempty,hexcolor"`

	Certifications []Certification `gorm:"many2many:certification_tags;" json:"-" validate:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CreateTag inserts a tag for ownerID, rejecting per-owner duplicates.
func CreateTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID uuid.UUID, t *Tag) error {
	t.OwnerID = ownerID
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Tag name is required")
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Tag{}).Where("owner_id = ? AND name = ?", ownerID, t.Name).Count(&count).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check tag name")
		}
		if count > 0 {
			return utils.NewError(utils.ErrConflict.Code, "Tag name already exists")
		}

		if err := tx.Create(t).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create tag")
		}
		return nil
	})
}

// GetTag fetches an owned tag; absent and not-owned collapse to 404.
func GetTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) (*Tag, error) {
	var t Tag
	err := gormDB.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Tag not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get tag")
	}
	return &t, nil
}

// ListTags returns every tag of the owner sorted by name.
func ListTags(ctx context.Context, gormDB *gorm.DB, ownerID uuid.UUID) ([]Tag, error) {
	var tags []Tag
	if err := gormDB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list tags")
	}
	return tags, nil
}

// TagUpdate carries the mutable tag fields.
type TagUpdate struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=30"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateTag applies a partial update to an owned tag.
func UpdateTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID, update TagUpdate) (*Tag, error) {
	t, err := GetTag(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return nil, err
	}

	if update.Name == nil && update.Color == nil {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "No updatable fields provided")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, utils.NewError(utils.ErrBadRequest.Code, "Tag name is required")
		}
		t.Name = name
	}
	if update.Color != nil {
		t.Color = *update.Color
	}

	if err := gormDB.WithContext(ctx).Save(t).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update tag")
	}
	return t, nil
}

// DeleteTag removes a tag and its associations. Tags have no dependents of
// their own, so this is a hard delete.
func DeleteTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) error {
	t, err := GetTag(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(t).Association("Certifications").Clear(); err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to clear tag associations")
		}
		if err := tx.Delete(t).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete tag")
		}
		return nil
	})
}
