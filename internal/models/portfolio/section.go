package models

import (
	"context"
	"time"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section is one content block of a portfolio. DisplayOrder values within a
// portfolio always form the contiguous sequence 1..N; the unique index on
// (portfolio_id, display_order) backs that invariant at the storage level.
// Sections are hard-deleted, with compaction keeping the sequence dense.
type Section struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	PortfolioID  uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_section_order" json:"portfolio_id"`
	Type         SectionType `gorm:"size:30;not null" json:"type" validate:"required,oneof=summary skills work_experience projects certifications custom"`
	Title        string      `gorm:"size:120" json:"title" validate:"omitempty,max=120"`
	Content      string      `gorm:"type:jsonb;default:'{}'" json:"content"`
	Settings     string      `gorm:"type:jsonb;default:'{}'" json:"settings"`
	DisplayOrder int         `gorm:"not null;uniqueIndex:idx_section_order" json:"display_order"`
	IsVisible    bool        `gorm:"default:true" json:"is_visible"`
}

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CreateSection appends a section to an owned portfolio: the new display
// order is max+1, or 1 for an empty portfolio, computed inside the insert
// transaction.
func CreateSection(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID uuid.UUID, s *Section) error {
	if !ValidSectionType(s.Type) {
		return utils.NewError(utils.ErrBadRequest.Code, "Unknown section type")
	}
	if s.Content == "" {
		s.Content = "{}"
	}
	if _, err := DecodeContent(s.Type, s.Content); err != nil {
		return utils.NewError(utils.ErrBadRequest.Code, "Section content does not match its type", err.Error())
	}

	if _, err := GetPortfolio(ctx, rclient, gormDB, ownerID, s.PortfolioID); err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		row := tx.Model(&Section{}).
			Select("COALESCE(MAX(display_order), 0)").
			Where("portfolio_id = ?", s.PortfolioID).
			Row()
		if err := row.Scan(&maxOrder); err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to compute section order")
		}

		s.DisplayOrder = maxOrder + 1
		if err := tx.Create(s).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create section")
		}
		return nil
	})
}

// GetSection fetches one section of an owned portfolio.
func GetSection(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID, sectionID uuid.UUID) (*Section, error) {
	if _, err := GetPortfolio(ctx, rclient, gormDB, ownerID, portfolioID); err != nil {
		return nil, err
	}

	var s Section
	err := gormDB.WithContext(ctx).Where("id = ? AND portfolio_id = ?", sectionID, portfolioID).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Section not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get section")
	}
	return &s, nil
}

// ListSections returns an owned portfolio's sections sorted by display order.
func ListSections(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID uuid.UUID) ([]Section, error) {
	if _, err := GetPortfolio(ctx, rclient, gormDB, ownerID, portfolioID); err != nil {
		return nil, err
	}

	var sections []Section
	err := gormDB.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("display_order ASC").
		Find(&sections).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list sections")
	}
	return sections, nil
}

// SectionUpdate carries the mutable section fields. Type is immutable after
// creation and rejected at the handler level.
type SectionUpdate struct {
	Title     *string `json:"title" validate:"omitempty,max=120"`
	Content   *string `json:"content"`
	Settings  *string `json:"settings"`
	IsVisible *bool   `json:"is_visible"`
}

// UpdateSection applies a partial update to one section.
func UpdateSection(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID, sectionID uuid.UUID, update SectionUpdate) (*Section, error) {
	s, err := GetSection(ctx, rclient, gormDB, ownerID, portfolioID, sectionID)
	if err != nil {
		return nil, err
	}

	if update.Title == nil && update.Content == nil && update.Settings == nil && update.IsVisible == nil {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "No updatable fields provided")
	}

	if update.Title != nil {
		s.Title = *update.Title
	}
	if update.Content != nil {
		if _, err := DecodeContent(s.Type, *update.Content); err != nil {
			return nil, utils.NewError(utils.ErrBadRequest.Code, "Section content does not match its type", err.Error())
		}
		s.Content = *update.Content
	}
	if update.Settings != nil {
		s.Settings = *update.Settings
	}
	if update.IsVisible != nil {
		s.IsVisible = *update.IsVisible
	}

	if err := gormDB.WithContext(ctx).Save(s).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update section")
	}
	return s, nil
}

// DeleteSection removes a section and compacts the remaining display
// orders back to 1..N in the same transaction. The shifted rows pass
// through negative values so the unique index never trips mid-update;
// retrying after a failed attempt is safe because the whole transaction
// rolls back.
func DeleteSection(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID, sectionID uuid.UUID) error {
	s, err := GetSection(ctx, rclient, gormDB, ownerID, portfolioID, sectionID)
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Section{}, "id = ?", s.ID).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete section")
		}

		err := tx.Model(&Section{}).
			Where("portfolio_id = ? AND display_order > ?", portfolioID, s.DisplayOrder).
			Update("display_order", gorm.Expr("-(display_order - 1)")).Error
		if err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to compact section order")
		}

		err = tx.Model(&Section{}).
			Where("portfolio_id = ? AND display_order < 0", portfolioID).
			Update("display_order", gorm.Expr("-display_order")).Error
		if err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to compact section order")
		}
		return nil
	})
}

// ReorderSections assigns display_order = position+1 for each id in ids,
// atomically. The id list must be exactly the portfolio's section id set;
// a list that omits, duplicates, or adds an id fails with 400 before any
// mutation. Reordering zero or one section is a successful no-op.
func ReorderSections(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID uuid.UUID, ids []uuid.UUID) ([]Section, error) {
	sections, err := ListSections(ctx, rclient, gormDB, ownerID, portfolioID)
	if err != nil {
		return nil, err
	}

	if len(ids) != len(sections) {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "Section id list does not match the portfolio's sections")
	}

	existing := make(map[uuid.UUID]bool, len(sections))
	for _, s := range sections {
		existing[s.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !existing[id] {
			return nil, utils.NewError(utils.ErrBadRequest.Code, "Section id list does not match the portfolio's sections")
		}
		if seen[id] {
			return nil, utils.NewError(utils.ErrBadRequest.Code, "Section id list contains duplicates")
		}
		seen[id] = true
	}

	if len(ids) > 1 {
		// Two-phase sign flip: park every row on a negative order, then
		// flip to the final positive values. No intermediate state can
		// collide on the unique index, and a failure anywhere rolls the
		// whole batch back.
		err = gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i, id := range ids {
				err := tx.Model(&Section{}).
					Where("id = ? AND portfolio_id = ?", id, portfolioID).
					Update("display_order", -(i + 1)).Error
				if err != nil {
					return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to reorder sections")
				}
			}

			err := tx.Model(&Section{}).
				Where("portfolio_id = ? AND display_order < 0", portfolioID).
				Update("display_order", gorm.Expr("-display_order")).Error
			if err != nil {
				return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to reorder sections")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return ListSections(ctx, rclient, gormDB, ownerID, portfolioID)
}
