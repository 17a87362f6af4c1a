package models

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Portfolio is the top-level owned document containing ordered sections.
// Deletion is soft so that sections and share links keep valid-looking
// references.
type Portfolio struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_portfolio_owner_slug" json:"owner_id"`
	Title       string    `gorm:"size:120;not null" json:"title" validate:"required,min=1,max=120"`
	Slug        string    `gorm:"size:140;not null;uniqueIndex:idx_portfolio_owner_slug" json:"slug" validate:"required,max=140,slug"`
	Description string    `gorm:"size:500" json:"description" validate:"omitempty,max=500"`
	TemplateID  string    `gorm:"size:50;default:'classic'" json:"template_id" validate:"omitempty,max=50"`
	ThemeID     string    `gorm:"size:50;default:'slate'" json:"theme_id" validate:"omitempty,max=50"`
	IsPublic    bool      `gorm:"default:false;index" json:"is_public"`
	ShareToken  string    `gorm:"size:64;index" json:"share_token,omitempty"`

	Sections []Section `gorm:"foreignKey:PortfolioID" json:"sections,omitempty" validate:"-"`
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PortfolioOption configures a Portfolio update.
type PortfolioOption func(*Portfolio)

func WithTitle(title string) PortfolioOption {
	return func(p *Portfolio) { p.Title = title }
}

func WithDescription(desc string) PortfolioOption {
	return func(p *Portfolio) { p.Description = desc }
}

func WithTemplate(templateID string) PortfolioOption {
	return func(p *Portfolio) { p.TemplateID = templateID }
}

func WithTheme(themeID string) PortfolioOption {
	return func(p *Portfolio) { p.ThemeID = themeID }
}

func WithVisibility(public bool) PortfolioOption {
	return func(p *Portfolio) { p.IsPublic = public }
}

func WithShareToken(token string) PortfolioOption {
	return func(p *Portfolio) { p.ShareToken = token }
}

// CreatePortfolio inserts a portfolio for ownerID. The owner is always
// taken from the authenticated identity, never from the request body. An
// empty slug is derived from the title.
func CreatePortfolio(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID uuid.UUID, p *Portfolio) error {
	p.OwnerID = ownerID
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Portfolio title is required")
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))

	err := gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The unique (owner_id, slug) index still holds soft-deleted rows,
		// so the pre-check counts them too.
		var count int64
		if err := tx.Unscoped().Model(&Portfolio{}).Where("owner_id = ? AND slug = ?", ownerID, p.Slug).Count(&count).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check portfolio slug")
		}
		if count > 0 {
			return utils.NewError(utils.ErrConflict.Code, "A portfolio with this slug already exists")
		}

		if err := tx.Create(p).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create portfolio")
		}
		return nil
	})
	if err != nil {
		return err
	}

	cachePortfolio(ctx, rclient, p)
	return nil
}

// GetPortfolio first consults the Redis cache, then the database, scoped to
// the owner. Absent and not-owned rows both come back as 404; existence is
// never leaked to other users.
func GetPortfolio(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) (*Portfolio, error) {
	if rclient != nil {
		if cached, err := rclient.Get(ctx, "portfolio:"+id.String()).Result(); err == nil && cached != "" {
			if p := decodeCachedPortfolio([]byte(cached), ownerID); p != nil {
				return p, nil
			}
		}
	}

	var p Portfolio
	err := gormDB.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Portfolio not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get portfolio")
	}

	cachePortfolio(ctx, rclient, &p)
	return &p, nil
}

// decodeCachedPortfolio parses a cache entry. A malformed entry or an owner
// mismatch falls through to the database so ownership scoping holds on the
// cached path too.
func decodeCachedPortfolio(data []byte, ownerID uuid.UUID) *Portfolio {
	var p Portfolio
	if json.Unmarshal(data, &p) != nil {
		return nil
	}
	if p.ID == uuid.Nil || p.OwnerID != ownerID {
		return nil
	}
	return &p
}

// GetPublicPortfolio resolves a public view by slug or share token,
// including sections sorted by display order. A private portfolio without
// a matching share token is a 404.
func GetPublicPortfolio(ctx context.Context, gormDB *gorm.DB, slugOrToken string) (*Portfolio, error) {
	var p Portfolio
	err := gormDB.WithContext(ctx).
		Preload("Sections", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_visible = ?", true).Order("display_order ASC")
		}).
		Where("(slug = ? AND is_public = ?) OR (share_token <> '' AND share_token = ?)", slugOrToken, true, slugOrToken).
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Portfolio not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get portfolio")
	}
	return &p, nil
}

// ListPortfolios returns the owner's portfolios with bounded pagination.
func ListPortfolios(ctx context.Context, gormDB *gorm.DB, ownerID uuid.UUID, publicOnly bool, limit, offset int) ([]Portfolio, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := gormDB.WithContext(ctx).Where("owner_id = ?", ownerID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var portfolios []Portfolio
	if err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&portfolios).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list portfolios")
	}
	return portfolios, nil
}

// UpdatePortfolio applies options to an owned portfolio and saves it.
func UpdatePortfolio(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID, opts ...PortfolioOption) (*Portfolio, error) {
	p, err := GetPortfolio(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := gormDB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update portfolio")
	}

	cachePortfolio(ctx, rclient, p)
	return p, nil
}

// DeletePortfolio soft-deletes an owned portfolio. Its sections stay in
// place but become unreachable through the default-scoped queries.
func DeletePortfolio(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) error {
	p, err := GetPortfolio(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Delete(p).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete portfolio")
	}

	if rclient != nil {
		rclient.Del(ctx, "portfolio:"+id.String())
	}
	return nil
}

func cachePortfolio(ctx context.Context, rclient *db.RedisClient, p *Portfolio) {
	if rclient == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	rclient.Set(ctx, "portfolio:"+p.ID.String(), data, 10*time.Minute)
}
