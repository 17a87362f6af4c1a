package models

import (
	"context"
	"time"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificationType constrains which of the file reference and external URL
// must be present.
type CertificationType string

const (
	CertFilePDF      CertificationType = "file-pdf"
	CertFileImage    CertificationType = "file-image"
	CertExternalLink CertificationType = "external-link"
	CertManual       CertificationType = "manual"
)

// Certification is an owner-scoped credential, taggable and soft-deletable.
// Visibility is independent of any portfolio's visibility.
type Certification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Type        CertificationType `gorm:"size:20;not null" json:"type" validate:"required,oneof=file-pdf file-image external-link manual"`
	Title       string            `gorm:"size:120;not null" json:"title" validate:"required,min=1,max=120"`
	Issuer      string            `gorm:"size:120" json:"issuer" validate:"omitempty,max=120"`
	IssuedOn    string            `gorm:"size:10" json:"issued_on" validate:"omitempty,datetime=2006-01-02"`
	FileURL     string            `gorm:"size:500" json:"file_url" validate:"omitempty,url,max=500"`
	ExternalURL string            `gorm:"size:500" json:"external_url" validate:"omitempty,url,max=500"`
	IsVisible   bool              `gorm:"default:true" json:"is_visible"`

	Tags []Tag `gorm:"many2many:certification_tags;" json:"tags,omitempty" validate:"-"`
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// checkTypeFields enforces the cross-field rules the type enumeration
// implies: file types need a file reference, external links need a URL.
func (c *Certification) checkTypeFields() error {
	switch c.Type {
	case CertFilePDF, CertFileImage:
		if c.FileURL == "" {
			return utils.NewError(utils.ErrBadRequest.Code, "A file certification requires a file reference")
		}
	case CertExternalLink:
		if c.ExternalURL == "" {
			return utils.NewError(utils.ErrBadRequest.Code, "A link certification requires an external URL")
		}
	case CertManual:
		// no attachment required
	default:
		return utils.NewError(utils.ErrBadRequest.Code, "Unknown certification type")
	}
	return nil
}

// CreateCertification inserts a certification for ownerID.
func CreateCertification(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID uuid.UUID, c *Certification) error {
	c.OwnerID = ownerID
	if err := c.checkTypeFields(); err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Create(c).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create certification")
	}
	return nil
}

// GetCertification fetches an owned certification with its tags. Absent
// and not-owned collapse to 404.
func GetCertification(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) (*Certification, error) {
	var c Certification
	err := gormDB.WithContext(ctx).Preload("Tags").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Certification not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get certification")
	}
	return &c, nil
}

// ListCertifications returns the owner's certifications with bounded
// pagination and an optional visibility filter.
func ListCertifications(ctx context.Context, gormDB *gorm.DB, ownerID uuid.UUID, visibleOnly bool, limit, offset int) ([]Certification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := gormDB.WithContext(ctx).Preload("Tags").Where("owner_id = ?", ownerID)
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}

	var certs []Certification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&certs).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list certifications")
	}
	return certs, nil
}

// CertificationUpdate carries the mutable fields. Type is immutable.
type CertificationUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
	Issuer      *string `json:"issuer" validate:"omitempty,max=120"`
	IssuedOn    *string `json:"issued_on" validate:"omitempty,datetime=2006-01-02"`
	FileURL     *string `json:"file_url" validate:"omitempty,url,max=500"`
	ExternalURL *string `json:"external_url" validate:"omitempty,url,max=500"`
	IsVisible   *bool   `json:"is_visible"`
}

// UpdateCertification applies a partial update to an owned certification.
func UpdateCertification(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID, update CertificationUpdate) (*Certification, error) {
	c, err := GetCertification(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return nil, err
	}

	if update.Title == nil && update.Issuer == nil && update.IssuedOn == nil &&
		update.FileURL == nil && update.ExternalURL == nil && update.IsVisible == nil {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "No updatable fields provided")
	}

	if update.Title != nil {
		c.Title = *update.Title
	}
	if update.Issuer != nil {
		c.Issuer = *update.Issuer
	}
	if update.IssuedOn != nil {
		c.IssuedOn = *update.IssuedOn
	}
	if update.FileURL != nil {
		c.FileURL = *update.FileURL
	}
	if update.ExternalURL != nil {
		c.ExternalURL = *update.ExternalURL
	}
	if update.IsVisible != nil {
		c.IsVisible = *update.IsVisible
	}

	if err := c.checkTypeFields(); err != nil {
		return nil, err
	}

	if err := gormDB.WithContext(ctx).Save(c).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update certification")
	}
	return c, nil
}

// DeleteCertification soft-deletes an owned certification. Tag
// associations stay in place; the default soft-delete scope hides the row.
func DeleteCertification(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, id uuid.UUID) error {
	c, err := GetCertification(ctx, rclient, gormDB, ownerID, id)
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Delete(c).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete certification")
	}
	return nil
}

// AssignTag attaches a tag to a certification. Both must belong to
// ownerID. Assigning an already-assigned tag succeeds without creating a
// second association row.
func AssignTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, certID, tagID uuid.UUID) error {
	c, err := GetCertification(ctx, rclient, gormDB, ownerID, certID)
	if err != nil {
		return err
	}
	tag, err := GetTag(ctx, rclient, gormDB, ownerID, tagID)
	if err != nil {
		return err
	}

	// Association Append upserts the join row, so repeats are idempotent.
	if err := gormDB.WithContext(ctx).Model(c).Association("Tags").Append(tag); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to assign tag")
	}
	return nil
}

// RemoveTag detaches a tag from a certification. Removing an assignment
// that does not exist succeeds.
func RemoveTag(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, certID, tagID uuid.UUID) error {
	c, err := GetCertification(ctx, rclient, gormDB, ownerID, certID)
	if err != nil {
		return err
	}
	tag, err := GetTag(ctx, rclient, gormDB, ownerID, tagID)
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Model(c).Association("Tags").Delete(tag); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to remove tag")
	}
	return nil
}
