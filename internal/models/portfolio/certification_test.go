package models

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestCertification(t *testing.T, gdb *gorm.DB, ownerID uuid.UUID) *Certification {
	t.Helper()
	c := &Certification{Type: CertManual, Title: "AWS Solutions Architect", Issuer: "Amazon"}
	require.NoError(t, CreateCertification(context.Background(), nil, gdb, ownerID, c))
	return c
}

func createTestTag(t *testing.T, gdb *gorm.DB, ownerID uuid.UUID, name string) *Tag {
	t.Helper()
	tag := &Tag{Name: name, Color: "#336699"}
	require.NoError(t, CreateTag(context.Background(), nil, gdb, ownerID, tag))
	return tag
}

func TestCertificationTypeFieldRules(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	err := CreateCertification(context.Background(), nil, gdb, owner, &Certification{
		Type: CertFilePDF, Title: "No file attached",
	})
	require.Error(t, err, "file type without file reference")

	err = CreateCertification(context.Background(), nil, gdb, owner, &Certification{
		Type: CertExternalLink, Title: "No link attached",
	})
	require.Error(t, err, "link type without external url")

	err = CreateCertification(context.Background(), nil, gdb, owner, &Certification{
		Type: CertFilePDF, Title: "Diploma", FileURL: "https://cdn.example.com/diploma.pdf",
	})
	require.NoError(t, err)
}

func TestCertificationSoftDelete(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	c := createTestCertification(t, gdb, owner)

	require.NoError(t, DeleteCertification(context.Background(), nil, gdb, owner, c.ID))

	_, err := GetCertification(context.Background(), nil, gdb, owner, c.ID)
	require.Error(t, err, "soft-deleted rows are invisible to reads")

	// The row itself survives the delete.
	var count int64
	require.NoError(t, gdb.Unscoped().Model(&Certification{}).Where("id = ?", c.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCertificationOwnershipIsolation(t *testing.T) {
	gdb := setupTestDB(t)
	ownerA := uuid.New()
	ownerB := uuid.New()
	c := createTestCertification(t, gdb, ownerA)

	_, err := GetCertification(context.Background(), nil, gdb, ownerB, c.ID)
	require.Error(t, err)

	err = DeleteCertification(context.Background(), nil, gdb, ownerB, c.ID)
	require.Error(t, err)

	title := "stolen"
	_, err = UpdateCertification(context.Background(), nil, gdb, ownerB, c.ID, CertificationUpdate{Title: &title})
	require.Error(t, err)

	got, err := GetCertification(context.Background(), nil, gdb, ownerA, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "AWS Solutions Architect", got.Title)
}

func TestListCertificationsVisibleOnly(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	visible := createTestCertification(t, gdb, owner)
	hidden := createTestCertification(t, gdb, owner)
	off := false
	_, err := UpdateCertification(context.Background(), nil, gdb, owner, hidden.ID, CertificationUpdate{IsVisible: &off})
	require.NoError(t, err)

	all, err := ListCertifications(context.Background(), gdb, owner, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shown, err := ListCertifications(context.Background(), gdb, owner, true, 0, 0)
	require.NoError(t, err)
	require.Len(t, shown, 1)
	assert.Equal(t, visible.ID, shown[0].ID)
}

func TestAssignTagIdempotent(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	c := createTestCertification(t, gdb, owner)
	tag := createTestTag(t, gdb, owner, "cloud")

	require.NoError(t, AssignTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))
	require.NoError(t, AssignTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))

	got, err := GetCertification(context.Background(), nil, gdb, owner, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1, "repeated assignment must not duplicate the link")
	assert.Equal(t, "cloud", got.Tags[0].Name)
}

func TestRemoveTagIdempotent(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	c := createTestCertification(t, gdb, owner)
	tag := createTestTag(t, gdb, owner, "backend")

	require.NoError(t, AssignTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))
	require.NoError(t, RemoveTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))
	require.NoError(t, RemoveTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))

	got, err := GetCertification(context.Background(), nil, gdb, owner, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	// The tag itself is untouched by unlinking.
	_, err = GetTag(context.Background(), nil, gdb, owner, tag.ID)
	require.NoError(t, err)
}

func TestAssignTagRequiresOwnedTag(t *testing.T) {
	gdb := setupTestDB(t)
	ownerA := uuid.New()
	ownerB := uuid.New()
	c := createTestCertification(t, gdb, ownerA)
	foreign := createTestTag(t, gdb, ownerB, "theirs")

	err := AssignTag(context.Background(), nil, gdb, ownerA, c.ID, foreign.ID)
	require.Error(t, err, "cross-owner tag assignment is rejected")
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	createTestTag(t, gdb, owner, "golang")

	err := CreateTag(context.Background(), nil, gdb, owner, &Tag{Name: "golang", Color: "#00ADD8"})
	require.Error(t, err)

	// Same name under another owner is fine.
	other := uuid.New()
	require.NoError(t, CreateTag(context.Background(), nil, gdb, other, &Tag{Name: "golang"}))
}

func TestDeleteTagUnlinksCertifications(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	c := createTestCertification(t, gdb, owner)
	tag := createTestTag(t, gdb, owner, "devops")
	require.NoError(t, AssignTag(context.Background(), nil, gdb, owner, c.ID, tag.ID))

	require.NoError(t, DeleteTag(context.Background(), nil, gdb, owner, tag.ID))

	got, err := GetCertification(context.Background(), nil, gdb, owner, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}
