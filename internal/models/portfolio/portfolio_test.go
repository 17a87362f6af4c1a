package models

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortfolioSlugFromTitle(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	p := &Portfolio{Title: "My First Portfolio!"}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, owner, p))
	assert.Equal(t, "my-first-portfolio", p.Slug)
}

func TestCreatePortfolioSlugConflictPerOwner(t *testing.T) {
	gdb := setupTestDB(t)
	ownerA := uuid.New()
	ownerB := uuid.New()

	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, ownerA, &Portfolio{Title: "Resume", Slug: "resume"}))

	err := CreatePortfolio(context.Background(), nil, gdb, ownerA, &Portfolio{Title: "Resume Again", Slug: "resume"})
	require.Error(t, err, "same owner cannot reuse a slug")

	// Different owners can share a slug.
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, ownerB, &Portfolio{Title: "Resume", Slug: "resume"}))
}

func TestCreatePortfolioSlugConflictAfterSoftDelete(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	p := &Portfolio{Title: "My Site", Slug: "my-site"}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, owner, p))
	require.NoError(t, DeletePortfolio(context.Background(), nil, gdb, owner, p.ID))

	// The soft-deleted row still occupies the unique index, so reusing the
	// slug is a conflict rather than a database error.
	err := CreatePortfolio(context.Background(), nil, gdb, owner, &Portfolio{Title: "My Site", Slug: "my-site"})
	require.Error(t, err)

	var cerr *utils.CustomError
	require.True(t, utils.As(err, &cerr))
	assert.Equal(t, utils.ErrConflict.Code, cerr.Code)
}

func TestPortfolioSoftDelete(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	require.NoError(t, DeletePortfolio(context.Background(), nil, gdb, owner, p.ID))

	_, err := GetPortfolio(context.Background(), nil, gdb, owner, p.ID)
	require.Error(t, err)

	var count int64
	require.NoError(t, gdb.Unscoped().Model(&Portfolio{}).Where("id = ?", p.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetPublicPortfolioBySlug(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	p := &Portfolio{Title: "Public Work", Slug: "public-work", IsPublic: true}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, owner, p))

	shown := appendTestSection(t, gdb, owner, p, SectionSummary)
	hidden := appendTestSection(t, gdb, owner, p, SectionSkills)
	off := false
	_, err := UpdateSection(context.Background(), nil, gdb, owner, p.ID, hidden.ID, SectionUpdate{IsVisible: &off})
	require.NoError(t, err)

	got, err := GetPublicPortfolio(context.Background(), gdb, "public-work")
	require.NoError(t, err)
	require.Len(t, got.Sections, 1, "hidden sections stay out of the public view")
	assert.Equal(t, shown.ID, got.Sections[0].ID)
}

func TestGetPublicPortfolioRejectsPrivate(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	p := &Portfolio{Title: "Private Work", Slug: "private-work"}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, owner, p))

	_, err := GetPublicPortfolio(context.Background(), gdb, "private-work")
	require.Error(t, err)
}

func TestGetPublicPortfolioByShareToken(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()

	p := &Portfolio{Title: "Shared Draft", Slug: "shared-draft"}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, owner, p))

	updated, err := UpdatePortfolio(context.Background(), nil, gdb, owner, p.ID, WithShareToken("a1b2c3token"))
	require.NoError(t, err)

	// Share token grants access even though the portfolio stays private.
	got, err := GetPublicPortfolio(context.Background(), gdb, updated.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestListPortfoliosScopedToOwner(t *testing.T) {
	gdb := setupTestDB(t)
	ownerA := uuid.New()
	ownerB := uuid.New()

	createTestPortfolio(t, gdb, ownerA)
	createTestPortfolio(t, gdb, ownerA)
	createTestPortfolio(t, gdb, ownerB)

	listA, err := ListPortfolios(context.Background(), gdb, ownerA, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listA, 2)

	listB, err := ListPortfolios(context.Background(), gdb, ownerB, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listB, 1)
}

func TestDecodeCachedPortfolioOwnerScoping(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	p := Portfolio{ID: uuid.New(), OwnerID: owner, Title: "Cached", Slug: "cached"}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	got := decodeCachedPortfolio(data, owner)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	// A cache hit must not bypass ownership scoping.
	assert.Nil(t, decodeCachedPortfolio(data, other))
	assert.Nil(t, decodeCachedPortfolio([]byte("{not json"), owner))
	assert.Nil(t, decodeCachedPortfolio([]byte("{}"), owner))
}

func TestUpdatePortfolioVisibility(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)
	require.False(t, p.IsPublic)

	updated, err := UpdatePortfolio(context.Background(), nil, gdb, owner, p.ID, WithVisibility(true))
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	got, err := GetPublicPortfolio(context.Background(), gdb, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}
