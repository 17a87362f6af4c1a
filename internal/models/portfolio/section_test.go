package models

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&Portfolio{}, &Section{}, &Certification{}, &Tag{}))
	return gdb
}

func createTestPortfolio(t *testing.T, gdb *gorm.DB, ownerID uuid.UUID) *Portfolio {
	t.Helper()
	p := &Portfolio{Title: "Test Portfolio", Slug: "test-portfolio-" + uuid.NewString()[:8]}
	require.NoError(t, CreatePortfolio(context.Background(), nil, gdb, ownerID, p))
	return p
}

func appendTestSection(t *testing.T, gdb *gorm.DB, ownerID uuid.UUID, p *Portfolio, st SectionType) *Section {
	t.Helper()
	s := &Section{PortfolioID: p.ID, Type: st}
	require.NoError(t, CreateSection(context.Background(), nil, gdb, ownerID, s))
	return s
}

func orders(sections []Section) []int {
	out := make([]int, len(sections))
	for i, s := range sections {
		out[i] = s.DisplayOrder
	}
	return out
}

func TestCreateSectionAssignsSequentialOrder(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	types := []SectionType{SectionSummary, SectionSkills, SectionProjects, SectionCustom}
	for _, st := range types {
		appendTestSection(t, gdb, owner, p, st)
	}

	sections, err := ListSections(context.Background(), nil, gdb, owner, p.ID)
	require.NoError(t, err)
	require.Len(t, sections, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, orders(sections))
	for i, st := range types {
		assert.Equal(t, st, sections[i].Type, "creation order must be preserved")
	}
}

func TestCreateSectionRejectsUnknownType(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	err := CreateSection(context.Background(), nil, gdb, owner, &Section{PortfolioID: p.ID, Type: "banner"})
	require.Error(t, err)
}

func TestCreateSectionRejectsMismatchedContent(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	err := CreateSection(context.Background(), nil, gdb, owner, &Section{
		PortfolioID: p.ID,
		Type:        SectionSkills,
		Content:     `{"skills": "not-an-array"}`,
	})
	require.Error(t, err)
}

func TestDeleteSectionCompactsOrder(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	var created []*Section
	for i := 0; i < 4; i++ {
		created = append(created, appendTestSection(t, gdb, owner, p, SectionCustom))
	}

	// Remove the section at order 2; the rest close the gap keeping their
	// relative order.
	require.NoError(t, DeleteSection(context.Background(), nil, gdb, owner, p.ID, created[1].ID))

	sections, err := ListSections(context.Background(), nil, gdb, owner, p.ID)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, []int{1, 2, 3}, orders(sections))
	assert.Equal(t, created[0].ID, sections[0].ID)
	assert.Equal(t, created[2].ID, sections[1].ID)
	assert.Equal(t, created[3].ID, sections[2].ID)
}

func TestDeleteLastSectionLeavesOthersUntouched(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	first := appendTestSection(t, gdb, owner, p, SectionSummary)
	last := appendTestSection(t, gdb, owner, p, SectionSkills)

	require.NoError(t, DeleteSection(context.Background(), nil, gdb, owner, p.ID, last.ID))

	sections, _ := ListSections(context.Background(), nil, gdb, owner, p.ID)
	require.Len(t, sections, 1)
	assert.Equal(t, first.ID, sections[0].ID)
	assert.Equal(t, 1, sections[0].DisplayOrder)
}

func TestReorderSections(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s := appendTestSection(t, gdb, owner, p, SectionCustom)
		ids = append(ids, s.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	sections, err := ReorderSections(context.Background(), nil, gdb, owner, p.ID, reversed)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, []int{1, 2, 3}, orders(sections))
	for i, id := range reversed {
		assert.Equal(t, id, sections[i].ID)
	}
}

func TestReorderSectionsIdempotent(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ids = append(ids, appendTestSection(t, gdb, owner, p, SectionCustom).ID)
	}

	// Reordering to the current order is a no-op that still succeeds.
	sections, err := ReorderSections(context.Background(), nil, gdb, owner, p.ID, ids)
	require.NoError(t, err)
	for i, id := range ids {
		assert.Equal(t, id, sections[i].ID)
		assert.Equal(t, i+1, sections[i].DisplayOrder)
	}
}

func TestReorderSectionsEmptyPortfolio(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	sections, err := ReorderSections(context.Background(), nil, gdb, owner, p.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestReorderSectionsRejectsMismatchedSets(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ids = append(ids, appendTestSection(t, gdb, owner, p, SectionCustom).ID)
	}

	cases := map[string][]uuid.UUID{
		"missing an id":   {ids[0], ids[1]},
		"foreign id":      {ids[0], ids[1], uuid.New()},
		"duplicated id":   {ids[0], ids[1], ids[1]},
		"superset of ids": {ids[0], ids[1], ids[2], uuid.New()},
	}

	for name, list := range cases {
		_, err := ReorderSections(context.Background(), nil, gdb, owner, p.ID, list)
		require.Error(t, err, name)

		// No partial application: orders stay exactly as they were.
		sections, _ := ListSections(context.Background(), nil, gdb, owner, p.ID)
		assert.Equal(t, []int{1, 2, 3}, orders(sections), name)
		for i, id := range ids {
			assert.Equal(t, id, sections[i].ID, name)
		}
	}
}

func TestSectionOwnershipIsolation(t *testing.T) {
	gdb := setupTestDB(t)
	ownerA := uuid.New()
	ownerB := uuid.New()
	p := createTestPortfolio(t, gdb, ownerA)
	s := appendTestSection(t, gdb, ownerA, p, SectionSummary)

	// Owner B can neither list nor mutate A's sections even with guessed ids.
	_, err := ListSections(context.Background(), nil, gdb, ownerB, p.ID)
	require.Error(t, err)

	_, err = GetSection(context.Background(), nil, gdb, ownerB, p.ID, s.ID)
	require.Error(t, err)

	err = DeleteSection(context.Background(), nil, gdb, ownerB, p.ID, s.ID)
	require.Error(t, err)

	title := "hijacked"
	_, err = UpdateSection(context.Background(), nil, gdb, ownerB, p.ID, s.ID, SectionUpdate{Title: &title})
	require.Error(t, err)

	// Still intact for the real owner.
	got, err := GetSection(context.Background(), nil, gdb, ownerA, p.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
}

func TestUpdateSectionRequiresFields(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)
	s := appendTestSection(t, gdb, owner, p, SectionSummary)

	_, err := UpdateSection(context.Background(), nil, gdb, owner, p.ID, s.ID, SectionUpdate{})
	require.Error(t, err)
}

func TestUpdateSectionValidatesContentAgainstType(t *testing.T) {
	gdb := setupTestDB(t)
	owner := uuid.New()
	p := createTestPortfolio(t, gdb, owner)
	s := appendTestSection(t, gdb, owner, p, SectionSummary)

	good := `{"headline":"Hi","body":"I build things."}`
	updated, err := UpdateSection(context.Background(), nil, gdb, owner, p.ID, s.ID, SectionUpdate{Content: &good})
	require.NoError(t, err)
	assert.Equal(t, good, updated.Content)

	bad := `{"headline": 42}`
	_, err = UpdateSection(context.Background(), nil, gdb, owner, p.ID, s.ID, SectionUpdate{Content: &bad})
	require.Error(t, err)
}
