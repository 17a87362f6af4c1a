package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogContainsDefaults(t *testing.T) {
	assert.True(t, ValidTemplateID(DefaultTemplateID))
	assert.True(t, ValidThemeID(DefaultThemeID))
}

func TestTemplateByIDFallsBack(t *testing.T) {
	assert.Equal(t, "modern", TemplateByID("modern").ID)
	assert.Equal(t, DefaultTemplateID, TemplateByID("no-such-template").ID)
	assert.Equal(t, DefaultTemplateID, TemplateByID("").ID)
}

func TestThemeByIDFallsBack(t *testing.T) {
	assert.Equal(t, "midnight", ThemeByID("midnight").ID)
	assert.Equal(t, DefaultThemeID, ThemeByID("no-such-theme").ID)
	assert.Equal(t, DefaultThemeID, ThemeByID("").ID)
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	ts := Templates()
	ts[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Templates()[0].Name)

	th := Themes()
	th[0].Primary = "#000000"
	assert.NotEqual(t, "#000000", Themes()[0].Primary)
}
