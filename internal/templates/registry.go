// Package templates holds the built-in template and theme catalog. The
// catalog is static; portfolios reference entries by id and unknown ids fall
// back to the defaults so stored references never break rendering.
package templates

type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Layout      string `json:"layout"`
}

type Theme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	FontFamily string `json:"font_family"`
}

const (
	DefaultTemplateID = "classic"
	DefaultThemeID    = "slate"
)

var templates = []Template{
	{ID: "classic", Name: "Classic", Description: "Single column with a header band, reads like a traditional resume", Layout: "single-column"},
	{ID: "modern", Name: "Modern", Description: "Two columns with a fixed sidebar for skills and contact details", Layout: "sidebar"},
	{ID: "minimal", Name: "Minimal", Description: "Typography-first layout with generous whitespace", Layout: "single-column"},
	{ID: "showcase", Name: "Showcase", Description: "Card grid that leads with projects and visuals", Layout: "grid"},
}

var themes = []Theme{
	{ID: "slate", Name: "Slate", Primary: "#334155", Background: "#F8FAFC", Text: "#0F172A", FontFamily: "Inter, sans-serif"},
	{ID: "midnight", Name: "Midnight", Primary: "#818CF8", Background: "#0F172A", Text: "#E2E8F0", FontFamily: "Inter, sans-serif"},
	{ID: "forest", Name: "Forest", Primary: "#166534", Background: "#F0FDF4", Text: "#14532D", FontFamily: "Source Serif Pro, serif"},
	{ID: "crimson", Name: "Crimson", Primary: "#9F1239", Background: "#FFF1F2", Text: "#1C1917", FontFamily: "Merriweather, serif"},
	{ID: "mono", Name: "Mono", Primary: "#18181B", Background: "#FFFFFF", Text: "#27272A", FontFamily: "JetBrains Mono, monospace"},
}

// Templates returns the full catalog in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Themes returns the full catalog in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// TemplateByID resolves id, falling back to the default template when the id
// is unknown or empty.
func TemplateByID(id string) Template {
	for _, t := range templates {
		if t.ID == id {
			return t
		}
	}
	return TemplateByID(DefaultTemplateID)
}

// ThemeByID resolves id, falling back to the default theme when the id is
// unknown or empty.
func ThemeByID(id string) Theme {
	for _, t := range themes {
		if t.ID == id {
			return t
		}
	}
	return ThemeByID(DefaultThemeID)
}

// ValidTemplateID reports whether id names a catalog template.
func ValidTemplateID(id string) bool {
	for _, t := range templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// ValidThemeID reports whether id names a catalog theme.
func ValidThemeID(id string) bool {
	for _, t := range themes {
		if t.ID == id {
			return true
		}
	}
	return false
}
