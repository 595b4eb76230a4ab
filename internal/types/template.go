package types

// TemplateStyling is the normalized styling block of a CV template. The
// backend returns these fields in a few historical layouts; the catalog
// normalizes them into this shape at the boundary.
type TemplateStyling struct {
	FontFamily  string  `json:"font_family"`
	FontSize    int     `json:"font_size"`
	AccentColor string  `json:"accent_color"`
	LineSpacing float64 `json:"line_spacing"`
	MarginMM    int     `json:"margin_mm"`
}

// TemplateSection is one named section of a template layout with its
// visibility flag. Order is significant.
type TemplateSection struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

// CVTemplate is a read-only catalog entry describing an export layout.
// Immutable from the client's perspective.
type CVTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	ATSFriendly bool              `json:"ats_friendly"`
	Styling     TemplateStyling   `json:"styling"`
	Sections    []TemplateSection `json:"sections"`
}
