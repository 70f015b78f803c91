package colors

// ColorScheme holds the colors of the CLI output. Values are hex strings.
type ColorScheme struct {
	Preset string `yaml:"preset" toml:"preset"`

	Accent       string `yaml:"accent" toml:"accent"` // card borders, field names
	ColumnBorder string `yaml:"column_border" toml:"column_border"`
	Title        string `yaml:"title" toml:"title"`
	Subtle       string `yaml:"subtle" toml:"subtle"`
	Normal       string `yaml:"normal" toml:"normal"`

	// Label badges
	Feature string `yaml:"feature" toml:"feature"`
	Bug     string `yaml:"bug" toml:"bug"`
	Issue   string `yaml:"issue" toml:"issue"`

	// Notification foreground/background pairs
	SuccessFg string `yaml:"success_fg" toml:"success_fg"`
	SuccessBg string `yaml:"success_bg" toml:"success_bg"`
	InfoFg    string `yaml:"info_fg" toml:"info_fg"`
	InfoBg    string `yaml:"info_bg" toml:"info_bg"`
	WarningFg string `yaml:"warning_fg" toml:"warning_fg"`
	WarningBg string `yaml:"warning_bg" toml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg" toml:"error_fg"`
	ErrorBg   string `yaml:"error_bg" toml:"error_bg"`
}

// values lists every color field in a fixed order
func (c *ColorScheme) values() []*string {
	return []*string{
		&c.Accent, &c.ColumnBorder, &c.Title, &c.Subtle, &c.Normal,
		&c.Feature, &c.Bug, &c.Issue,
		&c.SuccessFg, &c.SuccessBg, &c.InfoFg, &c.InfoBg,
		&c.WarningFg, &c.WarningBg, &c.ErrorFg, &c.ErrorBg,
	}
}

// ApplyDefaults fills empty colors from the scheme's preset
func (c *ColorScheme) ApplyDefaults() {
	base := Preset(c.Preset)
	c.Preset = base.Preset
	from := base.values()
	for i, dst := range c.values() {
		if *dst == "" {
			*dst = *from[i]
		}
	}
}

// MergeFrom copies every non-empty color of other over c. Naming a
// different preset resets c to that preset first.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" && other.Preset != c.Preset {
		*c = *Preset(other.Preset)
	}
	from := other.values()
	for i, dst := range c.values() {
		if *from[i] != "" {
			*dst = *from[i]
		}
	}
}
