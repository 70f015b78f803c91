package colors

// Preset names
const (
	PresetDefault    = "default"
	PresetMonochrome = "monochrome"
)

var presets = map[string]ColorScheme{
	PresetDefault: {
		Preset:       PresetDefault,
		Accent:       "#7D56F4",
		ColumnBorder: "#4E6E9E",
		Title:        "#E0AFFF",
		Subtle:       "#6C6C6C",
		Normal:       "#DADADA",
		Feature:      "#3FB950",
		Bug:          "#F85149",
		Issue:        "#D29922",
		SuccessFg:    "#3FB950",
		SuccessBg:    "#0F2E17",
		InfoFg:       "#58A6FF",
		InfoBg:       "#0C2D6B",
		WarningFg:    "#D29922",
		WarningBg:    "#3B2E0A",
		ErrorFg:      "#F85149",
		ErrorBg:      "#3C1212",
	},
	PresetMonochrome: {
		Preset:       PresetMonochrome,
		Accent:       "#FFFFFF",
		ColumnBorder: "#BCBCBC",
		Title:        "#FFFFFF",
		Subtle:       "#6C6C6C",
		Normal:       "#DADADA",
		Feature:      "#FFFFFF",
		Bug:          "#FFFFFF",
		Issue:        "#FFFFFF",
		SuccessFg:    "#FFFFFF",
		SuccessBg:    "#262626",
		InfoFg:       "#FFFFFF",
		InfoBg:       "#262626",
		WarningFg:    "#FFFFFF",
		WarningBg:    "#3A3A3A",
		ErrorFg:      "#FFFFFF",
		ErrorBg:      "#4E4E4E",
	},
}

// Default is the scheme used when nothing is configured
func Default() *ColorScheme {
	return Preset(PresetDefault)
}

// Monochrome is a black and white scheme for terminals without color
func Monochrome() *ColorScheme {
	return Preset(PresetMonochrome)
}

// Preset returns a copy of the named preset. Unknown names get the default.
func Preset(name string) *ColorScheme {
	p, ok := presets[name]
	if !ok {
		p = presets[PresetDefault]
	}
	return &p
}
