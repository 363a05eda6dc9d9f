package domain

// BrightnessBand is one band of the static sky-brightness reference
// scale drawn as background shading behind the scatter plot. Bounds are
// MSAS magnitudes (mag/arcsec²); higher means darker sky.
type BrightnessBand struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
}

// BrightnessScale is the fixed 8-band reference table derived from the
// commonly used Bortle-class-to-MSAS mapping. It is static chart
// configuration, never computed from data.
var BrightnessScale = []BrightnessBand{
	{Name: "Excellent dark-sky site", Min: 21.76, Max: 22.00, Color: "#1a1a2e"},
	{Name: "Typical dark site", Min: 21.60, Max: 21.75, Color: "#30305a"},
	{Name: "Rural sky", Min: 21.30, Max: 21.59, Color: "#2a5a8c"},
	{Name: "Rural/suburban transition", Min: 20.80, Max: 21.29, Color: "#2e8b57"},
	{Name: "Suburban sky", Min: 20.30, Max: 20.79, Color: "#d9cf30"},
	{Name: "Bright suburban sky", Min: 19.25, Max: 20.29, Color: "#e8a33d"},
	{Name: "Suburban/urban transition", Min: 18.50, Max: 19.24, Color: "#e05c4b"},
	{Name: "City sky", Min: 16.50, Max: 18.49, Color: "#f2f2f2"},
}
