package grading

import "errors"

// Family selects the math a grading system uses.
type Family string

const (
	// FamilyCalculative maps a numeric scale (e.g. Swiss 1-6) onto percentages
	// with a non-linear floor below BottomPer.
	FamilyCalculative Family = "calculative"
	// FamilyRepresentative maps discrete percentage bands onto labels (e.g. A-F).
	FamilyRepresentative Family = "representative"
)

var (
	// ErrInvalidInput covers malformed submissions: not exactly one value shape,
	// or a points pair with zero total.
	ErrInvalidInput = errors.New("grading: invalid input")
	// ErrConfigurationFault means a system's family tag and its detail rows
	// disagree (calculative system without a calculative detail).
	ErrConfigurationFault = errors.New("grading: system misconfigured")
	// ErrNoBand means no representative band contains the percentage.
	ErrNoBand = errors.New("grading: no band for percentage")
)

// CalculativeDetail holds the scale bounds of a calculative system.
// BottomPer is the percentage under which the mapping stops being linear:
// below it, the display grade is scaled into [0, Bottom] instead.
type CalculativeDetail struct {
	Bottom    float64 `json:"bottom"`
	Top       float64 `json:"top"`
	BottomPer float64 `json:"bottom_per"`
}

// Band is a half-open percentage interval [Bottom, Top) with a display label.
// Representative systems use bands as grades; calculative systems use them
// only as a qualitative legend over averages.
type Band struct {
	ID     string `json:"id"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
	Label  string `json:"label"`
	Level  int    `json:"level,omitempty"` // legend level, 1 = best
}

// System is one grading-system instance, read-only to the engine.
// Exactly one of Calculative or Bands is meaningful, per Family.
type System struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Family      Family             `json:"family"`
	Calculative *CalculativeDetail `json:"calculative,omitempty"`
	Bands       []Band             `json:"bands,omitempty"`
	LegendBands []Band             `json:"legend_bands,omitempty"`
}

// Display is the human-facing rendering of a stored percentage.
type Display struct {
	// Value is set for calculative systems (numeric grade, 2 decimals).
	Value float64 `json:"value,omitempty"`
	// Label is set for representative systems (band label).
	Label string `json:"label,omitempty"`
	// BandID references the matched band for representative systems.
	BandID string `json:"band_id,omitempty"`
	// Level carries the matched band's legend level when there is one.
	Level int `json:"level,omitempty"`
}

// bandFor returns the first band in bands containing pct, top exclusive.
// Bands are treated as an unordered set; storage order is not trusted.
func bandFor(bands []Band, pct float64) (Band, bool) {
	for _, b := range bands {
		if pct >= b.Bottom && pct < b.Top {
			return b, true
		}
	}
	return Band{}, false
}
