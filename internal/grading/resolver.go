package grading

import "math"

// Submission is one raw score entry from a user. Exactly one of the four
// value shapes must be populated: Grade (calculative letter value), BandID
// (representative band reference), Points, or Percent.
type Submission struct {
	Grade   *float64    `json:"grade,omitempty"`
	BandID  string      `json:"band_id,omitempty"`
	Points  *PointsPair `json:"points,omitempty"`
	Percent *float64    `json:"percent,omitempty"`
}

// PointsPair is an earned/total points entry. A reversed pair
// (Earned > Total) is tolerated and swapped before the ratio is taken.
type PointsPair struct {
	Total  float64 `json:"total"`
	Earned float64 `json:"earned"`
}

func (s Submission) shapes() int {
	n := 0
	if s.Grade != nil {
		n++
	}
	if s.BandID != "" {
		n++
	}
	if s.Points != nil {
		n++
	}
	if s.Percent != nil {
		n++
	}
	return n
}

// Resolver converts between raw submissions and stored percentages for one
// grading system. Implementations are selected by the system's family tag.
type Resolver interface {
	// ResolveSubmission converts a submission into a stored percentage
	// (0-100, one decimal place).
	ResolveSubmission(sub Submission) (float64, error)
	// DisplayGrade converts an aggregated percentage back into the
	// human-facing grade.
	DisplayGrade(pct float64) (Display, error)
}

// ForSystem returns the resolver for sys's family.
func ForSystem(sys System) (Resolver, error) {
	switch sys.Family {
	case FamilyCalculative:
		if sys.Calculative == nil {
			return nil, ErrConfigurationFault
		}
		return calculativeResolver{detail: *sys.Calculative}, nil
	case FamilyRepresentative:
		return representativeResolver{bands: sys.Bands}, nil
	default:
		return nil, ErrConfigurationFault
	}
}

// LegendFor returns the legend band containing pct among sys's legend bands.
// When none contains it (legend bands that stop above 0%), the band with the
// smallest upper bound is returned instead.
func LegendFor(sys System, pct float64) (Band, bool) {
	if len(sys.LegendBands) == 0 {
		return Band{}, false
	}
	var lowest *Band
	for i := range sys.LegendBands {
		b := sys.LegendBands[i]
		if pct >= b.Bottom && pct < b.Top {
			return b, true
		}
		if lowest == nil || b.Top < lowest.Top {
			lowest = &sys.LegendBands[i]
		}
	}
	return *lowest, true
}

// roundTenth rounds half-to-even at the tenths digit.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// roundCent rounds half-to-even at the hundredths digit.
func roundCent(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// ratio normalizes a points pair, swapping a reversed entry.
func (p PointsPair) ratio() (float64, error) {
	total, earned := p.Total, p.Earned
	if earned > total {
		total, earned = earned, total
	}
	if total == 0 {
		return 0, ErrInvalidInput
	}
	return earned / total, nil
}

type calculativeResolver struct {
	detail CalculativeDetail
}

func (r calculativeResolver) ResolveSubmission(sub Submission) (float64, error) {
	if sub.shapes() != 1 {
		return 0, ErrInvalidInput
	}
	d := r.detail
	floor := d.BottomPer / 100
	span := 1 - floor

	switch {
	case sub.Grade != nil:
		frac := (*sub.Grade - d.Bottom) / (d.Top - d.Bottom)
		return roundTenth((frac*span + floor) * 100), nil
	case sub.Points != nil:
		frac, err := sub.Points.ratio()
		if err != nil {
			return 0, err
		}
		return roundTenth((frac*span + floor) * 100), nil
	case sub.Percent != nil:
		return roundTenth(*sub.Percent*span + d.BottomPer), nil
	default:
		// a band reference has no meaning on a calculative scale
		return 0, ErrInvalidInput
	}
}

func (r calculativeResolver) DisplayGrade(pct float64) (Display, error) {
	d := r.detail
	switch {
	case pct == 0:
		return Display{Value: d.Bottom}, nil
	case pct > d.BottomPer:
		g := (pct - d.BottomPer) / (100 - d.BottomPer) * (d.Top - d.Bottom) + d.Bottom
		return Display{Value: roundCent(g)}, nil
	default:
		// under the floor the grade collapses into [0, Bottom]
		return Display{Value: roundCent(pct / d.BottomPer * d.Bottom)}, nil
	}
}

type representativeResolver struct {
	bands []Band
}

func (r representativeResolver) ResolveSubmission(sub Submission) (float64, error) {
	if sub.shapes() != 1 {
		return 0, ErrInvalidInput
	}
	switch {
	case sub.BandID != "":
		for _, b := range r.bands {
			if b.ID == sub.BandID {
				return roundTenth((b.Top + b.Bottom) / 2), nil
			}
		}
		return 0, ErrInvalidInput
	case sub.Points != nil:
		frac, err := sub.Points.ratio()
		if err != nil {
			return 0, err
		}
		return roundTenth(frac * 100), nil
	case sub.Percent != nil:
		return roundTenth(*sub.Percent), nil
	default:
		return 0, ErrInvalidInput
	}
}

func (r representativeResolver) DisplayGrade(pct float64) (Display, error) {
	b, ok := bandFor(r.bands, pct)
	if !ok {
		return Display{}, ErrNoBand
	}
	return Display{Label: b.Label, BandID: b.ID, Level: b.Level}, nil
}
