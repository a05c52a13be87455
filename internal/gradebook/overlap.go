package gradebook

// NonOverlapping reports whether candidate shares no calendar day with any
// semester in existing. Overlap is inclusive on both ends: back-to-back
// semesters must not share even their boundary days. excludeID skips one
// semester, so an edited semester is not checked against itself.
func NonOverlapping(candidate Semester, existing []Semester, excludeID string) bool {
	for _, s := range existing {
		if s.ID == excludeID {
			continue
		}
		latestStart := maxDate(candidate.Start, s.Start)
		earliestEnd := minDate(candidate.End, s.End)
		if latestStart.DaysUntil(earliestEnd)+1 > 0 {
			return false
		}
	}
	return true
}
