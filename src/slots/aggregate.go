package slots

import "fmt"

// Qualifies reports whether s is bookable under c: its age threshold equals
// c.MinAge and the capacity for c.Dose is strictly positive.
func (c Criteria) Qualifies(s Session) bool {
	return s.MinAge == c.MinAge && s.Available(c.Dose) > 0
}

// Aggregate builds the weekly availability matrix for centers.
//
// Rows keep the input order of centers that have at least one qualifying
// session. Each row holds the qualifying session of every window day; when a
// center lists several qualifying sessions for the same day the first one
// wins. The result is a fresh value on every call.
func Aggregate(centers []Center, c Criteria) (Result, error) {
	result := Result{Window: NewWeekWindow(c.WeekStart)}

	for i, center := range centers {
		if err := validate(i, center); err != nil {
			return Result{}, err
		}

		row := AvailabilityRow{Center: center}
		qualifying := false
		for _, s := range center.Sessions {
			if !c.Qualifies(s) {
				continue
			}
			qualifying = true

			day := result.Window.Index(s.Date)
			if day < 0 || row.Cells[day] != nil {
				continue
			}
			row.Cells[day] = &Cell{Available: s.Available(c.Dose), Vaccine: s.Vaccine, Slots: s.Slots}
		}

		if qualifying {
			result.Total += row.Total()
			result.Rows = append(result.Rows, row)
		}
	}

	return result, nil
}

func validate(i int, center Center) error {
	path := fmt.Sprintf("centers[%d]", i)
	if center.Name == "" {
		return &ShapeError{Path: path + ".name", Reason: "center has no name"}
	}
	for j, s := range center.Sessions {
		if s.Date.IsZero() {
			return &ShapeError{Path: fmt.Sprintf("%s.sessions[%d].date", path, j), Reason: "session has no date"}
		}
	}
	return nil
}
