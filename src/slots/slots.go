// Package slots turns CoWIN calendar documents into a weekly availability
// matrix: one row per vaccination center, one column per day.
package slots

// DaysInWeek is the fixed column count of every result.
const DaysInWeek = 7

// Dose selects which capacity field decides whether a session is bookable.
type Dose int

const (
	// DoseAny uses the single available_capacity field of older API versions.
	DoseAny Dose = iota
	DoseFirst
	DoseSecond
)

func (d Dose) Valid() bool {
	return d == DoseAny || d == DoseFirst || d == DoseSecond
}

func (d Dose) String() string {
	switch d {
	case DoseFirst:
		return "dose 1"
	case DoseSecond:
		return "dose 2"
	default:
		return "any dose"
	}
}

type Session struct {
	Date     Date
	MinAge   int
	Capacity int
	Dose1    int
	Dose2    int
	Vaccine  string
	FeeType  string
	Slots    []string
}

// Available returns the remaining capacity that counts for dose.
func (s Session) Available(dose Dose) int {
	switch dose {
	case DoseFirst:
		return s.Dose1
	case DoseSecond:
		return s.Dose2
	default:
		return s.Capacity
	}
}

type Center struct {
	ID       int
	Name     string
	State    string
	District string
	Block    string
	Pincode  int
	Address  string
	FeeType  string
	Sessions []Session
}

// WeekWindow holds seven consecutive days starting at the search date.
type WeekWindow [DaysInWeek]Date

// NewWeekWindow returns start, start+1, ..., start+6.
func NewWeekWindow(start Date) WeekWindow {
	var w WeekWindow
	for i := range w {
		w[i] = start.AddDays(i)
	}
	return w
}

// Index returns the column of d, or -1 when d falls outside the window.
func (w WeekWindow) Index(d Date) int {
	for i, day := range w {
		if day == d {
			return i
		}
	}
	return -1
}

// Labels formats the seven column headers.
func (w WeekWindow) Labels() [DaysInWeek]string {
	var labels [DaysInWeek]string
	for i, day := range w {
		labels[i] = day.Label()
	}
	return labels
}

// Cell is a populated day of an AvailabilityRow.
type Cell struct {
	Available int
	Vaccine   string
	Slots     []string
}

// AvailabilityRow pairs a center with its seven days. A nil cell means no
// eligible availability on that day.
type AvailabilityRow struct {
	Center Center
	Cells  [DaysInWeek]*Cell
}

// Total sums the capacity over the populated cells of the row.
func (r AvailabilityRow) Total() int {
	total := 0
	for _, c := range r.Cells {
		if c != nil {
			total += c.Available
		}
	}
	return total
}

type Criteria struct {
	MinAge    int
	Dose      Dose
	WeekStart Date
}

type Result struct {
	Window WeekWindow
	Rows   []AvailabilityRow
	// Total is the qualifying capacity across all rows and days.
	Total int
}

// Empty reports the "no slots found" state. It holds even when rows exist
// but none of their cells fall inside the window.
func (r Result) Empty() bool {
	return r.Total == 0
}
