package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func june(day int) Date {
	return NewDate(2024, time.June, day)
}

func centerA() Center {
	return Center{
		ID:      1,
		Name:    "A",
		Pincode: 110001,
		FeeType: "Free",
		Sessions: []Session{
			{Date: june(10), MinAge: 18, Capacity: 5, Vaccine: "X"},
		},
	}
}

func TestAggregateSingleSession(t *testing.T) {
	result, err := Aggregate([]Center{centerA()}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, "A", row.Center.Name)
	require.NotNil(t, row.Cells[0])
	assert.Equal(t, 5, row.Cells[0].Available)
	assert.Equal(t, "X", row.Cells[0].Vaccine)
	for day := 1; day < DaysInWeek; day++ {
		assert.Nil(t, row.Cells[day], "day %d should be empty", day)
	}
	assert.Equal(t, 5, result.Total)
	assert.False(t, result.Empty())
}

func TestAggregateAgeMismatch(t *testing.T) {
	for _, dose := range []Dose{DoseAny, DoseFirst, DoseSecond} {
		result, err := Aggregate([]Center{centerA()}, Criteria{MinAge: 45, Dose: dose, WeekStart: june(10)})
		require.NoError(t, err)
		assert.Empty(t, result.Rows)
		assert.True(t, result.Empty())
	}
}

func TestAggregateDoseSelection(t *testing.T) {
	center := Center{
		Name: "B",
		Sessions: []Session{
			{Date: june(11), MinAge: 45, Dose1: 0, Dose2: 3, Vaccine: "COVISHIELD"},
		},
	}

	first, err := Aggregate([]Center{center}, Criteria{MinAge: 45, Dose: DoseFirst, WeekStart: june(10)})
	require.NoError(t, err)
	assert.Empty(t, first.Rows)
	assert.True(t, first.Empty())

	second, err := Aggregate([]Center{center}, Criteria{MinAge: 45, Dose: DoseSecond, WeekStart: june(10)})
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)
	require.NotNil(t, second.Rows[0].Cells[1])
	assert.Equal(t, 3, second.Rows[0].Cells[1].Available)
	assert.Equal(t, 3, second.Total)
}

func TestAggregateZeroCapacityIsNotAvailable(t *testing.T) {
	center := Center{
		Name: "C",
		Sessions: []Session{
			{Date: june(10), MinAge: 18, Capacity: 0, Vaccine: "X"},
			{Date: june(12), MinAge: 18, Capacity: 2, Vaccine: "Y"},
		},
	}

	result, err := Aggregate([]Center{center}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Nil(t, result.Rows[0].Cells[0])
	require.NotNil(t, result.Rows[0].Cells[2])
	assert.Equal(t, "Y", result.Rows[0].Cells[2].Vaccine)
}

func TestAggregateWindowBounds(t *testing.T) {
	center := Center{
		Name: "D",
		Sessions: []Session{
			{Date: june(9), MinAge: 18, Capacity: 4, Vaccine: "before"},
			{Date: june(16), MinAge: 18, Capacity: 6, Vaccine: "last"},
			{Date: june(17), MinAge: 18, Capacity: 8, Vaccine: "after"},
		},
	}

	result, err := Aggregate([]Center{center}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)

	for i, day := range result.Window {
		assert.Equal(t, june(10).AddDays(i), day)
	}
	require.Len(t, result.Rows, 1)
	cells := result.Rows[0].Cells
	require.NotNil(t, cells[6])
	assert.Equal(t, "last", cells[6].Vaccine)
	for day := 0; day < 6; day++ {
		assert.Nil(t, cells[day])
	}
	assert.Equal(t, 6, result.Total)
}

func TestAggregateOutOfWindowOnlyIsEmpty(t *testing.T) {
	center := Center{
		Name:     "E",
		Sessions: []Session{{Date: june(17), MinAge: 18, Capacity: 8, Vaccine: "X"}},
	}

	result, err := Aggregate([]Center{center}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.True(t, result.Empty())
}

func TestAggregateKeepsInputOrderAndMergesCenters(t *testing.T) {
	centers := []Center{
		{Name: "Z", Sessions: []Session{{Date: june(10), MinAge: 18, Capacity: 1, Vaccine: "X"}, {Date: june(11), MinAge: 18, Capacity: 2, Vaccine: "X"}}},
		{Name: "none", Sessions: []Session{{Date: june(10), MinAge: 45, Capacity: 9, Vaccine: "X"}}},
		{Name: "A", Sessions: []Session{{Date: june(13), MinAge: 18, Capacity: 10, Vaccine: "Y"}}},
	}

	result, err := Aggregate(centers, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Z", result.Rows[0].Center.Name)
	assert.Equal(t, "A", result.Rows[1].Center.Name)
	assert.Equal(t, 3, result.Rows[0].Total())
	assert.Equal(t, 13, result.Total)
}

func TestAggregateFirstSessionWinsOnDuplicateDate(t *testing.T) {
	center := Center{
		Name: "F",
		Sessions: []Session{
			{Date: june(10), MinAge: 18, Capacity: 0, Vaccine: "skipped"},
			{Date: june(10), MinAge: 18, Capacity: 3, Vaccine: "first"},
			{Date: june(10), MinAge: 18, Capacity: 7, Vaccine: "second"},
		},
	}

	result, err := Aggregate([]Center{center}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.NoError(t, err)
	require.NotNil(t, result.Rows[0].Cells[0])
	assert.Equal(t, "first", result.Rows[0].Cells[0].Vaccine)
	assert.Equal(t, 3, result.Total)
}

func TestAggregateIsPure(t *testing.T) {
	centers := []Center{centerA(), {Name: "G", Sessions: []Session{{Date: june(14), MinAge: 18, Capacity: 2, Vaccine: "X"}}}}
	criteria := Criteria{MinAge: 18, WeekStart: june(10)}

	first, err := Aggregate(centers, criteria)
	require.NoError(t, err)
	second, err := Aggregate(centers, criteria)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 7, second.Total)
}

func TestAggregateRejectsMalformedCenters(t *testing.T) {
	_, err := Aggregate([]Center{{Sessions: nil}}, Criteria{MinAge: 18, WeekStart: june(10)})
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "centers[0].name", shapeErr.Path)

	_, err = Aggregate([]Center{centerA(), {Name: "H", Sessions: []Session{{MinAge: 18, Capacity: 1}}}}, Criteria{MinAge: 18, WeekStart: june(10)})
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "centers[1].sessions[0].date", shapeErr.Path)
}

func TestWeekWindowAcrossMonthEnd(t *testing.T) {
	w := NewWeekWindow(NewDate(2024, time.February, 27))
	assert.Equal(t, NewDate(2024, time.February, 29), w[2])
	assert.Equal(t, NewDate(2024, time.March, 4), w[6])
	assert.Equal(t, -1, w.Index(NewDate(2024, time.March, 5)))
	assert.Equal(t, 3, w.Index(NewDate(2024, time.March, 1)))
	assert.Equal(t, "Feb 27, 2024", w.Labels()[0])
}
