package slots

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/cowin-slot-checker/src/model"
)

const calendarDocument = `{
  "centers": [
    {
      "center_id": 561183,
      "name": "Gandhi Nagar UPHC",
      "address": "Near Bus Stand",
      "state_name": "Delhi",
      "district_name": "East Delhi",
      "block_name": "Shahdara",
      "pincode": 110031,
      "fee_type": "Paid",
      "sessions": [
        {
          "session_id": "a",
          "date": "10-06-2024",
          "available_capacity": 12,
          "available_capacity_dose1": 0,
          "available_capacity_dose2": 12,
          "min_age_limit": 18,
          "vaccine": "COVAXIN",
          "slots": ["09:00AM-11:00AM", "11:00AM-01:00PM"]
        }
      ]
    }
  ]
}`

func decodeDocument(t *testing.T, doc string) model.CalendarResponse {
	t.Helper()
	var response model.CalendarResponse
	require.NoError(t, json.Unmarshal([]byte(doc), &response))
	return response
}

func TestDecode(t *testing.T) {
	centers, err := Decode(decodeDocument(t, calendarDocument), DoseSecond)
	require.NoError(t, err)
	require.Len(t, centers, 1)

	c := centers[0]
	assert.Equal(t, 561183, c.ID)
	assert.Equal(t, "Gandhi Nagar UPHC", c.Name)
	assert.Equal(t, "Shahdara", c.Block)
	assert.Equal(t, 110031, c.Pincode)
	require.Len(t, c.Sessions, 1)

	s := c.Sessions[0]
	assert.Equal(t, NewDate(2024, time.June, 10), s.Date)
	assert.Equal(t, 18, s.MinAge)
	assert.Equal(t, 12, s.Capacity)
	assert.Equal(t, 0, s.Dose1)
	assert.Equal(t, 12, s.Dose2)
	assert.Equal(t, "Paid", s.FeeType)
	assert.Equal(t, []string{"09:00AM-11:00AM", "11:00AM-01:00PM"}, s.Slots)
}

func TestDecodeEmptyCenters(t *testing.T) {
	centers, err := Decode(decodeDocument(t, `{"centers": []}`), DoseAny)
	require.NoError(t, err)
	assert.Empty(t, centers)
}

func TestDecodeMissingFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		dose Dose
		path string
	}{
		{"no centers", `{}`, DoseAny, "centers"},
		{"no name", `{"centers":[{"center_id":1,"sessions":[]}]}`, DoseAny, "centers[0].name"},
		{"no sessions", `{"centers":[{"center_id":1,"name":"x"}]}`, DoseAny, "centers[0].sessions"},
		{"no date", `{"centers":[{"center_id":1,"name":"x","sessions":[{"min_age_limit":18,"vaccine":"v","available_capacity":1}]}]}`, DoseAny, "centers[0].sessions[0].date"},
		{"no age", `{"centers":[{"center_id":1,"name":"x","sessions":[{"date":"10-06-2024","vaccine":"v","available_capacity":1}]}]}`, DoseAny, "centers[0].sessions[0].min_age_limit"},
		{"no dose field", `{"centers":[{"center_id":1,"name":"x","sessions":[{"date":"10-06-2024","min_age_limit":18,"vaccine":"v","available_capacity":1}]}]}`, DoseFirst, "centers[0].sessions[0].available_capacity_dose1"},
		{"no single capacity", `{"centers":[{"center_id":1,"name":"x","sessions":[{"date":"10-06-2024","min_age_limit":18,"vaccine":"v","available_capacity_dose1":1}]}]}`, DoseAny, "centers[0].sessions[0].available_capacity"},
		{"bad date", `{"centers":[{"center_id":1,"name":"x","sessions":[{"date":"2024-06-10","min_age_limit":18,"vaccine":"v","available_capacity":1}]}]}`, DoseAny, "centers[0].sessions[0].date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(decodeDocument(t, tt.doc), tt.dose)
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.path, shapeErr.Path)
		})
	}
}

func TestDecodeThenAggregate(t *testing.T) {
	centers, err := Decode(decodeDocument(t, calendarDocument), DoseFirst)
	require.NoError(t, err)

	result, err := Aggregate(centers, Criteria{MinAge: 18, Dose: DoseFirst, WeekStart: NewDate(2024, time.June, 10)})
	require.NoError(t, err)
	assert.True(t, result.Empty())

	centers, err = Decode(decodeDocument(t, calendarDocument), DoseSecond)
	require.NoError(t, err)
	result, err = Aggregate(centers, Criteria{MinAge: 18, Dose: DoseSecond, WeekStart: NewDate(2024, time.June, 10)})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Total)
}

func TestParseDates(t *testing.T) {
	d, err := ParseInputDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, "10-06-2024", d.ApiString())
	assert.Equal(t, "Jun 10, 2024", d.Label())
	assert.Equal(t, "2024-06-10", d.String())

	_, err = ParseInputDate("10/06/2024")
	assert.Error(t, err)
	_, err = ParseApiDate("31-02-2024")
	assert.Error(t, err)
}
