package scheduler

import (
	"fmt"

	database "github.com/cowin-slot-checker/src/database"
	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
)

// stateRecords and districtRecords convert API locations into rows for a
// bulk load, which takes one table at a time.
func stateRecords(states []model.State) []interface{} {
	records := make([]interface{}, 0, len(states))
	for _, value := range states {
		records = append(records, database.State{StateID: value.StateID, StateName: value.StateName})
	}
	return records
}

func districtRecords(districts []model.District) []interface{} {
	records := make([]interface{}, 0, len(districts))
	for _, value := range districts {
		records = append(records, database.District{StateID: value.StateID, DistrictID: value.DistrictID, DistrictName: value.DistrictName})
	}
	return records
}

// QueryFor builds the search a subscription stands for, starting at day.
func QueryFor(sub database.Subscription, day slots.Date) search.Query {
	return search.Query{
		MinAge:     sub.MinAge,
		Dose:       slots.Dose(sub.Dose),
		DistrictID: sub.DistrictID,
		Pincode:    sub.Pincode,
		Date:       day.String(),
	}
}

func notificationHeader(sub database.Subscription, result slots.Result) string {
	place := sub.Target()
	if sub.Label != "" {
		place += " (" + sub.Label + ")"
	}
	return fmt.Sprintf("%d slots available at %d centers for %s, age %d+, %s, week of %s",
		result.Total, len(result.Rows), place, sub.MinAge, slots.Dose(sub.Dose), result.Window[0].Label())
}
