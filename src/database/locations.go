package database

import (
	"context"

	model "github.com/cowin-slot-checker/src/model"
)

// Locations serves the stored directory with the same methods as the CoWIN
// client, so frontends can use either.
type Locations struct {
	Conn *DatabaseConnection
}

func (l Locations) GetStates(_ context.Context) ([]model.State, error) {
	rows, err := l.Conn.States()
	if err != nil {
		return nil, err
	}
	states := make([]model.State, 0, len(rows))
	for _, row := range rows {
		states = append(states, model.State{StateID: row.StateID, StateName: row.StateName})
	}
	return states, nil
}

func (l Locations) GetDistricts(_ context.Context, stateID int) ([]model.District, error) {
	rows, err := l.Conn.DistrictsOf(stateID)
	if err != nil {
		return nil, err
	}
	districts := make([]model.District, 0, len(rows))
	for _, row := range rows {
		districts = append(districts, model.District{StateID: row.StateID, DistrictID: row.DistrictID, DistrictName: row.DistrictName})
	}
	return districts, nil
}
