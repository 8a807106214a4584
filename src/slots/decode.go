package slots

import (
	"fmt"

	model "github.com/cowin-slot-checker/src/model"
)

// Decode validates a calendar document and converts it into Centers.
//
// Required: centers, and per center center_id, name and sessions; per session
// date, min_age_limit, vaccine and the capacity field dose reads
// (available_capacity, available_capacity_dose1 or available_capacity_dose2).
// Everything else defaults to its zero value.
func Decode(response model.CalendarResponse, dose Dose) ([]Center, error) {
	if response.Centers == nil {
		return nil, missing("centers")
	}

	centers := make([]Center, 0, len(*response.Centers))
	for i, raw := range *response.Centers {
		path := fmt.Sprintf("centers[%d]", i)
		center, err := decodeCenter(path, raw, dose)
		if err != nil {
			return nil, err
		}
		centers = append(centers, center)
	}
	return centers, nil
}

func decodeCenter(path string, raw model.Centers, dose Dose) (Center, error) {
	switch {
	case raw.CenterID == nil:
		return Center{}, missing(path + ".center_id")
	case raw.Name == nil:
		return Center{}, missing(path + ".name")
	case raw.Sessions == nil:
		return Center{}, missing(path + ".sessions")
	}

	center := Center{
		ID:       int(*raw.CenterID),
		Name:     *raw.Name,
		State:    raw.StateName,
		District: raw.DistrictName,
		Block:    raw.BlockName,
		Pincode:  int(raw.Pincode),
		Address:  raw.Address,
		FeeType:  raw.FeeType,
		Sessions: make([]Session, 0, len(*raw.Sessions)),
	}

	for j, rs := range *raw.Sessions {
		session, err := decodeSession(fmt.Sprintf("%s.sessions[%d]", path, j), rs, dose)
		if err != nil {
			return Center{}, err
		}
		if session.FeeType == "" {
			session.FeeType = center.FeeType
		}
		center.Sessions = append(center.Sessions, session)
	}
	return center, nil
}

func decodeSession(path string, raw model.Sessions, dose Dose) (Session, error) {
	switch {
	case raw.Date == nil:
		return Session{}, missing(path + ".date")
	case raw.MinAgeLimit == nil:
		return Session{}, missing(path + ".min_age_limit")
	case raw.Vaccine == nil:
		return Session{}, missing(path + ".vaccine")
	}

	capacity := map[Dose]*float64{
		DoseAny:    raw.AvailableCapacity,
		DoseFirst:  raw.AvailableCapacityDose1,
		DoseSecond: raw.AvailableCapacityDose2,
	}
	if capacity[dose] == nil {
		return Session{}, missing(path + "." + capacityField(dose))
	}

	date, err := ParseApiDate(*raw.Date)
	if err != nil {
		return Session{}, &ShapeError{Path: path + ".date", Reason: err.Error()}
	}

	return Session{
		Date:     date,
		MinAge:   int(*raw.MinAgeLimit),
		Capacity: intOrZero(raw.AvailableCapacity),
		Dose1:    intOrZero(raw.AvailableCapacityDose1),
		Dose2:    intOrZero(raw.AvailableCapacityDose2),
		Vaccine:  *raw.Vaccine,
		Slots:    raw.Slots,
	}, nil
}

func capacityField(dose Dose) string {
	switch dose {
	case DoseFirst:
		return "available_capacity_dose1"
	case DoseSecond:
		return "available_capacity_dose2"
	default:
		return "available_capacity"
	}
}

func intOrZero(v *float64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}
