// Package search runs one user search: validate the input, fetch one calendar
// document, decode it and aggregate it into a weekly availability matrix.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	model "github.com/cowin-slot-checker/src/model"
	"github.com/cowin-slot-checker/src/slots"
)

// ErrNoSlots is the "no slots found" terminal state. It is returned both when
// no center matched and when matching centers net to zero availability.
var ErrNoSlots = errors.New("no slots found")

// AgeGroups are the min_age_limit values the API publishes.
var AgeGroups = []int{18, 45}

// InputError is reported before any network call is made.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Fetcher is the subset of the CoWIN client a search needs.
type Fetcher interface {
	GetCalendarByPin(ctx context.Context, pincode, date string) (model.CalendarResponse, error)
	GetCalendarByDistrict(ctx context.Context, districtID, date string) (model.CalendarResponse, error)
}

// Query carries raw user input. Exactly one of DistrictID and Pincode is set;
// Date is YYYY-MM-DD.
type Query struct {
	MinAge     int
	Dose       slots.Dose
	DistrictID string
	Pincode    string
	Date       string
}

// Validate checks q and returns its week start.
func (q Query) Validate() (slots.Date, error) {
	district := strings.TrimSpace(q.DistrictID)
	pincode := strings.TrimSpace(q.Pincode)

	switch {
	case district == "" && pincode == "":
		return slots.Date{}, &InputError{Field: "district", Message: "Please select district or enter pincode"}
	case district != "" && pincode != "":
		return slots.Date{}, &InputError{Field: "pincode", Message: "Please search by district or by pincode, not both"}
	case district != "" && !positiveNumber(district):
		return slots.Date{}, &InputError{Field: "district", Message: "Please select district"}
	case pincode != "" && (len(pincode) != 6 || !positiveNumber(pincode)):
		return slots.Date{}, &InputError{Field: "pincode", Message: "Please enter a valid 6 digit pincode"}
	}

	if !validAge(q.MinAge) {
		return slots.Date{}, &InputError{Field: "age", Message: fmt.Sprintf("Please select an age group (%s)", ageGroupList())}
	}
	if !q.Dose.Valid() {
		return slots.Date{}, &InputError{Field: "dose", Message: "Please select dose 1 or dose 2"}
	}

	if strings.TrimSpace(q.Date) == "" {
		return slots.Date{}, &InputError{Field: "date", Message: "Please enter a valid date"}
	}
	start, err := slots.ParseInputDate(strings.TrimSpace(q.Date))
	if err != nil {
		return slots.Date{}, &InputError{Field: "date", Message: "Please enter a valid date"}
	}
	return start, nil
}

// Key identifies the location a query targets, e.g. "pin:110001".
func (q Query) Key() string {
	if q.Pincode != "" {
		return "pin:" + strings.TrimSpace(q.Pincode)
	}
	return "district:" + strings.TrimSpace(q.DistrictID)
}

func positiveNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

func validAge(age int) bool {
	for _, a := range AgeGroups {
		if a == age {
			return true
		}
	}
	return false
}

func ageGroupList() string {
	groups := make([]string, len(AgeGroups))
	for i, a := range AgeGroups {
		groups[i] = strconv.Itoa(a) + "+"
	}
	return strings.Join(groups, " or ")
}

type Service struct {
	fetcher Fetcher
}

func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Search runs q. When nothing is available it returns the empty result
// together with ErrNoSlots so callers can still render the window.
func (s *Service) Search(ctx context.Context, q Query) (slots.Result, error) {
	start := time.Now()
	weekStart, err := q.Validate()
	if err != nil {
		return slots.Result{}, err
	}

	var response model.CalendarResponse
	if q.Pincode != "" {
		response, err = s.fetcher.GetCalendarByPin(ctx, strings.TrimSpace(q.Pincode), weekStart.ApiString())
	} else {
		response, err = s.fetcher.GetCalendarByDistrict(ctx, strings.TrimSpace(q.DistrictID), weekStart.ApiString())
	}
	if err != nil {
		return slots.Result{}, err
	}

	centers, err := slots.Decode(response, q.Dose)
	if err != nil {
		return slots.Result{}, err
	}

	result, err := slots.Aggregate(centers, slots.Criteria{MinAge: q.MinAge, Dose: q.Dose, WeekStart: weekStart})
	if err != nil {
		return slots.Result{}, err
	}

	log.WithFields(log.Fields{
		"target":  q.Key(),
		"age":     q.MinAge,
		"dose":    q.Dose.String(),
		"centers": len(result.Rows),
		"total":   result.Total,
	}).Infoln("Search completed in:", time.Since(start))

	if result.Empty() {
		return result, ErrNoSlots
	}
	return result, nil
}

// UserMessage turns a search error into the text shown to the user.
func UserMessage(err error) string {
	var inputErr *InputError
	var httpErr *model.HttpError
	var shapeErr *slots.ShapeError
	switch {
	case errors.Is(err, ErrNoSlots):
		return "No slots found!"
	case errors.As(err, &inputErr):
		return inputErr.Message
	case errors.As(err, &httpErr):
		if httpErr.SessionExpired() {
			return "Your session has expired, please sign in again."
		}
		return fmt.Sprintf("Request failed: %s", httpErr.Message)
	case errors.As(err, &shapeErr):
		return "The vaccination service returned data we could not read."
	case errors.Is(err, context.Canceled):
		return "Search cancelled."
	default:
		return "Something went wrong, please try again."
	}
}
