package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cowin-slot-checker/src/search"
	"github.com/cowin-slot-checker/src/slots"
)

const helpText = `Find vaccination slots for the week starting at a date.

/pin <pincode> <age> [dose] [YYYY-MM-DD]
/district <district id> <age> [dose] [YYYY-MM-DD]
/states - list state ids
/districts <state id> - list district ids
/watch pin|district <id> <age> [dose] - get notified when slots open
/watches - list your watches
/unwatch - remove all your watches

age is 18 or 45, dose is 1 or 2. Without a date the week starts today.`

// parseQuery reads "<id> <age> [dose] [date]" for kind "pin" or "district".
// A missing date becomes today.
func parseQuery(kind string, args []string, today slots.Date) (search.Query, error) {
	if len(args) < 2 || len(args) > 4 {
		return search.Query{}, &search.InputError{Field: kind, Message: fmt.Sprintf("Usage: /%s <id> <age> [dose] [YYYY-MM-DD]", kind)}
	}

	q := search.Query{Date: today.String()}
	switch kind {
	case "pin":
		q.Pincode = args[0]
	case "district":
		q.DistrictID = args[0]
	default:
		return search.Query{}, &search.InputError{Field: "kind", Message: "Search by pin or district"}
	}

	age, err := strconv.Atoi(strings.TrimSuffix(args[1], "+"))
	if err != nil {
		return search.Query{}, &search.InputError{Field: "age", Message: "Please select an age group (18+ or 45+)"}
	}
	q.MinAge = age

	for _, arg := range args[2:] {
		if dose, err := strconv.Atoi(arg); err == nil {
			q.Dose = slots.Dose(dose)
			continue
		}
		q.Date = arg
	}

	_, err = q.Validate()
	return q, err
}

// parseWatch reads "pin|district <id> <age> [dose]".
func parseWatch(args []string, today slots.Date) (search.Query, error) {
	if len(args) < 3 || len(args) > 4 {
		return search.Query{}, &search.InputError{Field: "watch", Message: "Usage: /watch pin|district <id> <age> [dose]"}
	}
	return parseQuery(args[0], args[1:], today)
}
