package cowin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	CowinAPI = "https://cdn-api.co-vin.in/"

	statesPath             = "/api/v2/admin/location/states"
	districtsPath          = "/api/v2/admin/location/districts/"
	calendarByPinPath      = "/api/v2/appointment/sessions/public/calendarByPin"
	calendarByDistrictPath = "/api/v2/appointment/sessions/public/calendarByDistrict"
)

type CowinClient struct {
	client *Client
}

// NewCowinClient talks to baseURL, or to the public CoWIN API when baseURL
// is empty. token may be empty.
func NewCowinClient(baseURL, token string) (*CowinClient, error) {
	if baseURL == "" {
		baseURL = CowinAPI
	}
	client, err := NewClient(nil, baseURL)
	if err != nil {
		return nil, err
	}
	return &CowinClient{client: client.WithToken(token)}, nil
}

func (c *CowinClient) addQueryParameters(key, value, date string) url.Values {
	var query = make(url.Values)
	query.Set(key, value)
	query.Set("date", date)
	return query
}

func (c *CowinClient) GetStates(ctx context.Context) ([]State, error) {
	var response CowinStatesResponse
	if err := c.client.get(ctx, statesPath, nil, &response); err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}
	return response.States, nil
}

func (c *CowinClient) GetDistricts(ctx context.Context, stateID int) ([]District, error) {
	var response CowinDistrictsResponse
	if err := c.client.get(ctx, districtsPath+strconv.Itoa(stateID), nil, &response); err != nil {
		return nil, fmt.Errorf("fetching districts of state %d: %w", stateID, err)
	}
	for i := range response.Districts {
		if response.Districts[i].StateID == 0 {
			response.Districts[i].StateID = stateID
		}
	}
	return response.Districts, nil
}

// GetCalendarByPin returns the week of sessions starting at date (DD-MM-YYYY)
// for centers in pincode.
func (c *CowinClient) GetCalendarByPin(ctx context.Context, pincode, date string) (CalendarResponse, error) {
	var response CalendarResponse
	query := c.addQueryParameters("pincode", pincode, date)
	if err := c.client.get(ctx, calendarByPinPath, query, &response); err != nil {
		return response, fmt.Errorf("fetching calendar for pincode %s: %w", pincode, err)
	}
	return response, nil
}

// GetCalendarByDistrict is GetCalendarByPin for a whole district.
func (c *CowinClient) GetCalendarByDistrict(ctx context.Context, districtID, date string) (CalendarResponse, error) {
	var response CalendarResponse
	query := c.addQueryParameters("district_id", districtID, date)
	if err := c.client.get(ctx, calendarByDistrictPath, query, &response); err != nil {
		return response, fmt.Errorf("fetching calendar for district %s: %w", districtID, err)
	}
	return response, nil
}
