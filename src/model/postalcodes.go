package cowin

import (
	"context"
	"fmt"
)

const (
	PostalCodesAPI = "https://api.postalpincode.in/"
)

type PostalCodeClient struct {
	client *Client
}

func NewPostalCodeClient(baseURL string) (*PostalCodeClient, error) {
	if baseURL == "" {
		baseURL = PostalCodesAPI
	}
	client, err := NewClient(nil, baseURL)
	if err != nil {
		return nil, err
	}
	return &PostalCodeClient{client: client}, nil
}

// GetPostOffices lists the post offices sharing postalCode. An unknown code
// yields an empty list, not an error.
func (c *PostalCodeClient) GetPostOffices(ctx context.Context, postalCode string) ([]Postoffice, error) {
	var response []PostalCodeResponse
	if err := c.client.get(ctx, "/pincode/"+postalCode, nil, &response); err != nil {
		return nil, fmt.Errorf("fetching post offices for %s: %w", postalCode, err)
	}

	var offices []Postoffice
	for _, value := range response {
		offices = append(offices, value.Postoffice...)
	}
	return offices, nil
}

// PlaceName describes postalCode as "Block, District", falling back to the
// code itself when nothing is known.
func (c *PostalCodeClient) PlaceName(ctx context.Context, postalCode string) string {
	offices, err := c.GetPostOffices(ctx, postalCode)
	if err != nil || len(offices) == 0 {
		return postalCode
	}
	office := offices[0]
	if office.Block == "" || office.Block == "NA" {
		return office.District
	}
	return office.Block + ", " + office.District
}
