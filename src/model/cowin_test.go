package cowin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestGetCalendarByPin(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, calendarByPinPath, r.URL.Path)
		assert.Equal(t, "110001", r.URL.Query().Get("pincode"))
		assert.Equal(t, "10-06-2024", r.URL.Query().Get("date"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"centers":[{"center_id":1,"name":"A","sessions":[]}]}`))
	})

	client, err := NewCowinClient(server.URL, "")
	require.NoError(t, err)

	response, err := client.GetCalendarByPin(context.Background(), "110001", "10-06-2024")
	require.NoError(t, err)
	require.NotNil(t, response.Centers)
	require.Len(t, *response.Centers, 1)
	assert.Equal(t, "A", *(*response.Centers)[0].Name)
}

func TestGetCalendarByDistrictSendsToken(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, calendarByDistrictPath, r.URL.Path)
		assert.Equal(t, "294", r.URL.Query().Get("district_id"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"centers":[]}`))
	})

	client, err := NewCowinClient(server.URL, "secret")
	require.NoError(t, err)

	response, err := client.GetCalendarByDistrict(context.Background(), "294", "10-06-2024")
	require.NoError(t, err)
	assert.Empty(t, *response.Centers)
}

func TestStatesAndDistricts(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case statesPath:
			w.Write([]byte(`{"states":[{"state_id":16,"state_name":"Karnataka"}],"ttl":24}`))
		case districtsPath + "16":
			w.Write([]byte(`{"districts":[{"district_id":294,"district_name":"BBMP"}],"ttl":24}`))
		default:
			http.NotFound(w, r)
		}
	})

	client, err := NewCowinClient(server.URL, "")
	require.NoError(t, err)

	states, err := client.GetStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []State{{StateID: 16, StateName: "Karnataka"}}, states)

	districts, err := client.GetDistricts(context.Background(), 16)
	require.NoError(t, err)
	assert.Equal(t, []District{{StateID: 16, DistrictID: 294, DistrictName: "BBMP"}}, districts)
}

func TestHttpErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		token   string
		message string
		expired bool
	}{
		{"unauthorized with token", http.StatusUnauthorized, "secret", msgSessionExpired, true},
		{"unauthorized without token", http.StatusUnauthorized, "", "Unauthorized", false},
		{"forbidden", http.StatusForbidden, "", msgTooManyRequest, false},
		{"server error", http.StatusInternalServerError, "", "Internal Server Error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			client, err := NewCowinClient(server.URL, tt.token)
			require.NoError(t, err)

			_, err = client.GetCalendarByPin(context.Background(), "110001", "10-06-2024")
			var httpErr *HttpError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.expired, httpErr.SessionExpired())
		})
	}
}

func TestPostOffices(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pincode/560001":
			w.Write([]byte(`[{"Message":"Number of pincode(s) found:1","Status":"Success","PostOffice":[{"Name":"Bangalore GPO","District":"Bangalore","Block":"Bangalore North","State":"Karnataka","Pincode":"560001"}]}]`))
		default:
			w.Write([]byte(`[{"Message":"No records found","Status":"Error","PostOffice":null}]`))
		}
	})

	client, err := NewPostalCodeClient(server.URL)
	require.NoError(t, err)

	offices, err := client.GetPostOffices(context.Background(), "560001")
	require.NoError(t, err)
	require.Len(t, offices, 1)
	assert.Equal(t, "Bangalore GPO", offices[0].Name)

	assert.Equal(t, "Bangalore North, Bangalore", client.PlaceName(context.Background(), "560001"))
	assert.Equal(t, "999999", client.PlaceName(context.Background(), "999999"))
}
