package restcountries

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCountries = `[
	{"name":{"common":"Niger","official":"Republic of Niger"},"capital":["Niamey"],"population":24206636,"flags":{"png":"https://flagcdn.com/w320/ne.png"},"languages":{"fra":"French"}},
	{"name":{"common":"Nigeria","official":"Federal Republic of Nigeria"},"capital":["Abuja"],"population":206139587,"flags":{"png":"https://flagcdn.com/w320/ng.png"},"languages":{"eng":"English"}}
]`

func TestSearchURL(t *testing.T) {
	c := NewClient("https://restcountries.com/v3.1/")

	tests := []struct {
		query string
		want  string
	}{
		{"peru", "https://restcountries.com/v3.1/name/peru?fields=name,capital,population,flags,languages"},
		{"united states", "https://restcountries.com/v3.1/name/united%20states?fields=name,capital,population,flags,languages"},
		{"a/b", "https://restcountries.com/v3.1/name/a%2Fb?fields=name,capital,population,flags,languages"},
		{"côte", "https://restcountries.com/v3.1/name/c%C3%B4te?fields=name,capital,population,flags,languages"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.SearchURL(tt.query))
		})
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Zero(t, c.HTTPClient.Timeout, "no explicit timeout unless configured")

	c = NewClient("", WithTimeout(2*time.Second), WithUserAgent("countrysearch/test"))
	assert.Equal(t, 2*time.Second, c.HTTPClient.Timeout)
	assert.Equal(t, "countrysearch/test", c.UserAgent)
}

func TestSearchByName_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/name/nig", r.URL.Path)
		assert.Equal(t, "name,capital,population,flags,languages", r.URL.Query().Get("fields"))
		assert.Equal(t, "countrysearch/test", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, twoCountries)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithUserAgent("countrysearch/test"))
	countries, err := client.SearchByName(context.Background(), "nig")

	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Republic of Niger", countries[0].Name.Official)
	assert.Equal(t, "Federal Republic of Nigeria", countries[1].Name.Official)
	assert.Equal(t, "Abuja", countries[1].CapitalText())
	assert.Equal(t, int64(206139587), countries[1].Population)
	assert.Equal(t, "https://flagcdn.com/w320/ng.png", countries[1].Flags.PNG)
}

func TestSearchByName_NonSuccessStatusIsNoCountry(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				fmt.Fprint(w, `{"status": 404, "message": "Not Found"}`)
			}))
			defer server.Close()

			_, err := NewClient(server.URL).SearchByName(context.Background(), "atlantis")

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoCountry)
			assert.Equal(t, "Oops, there is no country with that name", err.Error())
		})
	}
}

func TestSearchByName_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[{"name": "Germany"`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SearchByName(context.Background(), "germany")

	require.Error(t, err)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, err.Error(), "Unexpected response from country service")
}

func TestSearchByName_WrongShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": {"official": "Not a list"}}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SearchByName(context.Background(), "x")

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestSearchByName_ConnectionRefused(t *testing.T) {
	// Reserve a port, then close the listener so nothing is accepting
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = NewClient("http://"+addr).SearchByName(context.Background(), "peru")

	require.Error(t, err)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Network error: connection refused - the country service is not reachable", err.Error())
}

func TestSearchByName_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).SearchByName(ctx, "peru")

	require.Error(t, err)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Network error: request timed out", err.Error())
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(204))
	assert.False(t, IsSuccessStatus(199))
	assert.False(t, IsSuccessStatus(301))
	assert.False(t, IsSuccessStatus(404))
}
