// ABOUTME: Tests for the HTTP transport: bearer attach, error classification, replay safety
// ABOUTME: Uses httptest servers and the in-memory keyring

package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
)

func TestClient_AttachesBearerWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	creds := keyring.NewMemory()
	require.NoError(t, creds.SetPair(context.Background(), "a1", "r1"))

	c := NewClient(srv.URL, creds, time.Second, nil)
	req, err := NewRequest(http.MethodGet, "/auth/profile/", nil)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer a1", gotAuth)
}

func TestClient_UnauthenticatedWhenCredentialAbsent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
	req, _ := NewRequest(http.MethodPost, "/auth/login/", map[string]string{"phone": "+8801711111111"})

	_, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "login requests must go out unauthenticated when no credential is stored")
}

func TestClient_DoUnauthenticatedNeverAttachesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access":"a2"}`))
	}))
	defer srv.Close()

	creds := keyring.NewMemory()
	require.NoError(t, creds.SetPair(context.Background(), "a1", "r1"))

	c := NewClient(srv.URL, creds, time.Second, nil)
	req, _ := NewRequest(http.MethodPost, "/auth/token/refresh/", map[string]string{"refresh": "r1"})

	_, err := c.DoUnauthenticated(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{name: "401 is authorization expired", status: 401, body: `{"detail":"token not valid"}`, wantKind: KindAuthorizationExpired},
		{name: "400 is validation", status: 400, body: `{"phone":["This field is required."]}`, wantKind: KindValidation},
		{name: "403 is validation", status: 403, body: `{"detail":"forbidden"}`, wantKind: KindValidation},
		{name: "404 is validation", status: 404, body: `{"detail":"not found"}`, wantKind: KindValidation},
		{name: "500 is server", status: 500, body: `{"detail":"boom"}`, wantKind: KindServer},
		{name: "503 is server", status: 503, body: ``, wantKind: KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
			req, _ := NewRequest(http.MethodGet, "/properties/", nil)

			_, err := c.Do(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.wantKind), "got %v", err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_ValidationFieldDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(`{"phone":["user with this phone already exists."],"password":["too short","too common"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
	req, _ := NewRequest(http.MethodPost, "/auth/register/", map[string]string{})

	_, err := c.Do(context.Background(), req)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"user with this phone already exists."}, apiErr.Fields["phone"])
	assert.Len(t, apiErr.Fields["password"], 2)
}

func TestClient_NetworkErrorOnUnreachableHost(t *testing.T) {
	// Reserve a port and close it so nothing is listening.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
	req, _ := NewRequest(http.MethodGet, "/properties/", nil)

	_, err := c.Do(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork), "got %v", err)
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), 20*time.Millisecond, nil)
	req, _ := NewRequest(http.MethodGet, "/properties/", nil)

	_, err := c.Do(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork), "timeouts must not enter the refresh protocol, got %v", err)
}

func TestClient_QueryParamsEncoded(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
	req, _ := NewRequest(http.MethodGet, "/properties/", nil)
	req.Query = url.Values{"page": {"2"}, "search": {"mirpur"}}

	_, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "mirpur", gotQuery.Get("search"))
}

func TestClient_BodyIsReplayable(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		bodies = append(bodies, string(buf))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, keyring.NewMemory(), time.Second, nil)
	req, err := NewRequest(http.MethodPost, "/payments/", map[string]any{"bill": 7, "amount": 1200})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)
	req.Attempt++
	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1], "replayed request must carry the identical body")
	assert.NotEmpty(t, bodies[0])
}

func TestResponse_Decode(t *testing.T) {
	resp := &Response{Status: 200, Body: []byte(`{"count":1,"results":[{"id":3}]}`)}

	var out struct {
		Count   int `json:"count"`
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Results, 1)
	assert.Equal(t, 3, out.Results[0].ID)

	empty := &Response{Status: 204}
	assert.NoError(t, empty.Decode(&out))
}
