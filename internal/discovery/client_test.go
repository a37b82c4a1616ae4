package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const eventsPage = `{
  "_embedded": {"events": [{"id": "e1", "name": "First"}, {"id": "e2", "name": "Second"}]},
  "_links": {
    "self": {"href": "/discovery/v2/events.json?page=0&size=2"},
    "next": {"href": "/discovery/v2/events.json?page=1&size=2"}
  },
  "page": {"size": 2, "totalElements": 7, "totalPages": 4, "number": 0}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestClient_Search(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventsPage))
	})

	page, err := client.Search(context.Background(), "events", map[string]any{
		"keyword":            "LCD Soundsystem",
		"marketId":           "10",
		"size":               2,
		"includeTest":        true,
		"includeTBA":         "ONLY",
		"classificationName": []string{"Hip-Hop", "Rap"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/events.json", gotPath)
	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "LCD Soundsystem", gotQuery["keyword"])
	assert.Equal(t, "10", gotQuery["marketId"])
	assert.Equal(t, "2", gotQuery["size"])
	assert.Equal(t, "yes", gotQuery["includeTest"])
	assert.Equal(t, "only", gotQuery["includeTBA"])
	assert.Equal(t, "Hip-Hop,Rap", gotQuery["classificationName"])

	require.Len(t, page.Items, 2)
	assert.JSONEq(t, `{"id": "e1", "name": "First"}`, string(page.Items[0]))
	assert.Equal(t, PageInfo{Number: 0, Size: 2, TotalElements: 7, TotalPages: 4}, page.Info)
	assert.Equal(t, "/discovery/v2/events.json?page=1&size=2", page.Links.Next)
}

func TestClient_RequestIDHeader(t *testing.T) {
	var ids []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"id": "e1"}`))
	})

	_, err := client.GetByID(context.Background(), "events", "e1")
	require.NoError(t, err)
	_, err = client.GetByID(context.Background(), "events", "e1")
	require.NoError(t, err)

	require.Len(t, ids, 2)
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "request id %q", id)
	}
	assert.NotEqual(t, ids[0], ids[1])
}

func TestClient_Search_EmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_links": {"self": {"href": "/x"}}, "page": {"size": 20, "totalElements": 0, "totalPages": 0, "number": 0}}`))
	})

	page, err := client.Search(context.Background(), "venues", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Links.Next)
}

func TestClient_Search_NestedResource(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	_, err := client.Search(context.Background(), "classifications/genres", nil)
	require.NoError(t, err)
	assert.Equal(t, "/classifications/genres.json", gotPath)
}

func TestClient_GetByID(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`{"id": "KovZpaFEZe", "name": "The Tabernacle"}`))
	})

	raw, err := client.GetByID(context.Background(), "venues", "KovZpaFEZe")
	require.NoError(t, err)

	assert.Equal(t, "/venues/KovZpaFEZe.json", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.JSONEq(t, `{"id": "KovZpaFEZe", "name": "The Tabernacle"}`, string(raw))
}

func TestClient_GetByID_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": `))
	})

	_, err := client.GetByID(context.Background(), "events", "x")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_GetByID_BlankID(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(eventsPage))
	})

	for _, id := range []string{"", "  "} {
		_, err := client.GetByID(context.Background(), "events", id)
		assert.ErrorIs(t, err, ErrInvalidRequest, "id %q", id)
	}
	assert.False(t, called, "blank id must not reach the server")
}

func TestClient_Search_SkipsTypedNil(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(eventsPage))
	})

	size := 3
	_, err := client.Search(context.Background(), "events", map[string]any{
		"page":               (*int)(nil),
		"classificationName": []string(nil),
		"size":               &size,
	})
	require.NoError(t, err)

	assert.False(t, gotQuery.Has("page"))
	assert.False(t, gotQuery.Has("classificationName"))
	assert.Equal(t, "3", gotQuery.Get("size"))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantCode   string
		wantDetail string
	}{
		{
			name:       "invalid api key",
			statusCode: http.StatusUnauthorized,
			body:       `{"fault":{"faultstring":"Invalid ApiKey","detail":{"errorcode":"oauth.v2.InvalidApiKey"}}}`,
			wantErr:    ErrUnauthorized,
			wantCode:   "oauth.v2.InvalidApiKey",
			wantDetail: "Invalid ApiKey",
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       `{"errors":[{"code":"DIS1004","detail":"Resource not found with provided criteria (locale=en-us, id=asdf)","status":"404"}]}`,
			wantErr:    ErrNotFound,
			wantCode:   "DIS1004",
			wantDetail: "Resource not found with provided criteria (locale=en-us, id=asdf)",
		},
		{
			name:       "bad request",
			statusCode: http.StatusBadRequest,
			body:       `{"errors":[{"code":"DIS1015","detail":"radius must be a whole number","status":"400"}]}`,
			wantErr:    ErrInvalidRequest,
			wantCode:   "DIS1015",
			wantDetail: "radius must be a whole number",
		},
		{
			name:       "rate limit",
			statusCode: http.StatusTooManyRequests,
			body:       `{"fault":{"faultstring":"Rate limit quota violation","detail":{"errorcode":"policies.ratelimit.QuotaViolation"}}}`,
			wantErr:    ErrRateLimit,
			wantCode:   "policies.ratelimit.QuotaViolation",
			wantDetail: "Rate limit quota violation",
		},
		{
			name:       "server error with html body",
			statusCode: http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantErr:    ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})

			_, err := client.GetByID(context.Background(), "events", "asdf")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := New(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 100 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "events", nil)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{APIKey: "k"}, zap.NewNop())

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.client.Timeout)
	assert.Equal(t, DefaultBaseURL+"/events.json", client.resourceURL("events"))
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"plain string", "keyword", "Jazz", "Jazz"},
		{"empty string kept", "keyword", "", ""},
		{"bool true", "includeTBD", true, "yes"},
		{"bool false", "includeTest", false, "no"},
		{"yes upper", "includeTest", "YES", "yes"},
		{"no mixed", "includeTest", "No", "no"},
		{"only mixed", "includeTBA", "Only", "only"},
		{"unknown flag kept", "includeTest", "Asdf", "Asdf"},
		{"case kept outside flags", "keyword", "YES", "YES"},
		{"int", "page", 0, "0"},
		{"float", "radius", 2.5, "2.5"},
		{"list", "classificationName", []string{"a", "b"}, "a,b"},
		{"int pointer", "size", func() any { n := 20; return &n }(), "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeValue(tt.key, tt.value))
		})
	}
}
