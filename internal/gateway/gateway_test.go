package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DemandCast/internal/domain/repository"
	applogger "DemandCast/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	return New(baseURL, 5*time.Second, staticToken(token), repository.NoopMetrics{}, testLogger(t))
}

func TestDoJoinsPathWithoutDoubleSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/", "")
	res := c.Do(context.Background(), "/feature/features", nil)

	assert.True(t, res.Ok())
	assert.Equal(t, "/feature/features", gotPath)
}

func TestDoBearerHeaderOnlyWithToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	c.Do(context.Background(), "/insights", nil)
	assert.Empty(t, gotAuth)

	c = newTestClient(t, srv.URL, "tok-123")
	c.Do(context.Background(), "/insights", nil)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDoMethodDefaults(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")

	c.Do(context.Background(), "/x", nil)
	assert.Equal(t, http.MethodGet, gotMethod)

	c.Do(context.Background(), "/x", &Options{Body: map[string]int{"a": 1}})
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestDoNonJSONErrorBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	res := c.Do(context.Background(), "/train/predict", nil)

	assert.False(t, res.Ok())
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, "Bad Gateway", res.DetailMessage("fallback"))
}

func TestDoConnectFailure(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", "")
	res := c.Do(context.Background(), "/insights", nil)

	assert.False(t, res.Ok())
	assert.Equal(t, 0, res.Status)
	assert.Equal(t, "Failed to connect to the server.", res.DetailMessage("fallback"))
}

func TestDetailMessage(t *testing.T) {
	cases := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "string detail",
			res:  Result{Err: map[string]interface{}{"detail": "User already exists"}, Status: 409},
			want: "User already exists",
		},
		{
			name: "validation list",
			res: Result{Err: map[string]interface{}{"detail": []interface{}{
				map[string]interface{}{"msg": "field required"},
				map[string]interface{}{"msg": "value is not a valid integer"},
			}}, Status: 422},
			want: "field required, value is not a valid integer",
		},
		{
			name: "message key",
			res:  Result{Err: map[string]interface{}{"message": "Not Found"}, Status: 404},
			want: "Not Found",
		},
		{
			name: "unrecognized shape",
			res:  Result{Err: map[string]interface{}{"detail": 42}, Status: 500},
			want: "fallback",
		},
		{
			name: "empty error",
			res:  Result{Status: 500},
			want: "fallback",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.res.DetailMessage("fallback"))
		})
	}
}

func TestResultDecode(t *testing.T) {
	res := Result{Data: []byte(`{"city":"Mumbai"}`), Status: 200}
	var out struct {
		City string `json:"city"`
	}
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, "Mumbai", out.City)

	empty := Result{Status: 204}
	require.NoError(t, empty.Decode(&out))
}
