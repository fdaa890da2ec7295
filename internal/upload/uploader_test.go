package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/domain/repository"
	"DemandCast/internal/gateway"
	"DemandCast/internal/toast"
	applogger "DemandCast/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noToken struct{}

func (noToken) Token() string { return "" }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func TestUploadFlow(t *testing.T) {
	var putBody []byte
	var completed atomic.Bool

	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "text/csv", r.Header.Get("Content-Type"))
		putBody, _ = io.ReadAll(r.Body)
	}))
	defer storage.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload/generate-upload-url":
			require.Equal(t, "sales.csv", r.URL.Query().Get("filename"))
			json.NewEncoder(w).Encode(models.UploadTicket{
				UploadURL: storage.URL + "/bucket/sales.csv",
				Key:       "datasets/sales.csv",
				UploadID:  "up-1",
			})
		case "/upload/upload-complete":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "up-1", body["upload_id"])
			assert.Equal(t, "datasets/sales.csv", body["s3_key"])
			completed.Store(true)
			w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	log := testLogger(t)
	api := gateway.New(backend.URL, 5*time.Second, noToken{}, repository.NoopMetrics{}, log)
	toasts := toast.NewNotifier(repository.NoopMetrics{}, toast.WithDelay(time.Hour))
	defer toasts.Close()
	u := NewUploader(api, toasts, log)

	data := []byte(validHeader + "\n" + validRow + "\n")
	var lastSent, total int64
	err := u.Upload(context.Background(), "sales.csv", data, func(sent, tot int64) {
		lastSent, total = sent, tot
	})
	require.NoError(t, err)

	assert.Equal(t, data, putBody)
	assert.True(t, completed.Load())
	assert.Equal(t, int64(len(data)), lastSent)
	assert.Equal(t, int64(len(data)), total)
}

func TestUploadFileRejectsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer backend.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	csv := "date,product,city\n01-06-2024,Wireless Mouse,Mumbai\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	log := testLogger(t)
	api := gateway.New(backend.URL, 5*time.Second, noToken{}, repository.NoopMetrics{}, log)
	toasts := toast.NewNotifier(repository.NoopMetrics{}, toast.WithDelay(time.Hour))
	defer toasts.Close()
	u := NewUploader(api, toasts, log)

	err := u.UploadFile(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required columns")
	assert.EqualValues(t, 0, calls.Load(), "a rejected file must never leave the machine")
}

func TestWriteSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, WriteSample(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	report, err := Validate(f)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "the sample file must pass its own validation: %s", report.Message())
	assert.Equal(t, 1, report.Rows)
}
