package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DemandCast/internal/domain/repository"
	"DemandCast/internal/gateway"
	applogger "DemandCast/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noToken struct{}

func (noToken) Token() string { return "" }

const featuresBody = `{
	"city": ["Mumbai", "Delhi", "Pune"],
	"product": {
		"Wireless Mouse": "Electronics",
		"Mechanical Keyboard": "Electronics",
		"Running Shoes": "Footwear",
		"Desk Lamp": "Home",
		"Sandals": "Footwear"
	}
}`

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func loadedLoader(t *testing.T) (*Loader, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feature/features", r.URL.Path)
		w.Write([]byte(featuresBody))
	}))
	t.Cleanup(srv.Close)

	api := gateway.New(srv.URL, 5*time.Second, noToken{}, repository.NoopMetrics{}, testLogger(t))
	l := NewLoader(api, 30, testLogger(t))
	require.NoError(t, l.Load(context.Background()))
	return l, srv
}

func TestLoadPreservesOptionOrder(t *testing.T) {
	l, _ := loadedLoader(t)
	cat := l.Catalog()

	assert.Equal(t, []string{"Mumbai", "Delhi", "Pune"}, cat.Cities)
	assert.Equal(t,
		[]string{"Wireless Mouse", "Mechanical Keyboard", "Running Shoes", "Desk Lamp", "Sandals"},
		cat.ProductOrder)
	assert.Equal(t, []string{"Electronics", "Footwear", "Home"}, cat.Categories,
		"categories follow first occurrence in the product mapping")
}

func TestLoadSeedsDefaultSelection(t *testing.T) {
	l, _ := loadedLoader(t)
	sel := l.Selection()

	assert.Equal(t, "Electronics", sel.Category)
	assert.Equal(t, "Wireless Mouse", sel.Product)
	assert.Equal(t, 30, sel.Days)
	assert.Empty(t, sel.City)
	assert.False(t, sel.Complete())
}

func TestSetCategoryResetsProduct(t *testing.T) {
	l, _ := loadedLoader(t)

	require.NoError(t, l.SetCategory("Footwear"))
	sel := l.Selection()
	assert.Equal(t, "Footwear", sel.Category)
	assert.Empty(t, sel.Product)

	assert.Equal(t, []string{"Running Shoes", "Sandals"}, l.ProductOptions())
}

func TestSetProductOutsideNarrowedSet(t *testing.T) {
	l, _ := loadedLoader(t)

	require.NoError(t, l.SetCategory("Footwear"))
	assert.Error(t, l.SetProduct("Wireless Mouse"))
	require.NoError(t, l.SetProduct("Sandals"))
	assert.Equal(t, "Sandals", l.Selection().Product)
}

func TestSetCityRejectsUnknown(t *testing.T) {
	l, _ := loadedLoader(t)

	assert.Error(t, l.SetCity("Atlantis"))
	require.NoError(t, l.SetCity("Pune"))
	assert.Equal(t, "Pune", l.Selection().City)
}

func TestSetDays(t *testing.T) {
	l, _ := loadedLoader(t)

	assert.Error(t, l.SetDays(45))
	require.NoError(t, l.SetDays(90))
	assert.Equal(t, 90, l.Selection().Days)
}

func TestLoadKeepsRestoredSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(featuresBody))
	}))
	defer srv.Close()

	api := gateway.New(srv.URL, 5*time.Second, noToken{}, repository.NoopMetrics{}, testLogger(t))
	l := NewLoader(api, 30, testLogger(t))

	// Startup order: selection restored from the stored result first, the
	// catalog loaded second.
	l.SetSelection(Selection{City: "Pune", Category: "Footwear", Product: "Sandals", Days: 30})
	require.NoError(t, l.Load(context.Background()))

	sel := l.Selection()
	assert.Equal(t, "Pune", sel.City)
	assert.Equal(t, "Footwear", sel.Category)
	assert.Equal(t, "Sandals", sel.Product, "restored product must survive the catalog load")
}

func TestReloadKeepsActiveSelection(t *testing.T) {
	l, _ := loadedLoader(t)

	require.NoError(t, l.SetCategory("Footwear"))
	require.NoError(t, l.SetProduct("Running Shoes"))
	require.NoError(t, l.Load(context.Background()))

	sel := l.Selection()
	assert.Equal(t, "Footwear", sel.Category)
	assert.Equal(t, "Running Shoes", sel.Product)
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	l, srv := loadedLoader(t)
	srv.Close()

	err := l.Load(context.Background())
	require.Error(t, err)
	assert.NotNil(t, l.Catalog(), "a failed reload must not clobber the loaded catalog")
	assert.Equal(t, "Electronics", l.Selection().Category)
}

func TestLoadRejectsUncategorizedProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":["Pune"],"product":{"Mystery Item":""}}`))
	}))
	defer srv.Close()

	api := gateway.New(srv.URL, 5*time.Second, noToken{}, repository.NoopMetrics{}, testLogger(t))
	l := NewLoader(api, 30, testLogger(t))

	assert.Error(t, l.Load(context.Background()))
	assert.Nil(t, l.Catalog())
}
