package celestrak

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/httputil"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)
	hc := httputil.New(cfg, log).DisableRetry()
	return NewClient(hc, log).WithBaseURL(baseURL)
}

const threeLEFixture = `STARLINK-1007
1 44713U 19074A   21275.52501157  .00001150  00000-0  90204-4 0  9995
2 44713  53.0542 193.6565 0001487  81.7683 278.3473 15.06395661105698
STARLINK-1008
1 44714U 19074B   21275.52501157  .00000941  00000-0  76154-4 0  9990
2 44714  53.0547 193.6569 0001321  89.2112 270.9037 15.06396145105691
`

func TestParseTLEText(t *testing.T) {
	tles, err := ParseTLEText(threeLEFixture)
	require.NoError(t, err)
	require.Len(t, tles, 2)

	assert.Equal(t, "STARLINK-1007", tles[0].Name)
	assert.Equal(t, 44713, tles[0].NoradID)
	assert.Equal(t, "STARLINK-1008", tles[1].Name)
	assert.Equal(t, 44714, tles[1].NoradID)
}

func TestParseTLEText_Malformed(t *testing.T) {
	// A stray line between entries must not derail the parser.
	text := "GARBAGE LINE\n" + threeLEFixture
	tles, err := ParseTLEText(text)
	require.NoError(t, err)
	assert.Len(t, tles, 2)
}

func TestParseTLEText_Empty(t *testing.T) {
	_, err := ParseTLEText("no tle data here\n")
	assert.Error(t, err)
}

func TestFetchGroup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/NORAD/elements/gp.php", r.URL.Path)
		assert.Equal(t, "starlink", r.URL.Query().Get("GROUP"))
		assert.Equal(t, "tle", r.URL.Query().Get("FORMAT"))
		w.Write([]byte(threeLEFixture))
	}))
	defer server.Close()

	client := testClient(server.URL)

	tles, err := client.FetchGroup(context.Background(), "starlink")
	require.NoError(t, err)
	assert.Len(t, tles, 2)
}

func TestFetchGroup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.FetchGroup(context.Background(), "starlink")
	assert.Error(t, err)
}

const catalogFixture = `<html><body>
<table class="satcat">
  <tr><th>NORAD ID</th><th>Name</th><th>Int'l Desig</th><th>Launch</th><th>Status</th></tr>
  <tr><td>44713</td><td>STARLINK-1007</td><td>2019-074A</td><td>2019-11-11</td><td>Active</td></tr>
  <tr><td>44714</td><td>STARLINK-1008</td><td>2019-074B</td><td>2019-11-11</td><td>+</td></tr>
  <tr><td>not-a-number</td><td>BROKEN</td><td>x</td><td>x</td><td>x</td></tr>
</table>
</body></html>`

func TestParseCatalogHTML(t *testing.T) {
	entries := parseCatalogHTML(catalogFixture)
	require.Len(t, entries, 2)

	assert.Equal(t, 44713, entries[0].NoradID)
	assert.Equal(t, "STARLINK-1007", entries[0].Name)
	assert.Equal(t, "2019-074A", entries[0].IntlDesig)
	assert.True(t, entries[0].Active)
	assert.True(t, entries[1].Active)
}

func TestSearchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/satcat/table-satcat.php", r.URL.Path)
		assert.Equal(t, "STARLINK", r.URL.Query().Get("NAME"))
		w.Write([]byte(catalogFixture))
	}))
	defer server.Close()

	client := testClient(server.URL)

	entries, err := client.SearchCatalog(context.Background(), "STARLINK")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
