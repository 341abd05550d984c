package celestrak

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CatalogEntry is one row of the CelesTrak satellite catalog search results
type CatalogEntry struct {
	NoradID    int
	Name       string
	IntlDesig  string
	LaunchDate string
	Active     bool
}

// SearchCatalog looks up satellites by name in the CelesTrak SATCAT search
// page and parses the result table.
func (c *Client) SearchCatalog(ctx context.Context, name string) ([]CatalogEntry, error) {
	params := url.Values{}
	params.Set("NAME", name)
	fullURL := fmt.Sprintf("%s/satcat/table-satcat.php?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	entries := parseCatalogHTML(string(body))

	c.logger.WithFields(map[string]interface{}{
		"name":  name,
		"count": len(entries),
	}).Debug("Searched satellite catalog")

	return entries, nil
}

// parseCatalogHTML extracts catalog rows from the SATCAT results table.
// Expected columns: NORAD ID, name, international designator, launch date,
// operational status.
func parseCatalogHTML(html string) []CatalogEntry {
	var entries []CatalogEntry

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entries
	}

	doc.Find("table.satcat tr, table#satcat tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		noradID, err := strconv.Atoi(strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			return
		}

		status := strings.TrimSpace(cells.Eq(4).Text())

		entries = append(entries, CatalogEntry{
			NoradID:    noradID,
			Name:       strings.TrimSpace(cells.Eq(1).Text()),
			IntlDesig:  strings.TrimSpace(cells.Eq(2).Text()),
			LaunchDate: strings.TrimSpace(cells.Eq(3).Text()),
			Active:     strings.EqualFold(status, "active") || status == "+",
		})
	})

	return entries
}
