package celestrak

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/leoscope/backend/pkg/httputil"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// Client handles communication with CelesTrak
// ⭐ SSOT: CelesTrak 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new CelesTrak client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://celestrak.org",
	}
}

// WithBaseURL overrides the endpoint, for tests
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// TLE is one general-perturbations element set
type TLE struct {
	Name    string
	NoradID int
	Line1   string
	Line2   string
}

// FetchGroup retrieves the TLE set for a constellation group
// (e.g. "starlink", "oneweb") in 3LE format.
func (c *Client) FetchGroup(ctx context.Context, group string) ([]TLE, error) {
	params := url.Values{}
	params.Set("GROUP", group)
	params.Set("FORMAT", "tle")
	fullURL := fmt.Sprintf("%s/NORAD/elements/gp.php?%s", c.baseURL, params.Encode())

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

	tles, err := ParseTLEText(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"group": group,
		"count": len(tles),
	}).Debug("Fetched TLE set")

	return tles, nil
}

// ParseTLEText parses CelesTrak 3LE output (name line followed by two
// element lines) into TLE records. Malformed entries are skipped, not fatal.
func ParseTLEText(text string) ([]TLE, error) {
	lines := make([]string, 0, 64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	tles := make([]TLE, 0, len(lines)/3)
	i := 0
	for i+2 < len(lines) {
		name := strings.TrimSpace(lines[i])
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Resync on the next line
			i++
			continue
		}

		tles = append(tles, TLE{
			Name:    name,
			NoradID: noradFromLine1(line1),
			Line1:   line1,
			Line2:   line2,
		})
		i += 3
	}

	if len(tles) == 0 {
		return nil, fmt.Errorf("no TLE entries parsed")
	}

	return tles, nil
}

// noradFromLine1 extracts the catalog number from columns 3–7 of line 1
func noradFromLine1(line1 string) int {
	if len(line1) < 7 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(line1[2:7], "U")))
	if err != nil {
		return 0
	}
	return n
}
