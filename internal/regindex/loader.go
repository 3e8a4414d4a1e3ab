package regindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"aptscope/internal/models"
)

// indexResponse is the wire shape of the regional index endpoint.
type indexResponse struct {
	Entries []struct {
		PropertyType string  `json:"property_type"`
		Region       string  `json:"region"`
		Subdistrict  string  `json:"subdistrict"`
		PricePerArea float64 `json:"price_per_area"`
		LeaseRatio   float64 `json:"lease_to_price_ratio"`
	} `json:"entries"`
}

// Load fetches the regional index once. An empty URL or a fetch failure
// yields an empty Source rather than an error: analysis degrades to
// transaction evidence only, and missing index data surfaces per estimate as
// a no-data provenance.
func Load(ctx context.Context, client *http.Client, url string, logger *logrus.Logger) *Source {
	if url == "" {
		logger.Warn("No regional index URL configured, fallback pricing disabled")
		return NewSource(nil)
	}

	entries, err := fetch(ctx, client, url)
	if err != nil {
		logger.WithError(err).Error("Failed to load regional index")
		return NewSource(nil)
	}

	logger.Infof("Loaded %d regional index entries", len(entries))
	return NewSource(entries)
}

func fetch(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build index request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read index response: %w", err)
	}

	var parsed indexResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse index response: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		entry := Entry{
			Region:       e.Region,
			Subdistrict:  e.Subdistrict,
			PricePerArea: e.PricePerArea,
			LeaseRatio:   e.LeaseRatio,
		}
		if e.PropertyType == "officetel" {
			// The index publishes no dedicated officetel series today; kept
			// for forward compatibility with the wire format.
			entry.PropertyType = models.PropertyTypeOfficetel
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
