package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"aptscope/internal/models"
)

// feed describes one upstream listing endpoint pair. Feeds marked
// upcomingOnly skip already-closed listings; their closed entries are noise
// for this pipeline and slow collection down.
type feed struct {
	name         string
	detailPath   string
	unitTypePath string
	upcomingOnly bool
	propertyType models.PropertyType
}

var feeds = []feed{
	{"apartment", "getAPTLttotPblancDetail", "getAPTLttotPblancMdl", false, models.PropertyTypeApartment},
	{"officetel", "getUrbtyOfctlLttotPblancDetail", "getUrbtyOfctlLttotPblancMdl", true, models.PropertyTypeOfficetel},
	{"remainder", "getRemndrLttotPblancDetail", "getRemndrLttotPblancMdl", true, models.PropertyTypeApartment},
}

// recencyWindow keeps listings whose receipt opened within the trailing
// window; older closed listings are not worth re-analyzing.
const recencyWindow = 90 * 24 * time.Hour

const pageSize = 100

// Client collects subscription listings from the government listing API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewClient creates a listings client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

// FetchAll collects listings for every supported region across all feeds,
// de-duplicated by management number. Endpoint failures degrade to fewer
// listings and never abort the run.
func (c *Client) FetchAll(ctx context.Context, regions []string) []models.Development {
	var all []models.Development
	seen := make(map[string]bool)
	now := c.now()

	for _, f := range feeds {
		for _, region := range regions {
			c.logger.WithFields(logrus.Fields{
				"feed":   f.name,
				"region": region,
			}).Info("Collecting listings")

			details, err := c.fetchDetails(ctx, f, region)
			if err != nil {
				c.logger.WithError(err).Errorf("Failed to fetch %s listings for %s", f.name, region)
				continue
			}

			for _, d := range details {
				if f.upcomingOnly && d.closed(now) {
					continue
				}
				manageNo := string(d.ManageNo)
				if manageNo == "" || seen[manageNo] {
					continue
				}
				seen[manageNo] = true

				units, err := c.fetchUnitTypes(ctx, f, manageNo)
				if err != nil {
					c.logger.WithError(err).Errorf("Failed to fetch unit types for %s", manageNo)
				}

				dev := d.toDevelopment(region, f.propertyType, units, now)
				if f.upcomingOnly {
					dev.Upcoming = true
					// These feeds only carry listings still in play; a
					// closed-looking status just means the dates were
					// not published yet.
					if dev.Status == models.StatusClosed {
						dev.Status = models.StatusUpcoming
					}
				}
				all = append(all, dev)
			}
		}
	}

	c.logger.Infof("Collected %d listings", len(all))
	return all
}

// fetchDetails pages through one feed's detail endpoint for a region,
// keeping listings whose receipt opened within the recency window.
func (c *Client) fetchDetails(ctx context.Context, f feed, region string) ([]listingDetail, error) {
	var details []listingDetail
	now := c.now()

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("perPage", strconv.Itoa(pageSize))
		params.Set("serviceKey", c.apiKey)
		params.Set("cond[SUBSCRPT_AREA_CODE_NM::EQ]", region)

		var resp listResponse[listingDetail]
		if err := c.get(ctx, f.detailPath, params, &resp); err != nil {
			return details, err
		}
		if len(resp.Data) == 0 {
			break
		}

		for _, d := range resp.Data {
			if d.recent(now) {
				details = append(details, d)
			}
		}

		if page*pageSize >= resp.TotalCount {
			break
		}
	}
	return details, nil
}

func (c *Client) fetchUnitTypes(ctx context.Context, f feed, manageNo string) ([]models.UnitType, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("perPage", strconv.Itoa(pageSize))
	params.Set("serviceKey", c.apiKey)
	params.Set("cond[HOUSE_MANAGE_NO::EQ]", manageNo)

	var resp listResponse[unitTypeDetail]
	if err := c.get(ctx, f.unitTypePath, params, &resp); err != nil {
		return nil, err
	}

	units := make([]models.UnitType, 0, len(resp.Data))
	for _, u := range resp.Data {
		units = append(units, u.toUnitType())
	}
	return units, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build listing request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read listing response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse listing response: %w", err)
	}
	return nil
}

// listResponse is the paged envelope shared by all listing endpoints.
type listResponse[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}
