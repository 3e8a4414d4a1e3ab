package trades

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"aptscope/internal/models"
)

// tradeResponse is the XML envelope of the government trade records API.
type tradeResponse struct {
	Header struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []tradeItem `xml:"item"`
		} `xml:"items"`
		TotalCount int `xml:"totalCount"`
	} `xml:"body"`
}

type tradeItem struct {
	DealAmount    string `xml:"dealAmount"`
	ExclusiveArea string `xml:"excluUseAr"`
	Subdistrict   string `xml:"umdNm"`
	ComplexName   string `xml:"aptNm"`
	BuildYear     string `xml:"buildYear"`
}

// Client fetches trade records over HTTP. Officetels have no dedicated feed
// unless one is configured; FetchMonth signals that so the repository can
// substitute.
type Client struct {
	apartmentBase string
	officetelBase string
	apiKey        string
	client        *http.Client
	logger        *logrus.Logger
}

// NewClient creates a trade API client with a bounded request timeout.
func NewClient(apartmentBase, officetelBase, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		apartmentBase: apartmentBase,
		officetelBase: officetelBase,
		apiKey:        apiKey,
		client:        &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// FetchMonth retrieves one month of trades for a district.
func (c *Client) FetchMonth(ctx context.Context, regionCode string, propertyType models.PropertyType, yearMonth string) ([]models.TransactionRecord, error) {
	base := c.apartmentBase
	if propertyType == models.PropertyTypeOfficetel {
		if c.officetelBase == "" {
			return nil, ErrUnsupportedPropertyType
		}
		base = c.officetelBase
	}

	params := url.Values{}
	params.Set("serviceKey", c.apiKey)
	params.Set("LAWD_CD", regionCode)
	params.Set("DEAL_YMD", yearMonth)
	params.Set("pageNo", "1")
	params.Set("numOfRows", "1000")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build trade request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trade request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trade request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade response: %w", err)
	}

	var parsed tradeResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse trade response: %w", err)
	}
	if parsed.Header.ResultCode != "000" {
		return nil, fmt.Errorf("trade API error %s: %s", parsed.Header.ResultCode, parsed.Header.ResultMsg)
	}

	records := make([]models.TransactionRecord, 0, len(parsed.Body.Items.Item))
	for _, item := range parsed.Body.Items.Item {
		record, ok := item.toRecord()
		if !ok {
			continue
		}
		records = append(records, record)
	}

	c.logger.WithFields(logrus.Fields{
		"region_code": regionCode,
		"year_month":  yearMonth,
		"records":     len(records),
	}).Debug("Fetched trade records")
	return records, nil
}

// toRecord converts a wire item, dropping malformed rows. Deal amounts come
// in units of 10,000 won with thousands separators.
func (t tradeItem) toRecord() (models.TransactionRecord, bool) {
	amountStr := strings.TrimSpace(strings.ReplaceAll(t.DealAmount, ",", ""))
	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		return models.TransactionRecord{}, false
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(t.ExclusiveArea), 64)
	if err != nil {
		return models.TransactionRecord{}, false
	}

	buildYear, _ := strconv.Atoi(strings.TrimSpace(t.BuildYear))

	return models.TransactionRecord{
		Price:         amount * 10000,
		ExclusiveArea: area,
		Subdistrict:   strings.TrimSpace(t.Subdistrict),
		ComplexName:   strings.TrimSpace(t.ComplexName),
		BuildYear:     buildYear,
	}, true
}
