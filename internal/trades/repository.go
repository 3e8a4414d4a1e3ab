package trades

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"aptscope/internal/models"
)

// ErrUnsupportedPropertyType is returned by a Source that has no dedicated
// feed for the requested property type.
var ErrUnsupportedPropertyType = errors.New("no dedicated trade feed for property type")

// Source fetches one month of trade records for a district.
type Source interface {
	FetchMonth(ctx context.Context, regionCode string, propertyType models.PropertyType, yearMonth string) ([]models.TransactionRecord, error)
}

type cacheKey struct {
	regionCode   string
	propertyType models.PropertyType
}

// Repository serves trade records over a fixed trailing window, memoized per
// (regionCode, propertyType) for the process lifetime. Population is
// single-flighted per key; populated entries are immutable and shared.
type Repository struct {
	source       Source
	windowMonths int
	logger       *logrus.Logger

	mu    sync.RWMutex
	cache map[cacheKey][]models.TransactionRecord
	group singleflight.Group

	// now is swappable in tests
	now func() time.Time
}

// NewRepository creates a repository over the given source with a trailing
// window of windowMonths.
func NewRepository(source Source, windowMonths int, logger *logrus.Logger) *Repository {
	return &Repository{
		source:       source,
		windowMonths: windowMonths,
		logger:       logger,
		cache:        make(map[cacheKey][]models.TransactionRecord),
		now:          time.Now,
	}
}

// Transactions returns the cached trade records for the district and
// property type, fetching them on first access. Per-month fetch failures
// contribute zero records; the call itself never fails.
func (r *Repository) Transactions(ctx context.Context, regionCode string, propertyType models.PropertyType) []models.TransactionRecord {
	key := cacheKey{regionCode, propertyType}

	r.mu.RLock()
	records, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return records
	}

	v, _, _ := r.group.Do(fmt.Sprintf("%s/%d", regionCode, propertyType), func() (interface{}, error) {
		r.mu.RLock()
		records, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			return records, nil
		}

		records = r.fetchWindow(ctx, regionCode, propertyType)

		r.mu.Lock()
		r.cache[key] = records
		r.mu.Unlock()
		return records, nil
	})
	return v.([]models.TransactionRecord)
}

// Reset drops every cached window so the next access refetches. Called
// between pipeline runs. A population in flight during reset still lands in
// the fresh cache; it is at most one window stale.
func (r *Repository) Reset() {
	r.mu.Lock()
	r.cache = make(map[cacheKey][]models.TransactionRecord)
	r.mu.Unlock()
}

// fetchWindow collects the trailing window month by month, substituting the
// related property type's feed when the source has no dedicated one. The
// substitution is invisible to callers.
func (r *Repository) fetchWindow(ctx context.Context, regionCode string, propertyType models.PropertyType) []models.TransactionRecord {
	var all []models.TransactionRecord
	now := r.now()
	// Step from the first of the month so AddDate never normalizes a
	// month-end date into the wrong period.
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for i := 0; i < r.windowMonths; i++ {
		yearMonth := month.AddDate(0, -i, 0).Format("200601")

		monthly, err := r.source.FetchMonth(ctx, regionCode, propertyType, yearMonth)
		if errors.Is(err, ErrUnsupportedPropertyType) {
			if related, ok := relatedPropertyType(propertyType); ok {
				monthly, err = r.source.FetchMonth(ctx, regionCode, related, yearMonth)
			}
		}
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"region_code": regionCode,
				"year_month":  yearMonth,
			}).Debug("Trade fetch failed for period")
			continue
		}

		for _, record := range monthly {
			if record.Price <= 0 || record.ExclusiveArea <= 0 {
				continue
			}
			all = append(all, record)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"region_code":   regionCode,
		"property_type": propertyType.String(),
		"records":       len(all),
	}).Info("Trade window fetched")

	return all
}

// relatedPropertyType maps a property type to the feed it borrows when it
// has no dedicated one.
func relatedPropertyType(propertyType models.PropertyType) (models.PropertyType, bool) {
	if propertyType == models.PropertyTypeOfficetel {
		return models.PropertyTypeApartment, true
	}
	return propertyType, false
}
