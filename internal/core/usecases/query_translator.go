package usecases

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"asset-server/internal/core/domain"
)

// localeDateFormat is accepted on filter input only and normalized to the
// canonical ISO form before comparison. Stored values never use it.
const localeDateFormat = "01/02/2006"

// searchPayloadKeys are the well-known payload keys the free-text search
// covers, together with the core description field.
var searchPayloadKeys = []string{"name", "serial_number", "location"}

// AssetFilter is the full query surface: core attributes resolved in SQL
// plus dynamic-field criteria resolved by translated predicates.
type AssetFilter struct {
	CategoryID         domain.ID
	Status             *domain.Status
	Assigned           *bool
	Search             string
	Dynamic            map[string]string
	WarrantyWithinDays *int
	// Reference is the "now" for the warranty window; zero means time.Now().
	Reference time.Time
}

func (f AssetFilter) core() CoreFilter {
	return CoreFilter{
		CategoryID: f.CategoryID,
		Status:     f.Status,
		Assigned:   f.Assigned,
	}
}

// Predicate is one executable filter against an asset's payload.
type Predicate func(domain.Asset) bool

// QueryTranslator turns raw (fieldKey, rawValue) criteria into predicates,
// dispatching on the field's declared type. Malformed filter values are
// never fatal: the offending filter is dropped and logged.
type QueryTranslator struct{}

func NewQueryTranslator() *QueryTranslator {
	return &QueryTranslator{}
}

// Translate compiles the dynamic portion of the filter. Predicates combine
// with AND; the keys are processed in sorted order so logging is stable.
func (t *QueryTranslator) Translate(schema domain.SchemaSnapshot, filter AssetFilter) []Predicate {
	predicates := make([]Predicate, 0, len(filter.Dynamic)+2)

	keys := make([]string, 0, len(filter.Dynamic))
	for key := range filter.Dynamic {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := filter.Dynamic[key]
		if raw == "" {
			continue
		}
		spec, declared := schema[key]
		if !declared {
			slog.Debug("dropping filter on undeclared field", slog.String("key", key))
			continue
		}

		predicate := t.translateOne(key, spec.Type, raw)
		if predicate != nil {
			predicates = append(predicates, predicate)
		}
	}

	if filter.Search != "" {
		predicates = append(predicates, searchPredicate(filter.Search))
	}

	if filter.WarrantyWithinDays != nil {
		reference := filter.Reference
		if reference.IsZero() {
			reference = time.Now()
		}
		predicates = append(predicates, warrantyWindowPredicate(reference, *filter.WarrantyWithinDays))
	}

	return predicates
}

func (t *QueryTranslator) translateOne(key string, fieldType domain.FieldType, raw string) Predicate {
	switch fieldType {
	case domain.FieldTypeNumber:
		target, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			slog.Debug("dropping numeric filter", slog.String("key", key), slog.String("raw", raw))
			return nil
		}
		return func(a domain.Asset) bool {
			value, ok := payloadNumber(a.Payload, key)
			return ok && value == target
		}
	case domain.FieldTypeDate:
		target, ok := normalizeFilterDate(raw)
		if !ok {
			slog.Debug("dropping date filter", slog.String("key", key), slog.String("raw", raw))
			return nil
		}
		return func(a domain.Asset) bool {
			value, ok := payloadString(a.Payload, key)
			return ok && value == target
		}
	default:
		needle := strings.ToLower(raw)
		return func(a domain.Asset) bool {
			value, ok := payloadString(a.Payload, key)
			return ok && strings.Contains(strings.ToLower(value), needle)
		}
	}
}

// Matches applies all predicates; an empty set matches everything.
func Matches(asset domain.Asset, predicates []Predicate) bool {
	for _, predicate := range predicates {
		if !predicate(asset) {
			return false
		}
	}
	return true
}

func searchPredicate(term string) Predicate {
	needle := strings.ToLower(term)
	return func(a domain.Asset) bool {
		if strings.Contains(strings.ToLower(a.Description), needle) {
			return true
		}
		for _, key := range searchPayloadKeys {
			if value, ok := payloadString(a.Payload, key); ok {
				if strings.Contains(strings.ToLower(value), needle) {
					return true
				}
			}
		}
		return false
	}
}

func warrantyWindowPredicate(reference time.Time, days int) Predicate {
	windowEnd := reference.AddDate(0, 0, days)
	return func(a domain.Asset) bool {
		expiry, ok := a.WarrantyExpiry()
		if !ok {
			return false
		}
		return !expiry.Before(reference.Truncate(24*time.Hour)) && !expiry.After(windowEnd)
	}
}

// normalizeFilterDate accepts ISO-8601 or the locale input form and always
// returns the canonical ISO representation.
func normalizeFilterDate(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if date, err := time.Parse(isoDateFormat, trimmed); err == nil {
		return date.Format(isoDateFormat), true
	}
	if date, err := time.Parse(localeDateFormat, trimmed); err == nil {
		return date.Format(isoDateFormat), true
	}
	return "", false
}

func payloadString(payload domain.DynamicPayload, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	return value, ok
}

func payloadNumber(payload domain.DynamicPayload, key string) (float64, bool) {
	raw, ok := payload[key]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
