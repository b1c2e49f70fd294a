package usecases

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"asset-server/internal/core/domain"

	"github.com/shopspring/decimal"
)

// isoDateFormat is the canonical boundary format for date values. Stored
// dynamic date values are always in this form.
const isoDateFormat = "2006-01-02"

type IssueCode string

const (
	IssueMissingRequiredField      IssueCode = "missing_required_field"
	IssueInvalidNumber             IssueCode = "invalid_number"
	IssueInvalidDate               IssueCode = "invalid_date"
	IssueIncompleteDepreciationSet IssueCode = "incomplete_depreciation_set"
	IssueNonPositiveValue          IssueCode = "non_positive_value"
)

type ValidationIssue struct {
	Code IssueCode `json:"code"`
	Key  string    `json:"key"`
	Raw  string    `json:"raw,omitempty"`
}

func (i ValidationIssue) Message() string {
	switch i.Code {
	case IssueMissingRequiredField:
		return fmt.Sprintf("Missing required field %q", i.Key)
	case IssueInvalidNumber:
		return fmt.Sprintf("Invalid number for field %q: %q", i.Key, i.Raw)
	case IssueInvalidDate:
		return fmt.Sprintf("Invalid date for field %q: %q (expected YYYY-MM-DD)", i.Key, i.Raw)
	case IssueIncompleteDepreciationSet:
		return "Financial attributes must be provided together: purchase_value, purchase_date, depreciation_method, useful_life_years"
	case IssueNonPositiveValue:
		return fmt.Sprintf("Field %q must be strictly positive", i.Key)
	default:
		return string(i.Code)
	}
}

// ValidationErrors is the collected, non-fail-fast error set of one
// submission. Any issue rejects the whole submission (strict policy).
type ValidationErrors []ValidationIssue

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, issue := range v {
		messages[i] = issue.Message()
	}
	return strings.Join(messages, "; ")
}

func (v ValidationErrors) Has(code IssueCode, key string) bool {
	for _, issue := range v {
		if issue.Code == code && issue.Key == key {
			return true
		}
	}
	return false
}

// PurchaseInput carries the optional financial attributes of a submission,
// already syntactically parsed by the delivery layer.
type PurchaseInput struct {
	Value              *decimal.Decimal
	Date               *time.Time
	DepreciationMethod *string
	UsefulLifeYears    *int
}

func (p PurchaseInput) empty() bool {
	return p.Value == nil && p.Date == nil && p.DepreciationMethod == nil && p.UsefulLifeYears == nil
}

// Validator type-checks and coerces raw dynamic field values against a
// schema snapshot. It is stateless; the schema is injected per call so
// required-ness always comes from the category, never from process state.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePayload walks the schema and coerces each raw value by its
// declared type. Missing or empty-string values count as absent. Keys in
// the raw input that the schema does not declare pass through unvalidated;
// that keeps historical payloads readable across schema edits.
//
// The returned payload is only usable when the error set is empty: the
// whole submission is rejected on any issue.
func (v *Validator) ValidatePayload(schema domain.SchemaSnapshot, raw map[string]string) (domain.DynamicPayload, ValidationErrors) {
	payload := make(domain.DynamicPayload, len(raw))
	var issues ValidationErrors

	for key, spec := range schema {
		value, present := raw[key]
		if !present || value == "" {
			if spec.Required {
				issues = append(issues, ValidationIssue{Code: IssueMissingRequiredField, Key: key})
			}
			continue
		}

		coerced, issue := coerceValue(key, spec.Type, value)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		payload[key] = coerced
	}

	for key, value := range raw {
		if _, declared := schema[key]; declared {
			continue
		}
		if value == "" {
			continue
		}
		payload[key] = value
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return payload, nil
}

func coerceValue(key string, fieldType domain.FieldType, raw string) (any, *ValidationIssue) {
	switch fieldType {
	case domain.FieldTypeNumber:
		number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &ValidationIssue{Code: IssueInvalidNumber, Key: key, Raw: raw}
		}
		return number, nil
	case domain.FieldTypeDate:
		date, err := time.Parse(isoDateFormat, strings.TrimSpace(raw))
		if err != nil {
			return nil, &ValidationIssue{Code: IssueInvalidDate, Key: key, Raw: raw}
		}
		return date.Format(isoDateFormat), nil
	default:
		return raw, nil
	}
}

// ValidatePurchase enforces the cross-field financial rule: the four
// attributes come all together or not at all, and value and useful life
// are strictly positive.
func (v *Validator) ValidatePurchase(input PurchaseInput) (*domain.PurchaseInfo, ValidationErrors) {
	if input.empty() {
		return nil, nil
	}

	var issues ValidationErrors
	if input.Value == nil || input.Date == nil || input.DepreciationMethod == nil || input.UsefulLifeYears == nil {
		issues = append(issues, ValidationIssue{Code: IssueIncompleteDepreciationSet, Key: "purchase"})
		return nil, issues
	}

	if !input.Value.IsPositive() {
		issues = append(issues, ValidationIssue{Code: IssueNonPositiveValue, Key: "purchase_value"})
	}
	if *input.UsefulLifeYears <= 0 {
		issues = append(issues, ValidationIssue{Code: IssueNonPositiveValue, Key: "useful_life_years"})
	}
	if len(issues) > 0 {
		return nil, issues
	}

	return &domain.PurchaseInfo{
		Value:              *input.Value,
		Date:               *input.Date,
		DepreciationMethod: *input.DepreciationMethod,
		UsefulLifeYears:    *input.UsefulLifeYears,
	}, nil
}
