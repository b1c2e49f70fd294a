package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-server/internal/infra/utils"

	"github.com/shopspring/decimal"
)

const scanCodePrefix = "ASSET|v1|"

var (
	ErrInvalidScanCode     = errors.New("invalid scan code")
	ErrMissingCategory     = errors.New("asset requires a category")
	ErrInvalidStatus       = errors.New("invalid asset status")
	ErrInvalidStatusChange = errors.New("invalid status transition")
)

// DynamicPayload is the open key-value bag holding a category's dynamic
// field values. Keys unknown to the current schema are preserved as-is so
// historical records survive schema edits without migration.
type DynamicPayload map[string]any

// PurchaseInfo carries the financial attributes of an asset. The four fields
// are either all present or all absent; the validator enforces that before
// an asset reaches the store.
type PurchaseInfo struct {
	Value              decimal.Decimal
	Date               time.Time
	DepreciationMethod string
	UsefulLifeYears    int
}

// BookValue returns the straight-line depreciated value at the given date.
// Before the purchase date the full value is returned; after the useful life
// has elapsed the value is zero.
func (p PurchaseInfo) BookValue(asOf time.Time) decimal.Decimal {
	if p.UsefulLifeYears <= 0 || !asOf.After(p.Date) {
		return p.Value
	}
	elapsed := decimal.NewFromFloat(asOf.Sub(p.Date).Hours() / (24 * 365.25))
	life := decimal.NewFromInt(int64(p.UsefulLifeYears))
	if elapsed.GreaterThanOrEqual(life) {
		return decimal.Zero
	}
	remaining := life.Sub(elapsed).Div(life)
	return p.Value.Mul(remaining).Round(2)
}

// Asset is one tracked physical asset. ID is the internal monotonic
// identifier assigned by the store; ExternalID is the globally unique
// public identifier embedded in scan codes and never reused.
type Asset struct {
	ID          uint64
	ExternalID  ID
	CategoryID  ID
	Payload     DynamicPayload
	Status      Status
	AssignedTo  *ID
	Description string
	Purchase    *PurchaseInfo
	Version     Version
	CreatedAt   utils.Time
	UpdatedAt   utils.Time
}

// ScanCode returns the scannable code content for this asset.
func (a Asset) ScanCode() string {
	return scanCodePrefix + a.ExternalID.String()
}

// ParseScanCode extracts the external identifier from a scanned code.
func ParseScanCode(code string) (ID, error) {
	if !strings.HasPrefix(code, scanCodePrefix) {
		return "", ErrInvalidScanCode
	}
	externalID := strings.TrimPrefix(code, scanCodePrefix)
	if externalID == "" {
		return "", ErrInvalidScanCode
	}
	return ID(externalID), nil
}

// ChangeStatus transitions the asset to a new status.
func (a *Asset) ChangeStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	a.Status = status
	return nil
}

// AssignTo hands the asset to a user; a nil id clears the assignment.
func (a *Asset) AssignTo(userID *ID) {
	a.AssignedTo = userID
}

// WarrantyExpiry reads the well-known warranty_expiry payload key as an
// ISO-8601 date. The second return is false when absent or unparsable.
func (a Asset) WarrantyExpiry() (time.Time, bool) {
	raw, ok := a.Payload["warranty_expiry"]
	if !ok {
		return time.Time{}, false
	}
	str, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	expiry, err := time.Parse("2006-01-02", str)
	if err != nil {
		return time.Time{}, false
	}
	return expiry, true
}

func NewAssetBuilder() *assetBuilder {
	return &assetBuilder{}
}

type assetBuilder struct {
	actions []assetHandler
}

type assetHandler func(a *Asset) error

func (b *assetBuilder) WithCategory(value ID) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		a.CategoryID = value
		return nil
	})
	return b
}

func (b *assetBuilder) WithPayload(value DynamicPayload) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		a.Payload = value
		return nil
	})
	return b
}

func (b *assetBuilder) WithStatus(value Status) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		if !value.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, value)
		}
		a.Status = value
		return nil
	})
	return b
}

func (b *assetBuilder) WithAssignedTo(value *ID) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		a.AssignedTo = value
		return nil
	})
	return b
}

func (b *assetBuilder) WithDescription(value string) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		a.Description = value
		return nil
	})
	return b
}

func (b *assetBuilder) WithPurchase(value *PurchaseInfo) *assetBuilder {
	b.actions = append(b.actions, func(a *Asset) error {
		a.Purchase = value
		return nil
	})
	return b
}

func (b *assetBuilder) Build() (Asset, error) {
	result := Asset{
		ExternalID: ID(utils.GenerateUUID()),
		Status:     StatusActive,
		Payload:    DynamicPayload{},
		Version:    1,
		CreatedAt:  utils.Time{Time: time.Now()},
		UpdatedAt:  utils.Time{Time: time.Now()},
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Asset{}, err
		}
	}

	if result.CategoryID == "" {
		return Asset{}, ErrMissingCategory
	}

	return result, nil
}
