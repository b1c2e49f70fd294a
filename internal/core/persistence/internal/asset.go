package internal

import (
	"encoding/json"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Asset struct {
	ID                 uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	ExternalID         string           `json:"external_id" gorm:"uniqueIndex;not null"`
	CategoryID         string           `json:"category_id" gorm:"index;not null"`
	Payload            datatypes.JSON   `json:"payload"`
	Status             string           `json:"status" gorm:"index"`
	AssignedTo         *string          `json:"assigned_to,omitempty" gorm:"index"`
	Description        string           `json:"description"`
	PurchaseValue      *decimal.Decimal `json:"purchase_value,omitempty" gorm:"type:numeric"`
	PurchaseDate       *time.Time       `json:"purchase_date,omitempty"`
	DepreciationMethod *string          `json:"depreciation_method,omitempty"`
	UsefulLifeYears    *int             `json:"useful_life_years,omitempty"`
	Version            int              `json:"version"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a Asset) ToDomain() domain.Asset {
	var payload domain.DynamicPayload
	json.Unmarshal(a.Payload, &payload)

	asset := domain.Asset{
		ID:          a.ID,
		ExternalID:  domain.ID(a.ExternalID),
		CategoryID:  domain.ID(a.CategoryID),
		Payload:     payload,
		Status:      domain.Status(a.Status),
		Description: a.Description,
		Version:     domain.Version(a.Version),
		CreatedAt:   utils.Time{Time: a.CreatedAt},
		UpdatedAt:   utils.Time{Time: a.UpdatedAt},
	}

	if a.AssignedTo != nil {
		assignedTo := domain.ID(*a.AssignedTo)
		asset.AssignedTo = &assignedTo
	}

	if a.PurchaseValue != nil && a.PurchaseDate != nil && a.DepreciationMethod != nil && a.UsefulLifeYears != nil {
		asset.Purchase = &domain.PurchaseInfo{
			Value:              *a.PurchaseValue,
			Date:               *a.PurchaseDate,
			DepreciationMethod: *a.DepreciationMethod,
			UsefulLifeYears:    *a.UsefulLifeYears,
		}
	}

	return asset
}

func FromAsset(value domain.Asset) Asset {
	payload, _ := json.Marshal(value.Payload)

	entity := Asset{
		ID:          value.ID,
		ExternalID:  value.ExternalID.String(),
		CategoryID:  value.CategoryID.String(),
		Payload:     payload,
		Status:      string(value.Status),
		Description: value.Description,
		Version:     int(value.Version),
		CreatedAt:   value.CreatedAt.Time,
		UpdatedAt:   value.UpdatedAt.Time,
	}

	if value.AssignedTo != nil {
		assignedTo := value.AssignedTo.String()
		entity.AssignedTo = &assignedTo
	}

	if value.Purchase != nil {
		purchaseValue := value.Purchase.Value
		purchaseDate := value.Purchase.Date
		method := value.Purchase.DepreciationMethod
		years := value.Purchase.UsefulLifeYears
		entity.PurchaseValue = &purchaseValue
		entity.PurchaseDate = &purchaseDate
		entity.DepreciationMethod = &method
		entity.UsefulLifeYears = &years
	}

	return entity
}
