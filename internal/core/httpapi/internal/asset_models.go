package internal

import (
	"fmt"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/usecases"

	"github.com/shopspring/decimal"
)

// Request models
type AssetCreateRequest struct {
	CategoryID  string            `json:"category_id" validate:"required"`
	Status      string            `json:"status,omitempty"`
	AssignedTo  *string           `json:"assigned_to,omitempty"`
	Description string            `json:"description,omitempty"`
	Dynamic     map[string]string `json:"dynamic,omitempty"`
	Purchase    *PurchaseRequest  `json:"purchase,omitempty"`
}

type PurchaseRequest struct {
	Value              *string `json:"value,omitempty"`
	Date               *string `json:"date,omitempty"`
	DepreciationMethod *string `json:"depreciation_method,omitempty"`
	UsefulLifeYears    *int    `json:"useful_life_years,omitempty"`
}

type AssetUpdateRequest struct {
	Description     *string           `json:"description,omitempty"`
	Status          *string           `json:"status,omitempty"`
	AssignedTo      *string           `json:"assigned_to,omitempty"`
	ClearAssignment bool              `json:"clear_assignment,omitempty"`
	Dynamic         map[string]string `json:"dynamic,omitempty"`
}

// Response models
type PurchaseResponse struct {
	Value              string    `json:"value"`
	Date               time.Time `json:"date"`
	DepreciationMethod string    `json:"depreciation_method"`
	UsefulLifeYears    int       `json:"useful_life_years"`
	BookValue          string    `json:"book_value"`
}

type AssetResponse struct {
	ID          uint64            `json:"id"`
	ExternalID  string            `json:"external_id"`
	CategoryID  string            `json:"category_id"`
	Payload     map[string]any    `json:"payload"`
	Status      string            `json:"status"`
	AssignedTo  *string           `json:"assigned_to,omitempty"`
	Description string            `json:"description"`
	Purchase    *PurchaseResponse `json:"purchase,omitempty"`
	ScanCode    string            `json:"scan_code"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type ValidationIssueResponse struct {
	Key     string `json:"key"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string                    `json:"message"`
	Issues  []ValidationIssueResponse `json:"issues"`
}

// Conversion functions
func ToAssetResponse(asset domain.Asset) AssetResponse {
	response := AssetResponse{
		ID:          asset.ID,
		ExternalID:  asset.ExternalID.String(),
		CategoryID:  asset.CategoryID.String(),
		Payload:     asset.Payload,
		Status:      string(asset.Status),
		Description: asset.Description,
		ScanCode:    asset.ScanCode(),
		Version:     int(asset.Version),
		CreatedAt:   asset.CreatedAt.Time,
		UpdatedAt:   asset.UpdatedAt.Time,
	}

	if asset.AssignedTo != nil {
		assignee := asset.AssignedTo.String()
		response.AssignedTo = &assignee
	}

	if asset.Purchase != nil {
		response.Purchase = &PurchaseResponse{
			Value:              asset.Purchase.Value.String(),
			Date:               asset.Purchase.Date,
			DepreciationMethod: asset.Purchase.DepreciationMethod,
			UsefulLifeYears:    asset.Purchase.UsefulLifeYears,
			BookValue:          asset.Purchase.BookValue(time.Now()).String(),
		}
	}

	return response
}

func ToValidationErrorResponse(issues usecases.ValidationErrors) ValidationErrorResponse {
	responses := make([]ValidationIssueResponse, len(issues))
	for i, issue := range issues {
		responses[i] = ValidationIssueResponse{
			Key:     issue.Key,
			Code:    string(issue.Code),
			Message: issue.Message(),
		}
	}

	return ValidationErrorResponse{
		Message: "validation failed",
		Issues:  responses,
	}
}

// ToPurchaseInput parses the syntactic shape of the purchase block; semantic
// validation stays in the validator.
func ToPurchaseInput(request *PurchaseRequest) (usecases.PurchaseInput, error) {
	var input usecases.PurchaseInput
	if request == nil {
		return input, nil
	}

	if request.Value != nil {
		value, err := decimal.NewFromString(*request.Value)
		if err != nil {
			return input, fmt.Errorf("parsing purchase value: %w", err)
		}
		input.Value = &value
	}
	if request.Date != nil {
		date, err := time.Parse("2006-01-02", *request.Date)
		if err != nil {
			return input, fmt.Errorf("parsing purchase date: %w", err)
		}
		input.Date = &date
	}
	input.DepreciationMethod = request.DepreciationMethod
	input.UsefulLifeYears = request.UsefulLifeYears

	return input, nil
}
