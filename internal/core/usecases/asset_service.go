package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/utils"
)

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

type CreateAssetInput struct {
	CategoryID  domain.ID
	Status      domain.Status
	AssignedTo  *domain.ID
	Description string
	Purchase    PurchaseInput
	Dynamic     map[string]string
	Actor       *domain.ID
}

// AssetPatch is a partial update; nil fields are left untouched. Dynamic
// values are validated against the current schema and merged key-wise into
// the existing payload.
type AssetPatch struct {
	Description     *string
	Status          *domain.Status
	AssignedTo      *domain.ID
	ClearAssignment bool
	Dynamic         map[string]string
	Actor           *domain.ID
}

func NewAssetService(
	assets AssetRepository,
	users UserRepository,
	schemas SchemaService,
	audit AuditService,
) *SimpleAssetService {
	return &SimpleAssetService{
		assets:     assets,
		users:      users,
		schemas:    schemas,
		audit:      audit,
		validator:  NewValidator(),
		translator: NewQueryTranslator(),
	}
}

var _ AssetService = (*SimpleAssetService)(nil)

type SimpleAssetService struct {
	assets     AssetRepository
	users      UserRepository
	schemas    SchemaService
	audit      AuditService
	validator  *Validator
	translator *QueryTranslator
}

// CreateAsset validates the submission against the category's current
// schema and persists the asset together with its create audit entry as one
// atomic unit. On validation failure nothing is persisted.
func (s *SimpleAssetService) CreateAsset(ctx context.Context, input CreateAssetInput) (domain.Asset, error) {
	schema, err := s.schemas.GetSchema(ctx, input.CategoryID)
	if err != nil {
		return domain.Asset{}, err
	}

	payload, issues := s.validator.ValidatePayload(schema, input.Dynamic)
	purchase, purchaseIssues := s.validator.ValidatePurchase(input.Purchase)
	issues = append(issues, purchaseIssues...)
	if len(issues) > 0 {
		slog.Warn("rejecting asset submission",
			slog.String("category_id", input.CategoryID.String()),
			slog.Int("issue_count", len(issues)))
		return domain.Asset{}, issues
	}

	if input.AssignedTo != nil {
		if _, err := s.users.Get(ctx, *input.AssignedTo); err != nil {
			return domain.Asset{}, err
		}
	}

	builder := domain.NewAssetBuilder().
		WithCategory(input.CategoryID).
		WithPayload(payload).
		WithAssignedTo(input.AssignedTo).
		WithDescription(input.Description).
		WithPurchase(purchase)
	if input.Status != "" {
		builder = builder.WithStatus(input.Status)
	}
	asset, err := builder.Build()
	if err != nil {
		return domain.Asset{}, err
	}

	entry, err := domain.NewAuditEntryBuilder().
		WithActor(input.Actor).
		WithAction(domain.ActionCreate).
		WithDetails("asset created").
		WithMetadata(map[string]any{"category_id": input.CategoryID.String()}).
		Build()
	if err != nil {
		return domain.Asset{}, err
	}

	created, err := s.assets.Create(ctx, asset, entry)
	if err != nil {
		slog.Error("creating asset", slog.String("error", err.Error()))
		return domain.Asset{}, fmt.Errorf("creating asset: %w", err)
	}

	entry.AssetID = &created.ID
	s.audit.Announce(ctx, entry)

	return created, nil
}

// UpdateAsset applies a patch and records one audit entry per observed
// change class: edit for payload/description, assign for assignment moves,
// maintenance/edit metadata for status transitions.
func (s *SimpleAssetService) UpdateAsset(ctx context.Context, id uint64, patch AssetPatch) (domain.Asset, error) {
	asset, err := s.assets.Get(ctx, id)
	if errors.Is(err, ErrAssetNotFound) {
		return domain.Asset{}, ErrAssetNotFound
	}
	if err != nil {
		return domain.Asset{}, fmt.Errorf("getting asset: %w", err)
	}

	var entries []domain.AuditEntry

	if len(patch.Dynamic) > 0 || patch.Description != nil {
		if len(patch.Dynamic) > 0 {
			schema, err := s.schemas.GetSchema(ctx, asset.CategoryID)
			if err != nil {
				return domain.Asset{}, err
			}
			validated, issues := s.validator.ValidatePayload(schema, patch.Dynamic)
			if len(issues) > 0 {
				return domain.Asset{}, issues
			}
			for key, value := range validated {
				asset.Payload[key] = value
			}
		}
		if patch.Description != nil {
			asset.Description = *patch.Description
		}

		entry, err := domain.NewAuditEntryBuilder().
			WithActor(patch.Actor).
			WithAction(domain.ActionEdit).
			WithAsset(asset.ID).
			WithDetails("asset updated").
			Build()
		if err != nil {
			return domain.Asset{}, err
		}
		entries = append(entries, entry)
	}

	if patch.Status != nil && *patch.Status != asset.Status {
		previous := asset.Status
		if err := asset.ChangeStatus(*patch.Status); err != nil {
			return domain.Asset{}, err
		}
		action := domain.ActionEdit
		if *patch.Status == domain.StatusMaintenance {
			action = domain.ActionMaintenance
		}
		entry, err := domain.NewAuditEntryBuilder().
			WithActor(patch.Actor).
			WithAction(action).
			WithAsset(asset.ID).
			WithDetails(fmt.Sprintf("status changed from %s to %s", previous, asset.Status)).
			WithMetadata(map[string]any{"from": string(previous), "to": string(asset.Status)}).
			Build()
		if err != nil {
			return domain.Asset{}, err
		}
		entries = append(entries, entry)
	}

	if patch.AssignedTo != nil || patch.ClearAssignment {
		var assignee *domain.ID
		if !patch.ClearAssignment {
			if _, err := s.users.Get(ctx, *patch.AssignedTo); err != nil {
				return domain.Asset{}, err
			}
			assignee = patch.AssignedTo
		}
		if !sameAssignee(asset.AssignedTo, assignee) {
			asset.AssignTo(assignee)
			entry, err := domain.NewAuditEntryBuilder().
				WithActor(patch.Actor).
				WithAction(domain.ActionAssign).
				WithAsset(asset.ID).
				WithRelatedUser(assignee).
				WithDetails("asset assignment changed").
				Build()
			if err != nil {
				return domain.Asset{}, err
			}
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return asset, nil
	}

	asset.Version++
	asset.UpdatedAt = utils.Time{Time: time.Now()}
	if err := s.assets.Update(ctx, asset, entries); err != nil {
		slog.Error("updating asset", slog.Uint64("asset_id", id), slog.String("error", err.Error()))
		return domain.Asset{}, fmt.Errorf("updating asset: %w", err)
	}

	for _, entry := range entries {
		s.audit.Announce(ctx, entry)
	}

	return asset, nil
}

func (s *SimpleAssetService) GetAsset(ctx context.Context, id uint64) (domain.Asset, error) {
	asset, err := s.assets.Get(ctx, id)
	if errors.Is(err, ErrAssetNotFound) {
		return domain.Asset{}, ErrAssetNotFound
	}
	if err != nil {
		slog.Error("getting asset", slog.Uint64("asset_id", id), slog.String("error", err.Error()))
		return domain.Asset{}, fmt.Errorf("getting asset: %w", err)
	}

	return asset, nil
}

// GetByScanCode resolves a scanned code to an asset. The canonical form is
// "ASSET|v1|<external id>"; a bare external UUID, a numeric internal id and
// a media filename containing the external UUID are accepted as fallbacks.
// A successful lookup records a scan audit entry; a failing audit write is
// logged but does not fail the lookup, since no asset state changed.
func (s *SimpleAssetService) GetByScanCode(ctx context.Context, code string, actor *domain.ID) (domain.Asset, error) {
	asset, err := s.resolveScanCode(ctx, code)
	if err != nil {
		return domain.Asset{}, err
	}

	entry, buildErr := domain.NewAuditEntryBuilder().
		WithActor(actor).
		WithAction(domain.ActionScan).
		WithAsset(asset.ID).
		WithDetails("asset looked up by scan code").
		Build()
	if buildErr == nil {
		if err := s.audit.Record(ctx, entry); err != nil {
			slog.Error("recording scan audit entry", slog.String("error", err.Error()))
		}
	}

	return asset, nil
}

func (s *SimpleAssetService) resolveScanCode(ctx context.Context, code string) (domain.Asset, error) {
	if externalID, err := domain.ParseScanCode(code); err == nil {
		return s.assets.GetByExternalID(ctx, externalID)
	}

	if utils.IsUUID(code) {
		return s.assets.GetByExternalID(ctx, domain.ID(code))
	}

	if id, err := strconv.ParseUint(code, 10, 64); err == nil {
		return s.assets.Get(ctx, id)
	}

	if match := uuidPattern.FindString(code); match != "" {
		return s.assets.GetByExternalID(ctx, domain.ID(match))
	}

	return domain.Asset{}, domain.ErrInvalidScanCode
}

// ListAssets resolves core filters in the repository and applies translated
// dynamic predicates on the result, ordered by creation time descending.
func (s *SimpleAssetService) ListAssets(ctx context.Context, filter AssetFilter, pagination Pagination) ([]domain.Asset, int, error) {
	var schema domain.SchemaSnapshot
	if filter.CategoryID != "" {
		var err error
		schema, err = s.schemas.GetSchema(ctx, filter.CategoryID)
		if err != nil {
			return nil, 0, err
		}
	}

	assets, err := s.assets.FindByFilter(ctx, filter.core())
	if err != nil {
		slog.Error("listing assets", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing assets: %w", err)
	}

	predicates := s.translator.Translate(schema, filter)
	matched := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if Matches(asset, predicates) {
			matched = append(matched, asset)
		}
	}

	total := len(matched)
	if pagination.Limit <= 0 {
		return matched, total, nil
	}

	start := pagination.Offset
	if start > total {
		start = total
	}
	end := start + pagination.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func sameAssignee(a, b *domain.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
