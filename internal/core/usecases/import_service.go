package usecases

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"asset-server/internal/core/domain"
)

// coreColumns lead every import/export header row, followed by the active
// dynamic field keys in schema order.
var coreColumns = []string{"status", "description", "assigned_to"}

type RowFailure struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

type ImportReport struct {
	SuccessCount int          `json:"success_count"`
	FailCount    int          `json:"fail_count"`
	FailRows     []RowFailure `json:"fail_rows,omitempty"`
}

func NewImportService(assets AssetService, schemas SchemaService, users UserRepository, audit AuditService) *CSVImportService {
	return &CSVImportService{
		assets:  assets,
		schemas: schemas,
		users:   users,
		audit:   audit,
	}
}

var _ ImportService = (*CSVImportService)(nil)

// CSVImportService moves assets in and out of the tabular bulk format.
// Row-level validation failures are collected and reported without aborting
// the batch; only a storage fault aborts the whole import.
type CSVImportService struct {
	assets  AssetService
	schemas SchemaService
	users   UserRepository
	audit   AuditService
}

// Import reads CSV rows for one category and creates an asset per valid
// row. Reported row numbers are 1-indexed counting the header row.
func (s *CSVImportService) Import(ctx context.Context, categoryID domain.ID, r io.Reader, actor *domain.ID) (ImportReport, error) {
	category, err := s.schemas.GetCategory(ctx, categoryID)
	if err != nil {
		return ImportReport{}, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportReport{}, fmt.Errorf("reading header row: %w", err)
	}

	columns, err := resolveColumns(header, category)
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	rowNumber := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNumber++
		if err != nil {
			report.FailCount++
			report.FailRows = append(report.FailRows, RowFailure{Row: rowNumber, Message: err.Error()})
			continue
		}

		input, rowErr := s.rowToInput(ctx, categoryID, columns, record, actor)
		if rowErr != nil {
			report.FailCount++
			report.FailRows = append(report.FailRows, RowFailure{Row: rowNumber, Message: rowErr.Error()})
			continue
		}

		if _, err := s.assets.CreateAsset(ctx, input); err != nil {
			var issues ValidationErrors
			if errors.As(err, &issues) || errors.Is(err, ErrUserNotFound) {
				report.FailCount++
				report.FailRows = append(report.FailRows, RowFailure{Row: rowNumber, Message: err.Error()})
				continue
			}
			// Storage fault: abort the batch.
			return report, fmt.Errorf("importing row %d: %w", rowNumber, err)
		}
		report.SuccessCount++
	}

	s.recordBatchEntry(ctx, domain.ActionImport, categoryID, actor, map[string]any{
		"success_count": report.SuccessCount,
		"fail_count":    report.FailCount,
	})

	return report, nil
}

// Export writes all assets of a category in the bulk tabular format: core
// columns first, then dynamic keys in schema order.
func (s *CSVImportService) Export(ctx context.Context, categoryID domain.ID, w io.Writer, actor *domain.ID) error {
	category, err := s.schemas.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	assets, _, err := s.assets.ListAssets(ctx, AssetFilter{CategoryID: categoryID}, Pagination{})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	keys := category.FieldKeys()
	header := append(append([]string{}, coreColumns...), keys...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, asset := range assets {
		row := make([]string, 0, len(header))
		row = append(row, string(asset.Status), asset.Description, s.assigneeName(ctx, asset.AssignedTo))
		for _, key := range keys {
			row = append(row, payloadCell(asset.Payload, key))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}

	s.recordBatchEntry(ctx, domain.ActionExport, categoryID, actor, map[string]any{
		"asset_count": len(assets),
	})

	return nil
}

type columnLayout struct {
	core    map[string]int
	dynamic map[string]int
}

func resolveColumns(header []string, category domain.Category) (columnLayout, error) {
	layout := columnLayout{
		core:    make(map[string]int),
		dynamic: make(map[string]int),
	}

	known := make(map[string]bool, len(coreColumns))
	for _, name := range coreColumns {
		known[name] = true
	}

	for i, name := range header {
		if known[name] {
			layout.core[name] = i
			continue
		}
		if _, ok := category.Schema[name]; ok {
			layout.dynamic[name] = i
			continue
		}
		// Unknown columns pass straight into the open payload.
		layout.dynamic[name] = i
	}

	return layout, nil
}

func (s *CSVImportService) rowToInput(ctx context.Context, categoryID domain.ID, columns columnLayout, record []string, actor *domain.ID) (CreateAssetInput, error) {
	input := CreateAssetInput{
		CategoryID: categoryID,
		Dynamic:    make(map[string]string, len(columns.dynamic)),
		Actor:      actor,
	}

	if idx, ok := columns.core["status"]; ok && idx < len(record) && record[idx] != "" {
		status := domain.Status(record[idx])
		if !status.Valid() {
			return CreateAssetInput{}, fmt.Errorf("invalid status %q", record[idx])
		}
		input.Status = status
	}
	if idx, ok := columns.core["description"]; ok && idx < len(record) {
		input.Description = record[idx]
	}
	if idx, ok := columns.core["assigned_to"]; ok && idx < len(record) && record[idx] != "" {
		user, err := s.users.GetByName(ctx, record[idx])
		if err != nil {
			return CreateAssetInput{}, fmt.Errorf("unknown assignee %q", record[idx])
		}
		input.AssignedTo = &user.ID
	}

	for key, idx := range columns.dynamic {
		if idx < len(record) {
			input.Dynamic[key] = record[idx]
		}
	}

	return input, nil
}

func (s *CSVImportService) recordBatchEntry(ctx context.Context, action domain.Action, categoryID domain.ID, actor *domain.ID, metadata map[string]any) {
	metadata["category_id"] = categoryID.String()
	entry, err := domain.NewAuditEntryBuilder().
		WithActor(actor).
		WithAction(action).
		WithDetails(fmt.Sprintf("bulk %s for category %s", action, categoryID)).
		WithMetadata(metadata).
		Build()
	if err != nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		slog.Error("recording bulk audit entry", slog.String("error", err.Error()))
	}
}

func (s *CSVImportService) assigneeName(ctx context.Context, id *domain.ID) string {
	if id == nil {
		return ""
	}
	user, err := s.users.Get(ctx, *id)
	if err != nil {
		return id.String()
	}
	return user.Name
}

func payloadCell(payload domain.DynamicPayload, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	switch value := raw.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
