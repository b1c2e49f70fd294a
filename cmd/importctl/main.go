package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"asset-server/cmd/config"
	"asset-server/internal/core/domain"
	"asset-server/internal/core/persistence"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/async"
	"asset-server/internal/infra/cache"
	"asset-server/internal/infra/pubsub"
	"asset-server/internal/infra/sql"

	"github.com/spf13/pflag"
)

var coreColumns = map[string]bool{"status": true, "description": true, "assigned_to": true}

func main() {
	var (
		filePath   = pflag.String("file", "", "CSV file to import, or export destination (default stdout)")
		categoryID = pflag.String("category", "", "category id the rows belong to")
		actorID    = pflag.String("actor", "", "user id recorded as the audit actor")
		dryRun     = pflag.Bool("dry-run", false, "validate rows without persisting anything")
		export     = pflag.Bool("export", false, "export the category instead of importing")
	)
	pflag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *categoryID == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --category")
		pflag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	orm, err := openDatabase(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening database: %v\n", err)
		os.Exit(1)
	}

	services, err := buildServices(orm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing services: %v\n", err)
		os.Exit(1)
	}

	var actor *domain.ID
	if *actorID != "" {
		id := domain.ID(*actorID)
		actor = &id
	}

	ctx := context.Background()
	category := domain.ID(*categoryID)

	switch {
	case *export:
		err = runExport(ctx, services, category, *filePath, actor)
	case *dryRun:
		err = runDryRun(ctx, services, category, *filePath)
	default:
		err = runImport(ctx, services, category, *filePath, actor)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type services struct {
	schemas usecases.SchemaService
	imports usecases.ImportService
}

func openDatabase(cfg config.AppConfig) (sql.ORM, error) {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}
	if env == "local" {
		return sql.NewMemoryORM()
	}
	return sql.NewPostgresORM(cfg.Postgresql.DSN)
}

// buildServices wires the import pipeline by hand. Offline runs publish
// audit entries to an in-process broker and a memory publisher; the
// database remains the only side effect.
func buildServices(orm sql.ORM) (services, error) {
	categories, err := persistence.NewCategoryRepository(orm)
	if err != nil {
		return services{}, err
	}
	assets, err := persistence.NewAssetRepository(orm)
	if err != nil {
		return services{}, err
	}
	users, err := persistence.NewUserRepository(orm)
	if err != nil {
		return services{}, err
	}
	audits, err := persistence.NewAuditRepository(orm)
	if err != nil {
		return services{}, err
	}
	snapshots, err := cache.New(cache.DefaultConfig())
	if err != nil {
		return services{}, err
	}

	publisher, err := pubsub.NewMemoryPublisherFactory().New("asset-audit-entries", nil)
	if err != nil {
		return services{}, err
	}

	schemaService := usecases.NewSchemaService(categories, snapshots)
	auditService := usecases.NewAuditService(audits, async.NewLocalBroker(), publisher)
	assetService := usecases.NewAssetService(assets, users, schemaService, auditService)
	importService := usecases.NewImportService(assetService, schemaService, users, auditService)

	return services{schemas: schemaService, imports: importService}, nil
}

func runImport(ctx context.Context, s services, categoryID domain.ID, path string, actor *domain.ID) error {
	if path == "" {
		return errors.New("missing required flag: --file")
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	report, err := s.imports.Import(ctx, categoryID, file, actor)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func runExport(ctx context.Context, s services, categoryID domain.ID, path string, actor *domain.ID) error {
	out := io.Writer(os.Stdout)
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer file.Close()
		out = file
	}

	return s.imports.Export(ctx, categoryID, out, actor)
}

// runDryRun replays the import validation without touching storage: each
// row's dynamic cells are checked against the category schema and the
// status column against the allowed lifecycle values.
func runDryRun(ctx context.Context, s services, categoryID domain.ID, path string) error {
	if path == "" {
		return errors.New("missing required flag: --file")
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	schema, err := s.schemas.GetSchema(ctx, categoryID)
	if err != nil {
		return err
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}

	validator := usecases.NewValidator()
	var report usecases.ImportReport
	rowNumber := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNumber++
		if err != nil {
			report.FailCount++
			report.FailRows = append(report.FailRows, usecases.RowFailure{Row: rowNumber, Message: err.Error()})
			continue
		}

		if message := checkRow(validator, schema, header, record); message != "" {
			report.FailCount++
			report.FailRows = append(report.FailRows, usecases.RowFailure{Row: rowNumber, Message: message})
			continue
		}
		report.SuccessCount++
	}

	fmt.Println("dry run: no rows were persisted")
	printReport(report)
	return nil
}

func checkRow(validator *usecases.Validator, schema domain.SchemaSnapshot, header, record []string) string {
	dynamic := make(map[string]string)
	for i, name := range header {
		if i >= len(record) {
			continue
		}
		if name == "status" && record[i] != "" {
			if !domain.Status(record[i]).Valid() {
				return fmt.Sprintf("invalid status %q", record[i])
			}
		}
		if !coreColumns[name] {
			dynamic[name] = record[i]
		}
	}

	if _, issues := validator.ValidatePayload(schema, dynamic); len(issues) > 0 {
		return issues.Error()
	}
	return ""
}

func printReport(report usecases.ImportReport) {
	fmt.Printf("imported: %d, failed: %d\n", report.SuccessCount, report.FailCount)
	for _, failure := range report.FailRows {
		fmt.Printf("  row %d: %s\n", failure.Row, failure.Message)
	}
}
