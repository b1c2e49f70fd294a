package usecases_test

import (
	"context"
	"errors"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/usecases"
	mockusecases "asset-server/test/unit/doubles/core/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("AssetService", func() {
	var (
		ctrl        *gomock.Controller
		mockAssets  *mockusecases.MockAssetRepository
		mockUsers   *mockusecases.MockUserRepository
		mockSchemas *mockusecases.MockSchemaService
		mockAudit   *mockusecases.MockAuditService
		service     *usecases.SimpleAssetService
		ctx         context.Context
		schema      domain.SchemaSnapshot
		categoryID  domain.ID
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockAssets = mockusecases.NewMockAssetRepository(ctrl)
		mockUsers = mockusecases.NewMockUserRepository(ctrl)
		mockSchemas = mockusecases.NewMockSchemaService(ctrl)
		mockAudit = mockusecases.NewMockAuditService(ctrl)
		service = usecases.NewAssetService(mockAssets, mockUsers, mockSchemas, mockAudit)
		ctx = context.Background()
		categoryID = domain.ID("cat-laptops")
		schema = domain.SchemaSnapshot{
			"serial_number": {Type: domain.FieldTypeText, Label: "Serial Number", Required: true},
			"ram_gb":        {Type: domain.FieldTypeNumber, Label: "RAM (GB)"},
		}
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("CreateAsset", func() {
		ginkgo.It("persists a validated asset with its create entry in one call", func() {
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)
			mockAssets.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, asset domain.Asset, entry domain.AuditEntry) (domain.Asset, error) {
					gomega.Expect(asset.CategoryID).To(gomega.Equal(categoryID))
					gomega.Expect(asset.Payload["serial_number"]).To(gomega.Equal("SN-001"))
					gomega.Expect(asset.Payload["ram_gb"]).To(gomega.Equal(float64(32)))
					gomega.Expect(asset.Status).To(gomega.Equal(domain.StatusActive))
					gomega.Expect(entry.Action).To(gomega.Equal(domain.ActionCreate))
					asset.ID = 42
					return asset, nil
				})
			mockAudit.EXPECT().Announce(gomock.Any(), gomock.Any()).Do(
				func(_ context.Context, entry domain.AuditEntry) {
					gomega.Expect(entry.AssetID).NotTo(gomega.BeNil())
					gomega.Expect(*entry.AssetID).To(gomega.Equal(uint64(42)))
				})

			created, err := service.CreateAsset(ctx, usecases.CreateAssetInput{
				CategoryID: categoryID,
				Dynamic:    map[string]string{"serial_number": "SN-001", "ram_gb": "32"},
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(created.ID).To(gomega.Equal(uint64(42)))
		})

		ginkgo.It("rejects the whole submission on validation issues without persisting", func() {
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)

			_, err := service.CreateAsset(ctx, usecases.CreateAssetInput{
				CategoryID: categoryID,
				Dynamic:    map[string]string{"ram_gb": "plenty"},
			})

			var issues usecases.ValidationErrors
			gomega.Expect(errors.As(err, &issues)).To(gomega.BeTrue())
			gomega.Expect(issues.Has(usecases.IssueMissingRequiredField, "serial_number")).To(gomega.BeTrue())
			gomega.Expect(issues.Has(usecases.IssueInvalidNumber, "ram_gb")).To(gomega.BeTrue())
		})

		ginkgo.It("rejects an unknown assignee", func() {
			assignee := domain.ID("ghost")
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)
			mockUsers.EXPECT().Get(gomock.Any(), assignee).Return(domain.User{}, usecases.ErrUserNotFound)

			_, err := service.CreateAsset(ctx, usecases.CreateAssetInput{
				CategoryID: categoryID,
				AssignedTo: &assignee,
				Dynamic:    map[string]string{"serial_number": "SN-002"},
			})

			gomega.Expect(err).To(gomega.MatchError(usecases.ErrUserNotFound))
		})
	})

	ginkgo.Context("UpdateAsset", func() {
		var existing domain.Asset

		ginkgo.BeforeEach(func() {
			existing = domain.Asset{
				ID:         7,
				ExternalID: domain.ID("ext-7"),
				CategoryID: categoryID,
				Status:     domain.StatusActive,
				Payload:    domain.DynamicPayload{"serial_number": "SN-007"},
				Version:    1,
			}
		})

		ginkgo.It("records a maintenance entry for a maintenance transition", func() {
			status := domain.StatusMaintenance
			mockAssets.EXPECT().Get(gomock.Any(), uint64(7)).Return(existing, nil)
			mockAssets.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, asset domain.Asset, entries []domain.AuditEntry) error {
					gomega.Expect(asset.Status).To(gomega.Equal(domain.StatusMaintenance))
					gomega.Expect(asset.Version).To(gomega.Equal(domain.Version(2)))
					gomega.Expect(entries).To(gomega.HaveLen(1))
					gomega.Expect(entries[0].Action).To(gomega.Equal(domain.ActionMaintenance))
					gomega.Expect(entries[0].Metadata["from"]).To(gomega.Equal("active"))
					return nil
				})
			mockAudit.EXPECT().Announce(gomock.Any(), gomock.Any())

			updated, err := service.UpdateAsset(ctx, 7, usecases.AssetPatch{Status: &status})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Status).To(gomega.Equal(domain.StatusMaintenance))
		})

		ginkgo.It("validates dynamic changes against the current schema", func() {
			mockAssets.EXPECT().Get(gomock.Any(), uint64(7)).Return(existing, nil)
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)

			_, err := service.UpdateAsset(ctx, 7, usecases.AssetPatch{
				Dynamic: map[string]string{"ram_gb": "lots"},
			})

			var issues usecases.ValidationErrors
			gomega.Expect(errors.As(err, &issues)).To(gomega.BeTrue())
		})

		ginkgo.It("merges dynamic values key-wise into the existing payload", func() {
			mockAssets.EXPECT().Get(gomock.Any(), uint64(7)).Return(existing, nil)
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)
			mockAssets.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, asset domain.Asset, entries []domain.AuditEntry) error {
					gomega.Expect(asset.Payload["serial_number"]).To(gomega.Equal("SN-007"))
					gomega.Expect(asset.Payload["ram_gb"]).To(gomega.Equal(float64(64)))
					gomega.Expect(entries[0].Action).To(gomega.Equal(domain.ActionEdit))
					return nil
				})
			mockAudit.EXPECT().Announce(gomock.Any(), gomock.Any())

			_, err := service.UpdateAsset(ctx, 7, usecases.AssetPatch{
				Dynamic: map[string]string{"ram_gb": "64"},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("records an assign entry when the assignment changes", func() {
			assignee := domain.ID("user-9")
			mockAssets.EXPECT().Get(gomock.Any(), uint64(7)).Return(existing, nil)
			mockUsers.EXPECT().Get(gomock.Any(), assignee).Return(domain.User{ID: assignee}, nil)
			mockAssets.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, asset domain.Asset, entries []domain.AuditEntry) error {
					gomega.Expect(asset.AssignedTo).To(gomega.HaveValue(gomega.Equal(assignee)))
					gomega.Expect(entries[0].Action).To(gomega.Equal(domain.ActionAssign))
					gomega.Expect(entries[0].RelatedUser).To(gomega.HaveValue(gomega.Equal(assignee)))
					return nil
				})
			mockAudit.EXPECT().Announce(gomock.Any(), gomock.Any())

			_, err := service.UpdateAsset(ctx, 7, usecases.AssetPatch{AssignedTo: &assignee})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("does not persist when the patch changes nothing", func() {
			mockAssets.EXPECT().Get(gomock.Any(), uint64(7)).Return(existing, nil)

			updated, err := service.UpdateAsset(ctx, 7, usecases.AssetPatch{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Version).To(gomega.Equal(domain.Version(1)))
		})

		ginkgo.It("reports a missing asset", func() {
			mockAssets.EXPECT().Get(gomock.Any(), uint64(99)).Return(domain.Asset{}, usecases.ErrAssetNotFound)

			_, err := service.UpdateAsset(ctx, 99, usecases.AssetPatch{})
			gomega.Expect(err).To(gomega.MatchError(usecases.ErrAssetNotFound))
		})
	})

	ginkgo.Context("GetByScanCode", func() {
		const externalID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

		var asset domain.Asset

		ginkgo.BeforeEach(func() {
			asset = domain.Asset{ID: 3, ExternalID: domain.ID(externalID), CategoryID: categoryID}
		})

		ginkgo.It("resolves the canonical code and records a scan entry", func() {
			mockAssets.EXPECT().GetByExternalID(gomock.Any(), domain.ID(externalID)).Return(asset, nil)
			mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, entry domain.AuditEntry) error {
					gomega.Expect(entry.Action).To(gomega.Equal(domain.ActionScan))
					gomega.Expect(entry.AssetID).To(gomega.HaveValue(gomega.Equal(uint64(3))))
					return nil
				})

			found, err := service.GetByScanCode(ctx, "ASSET|v1|"+externalID, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(uint64(3)))
		})

		ginkgo.It("accepts a bare external identifier", func() {
			mockAssets.EXPECT().GetByExternalID(gomock.Any(), domain.ID(externalID)).Return(asset, nil)
			mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

			_, err := service.GetByScanCode(ctx, externalID, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("accepts a numeric internal identifier", func() {
			mockAssets.EXPECT().Get(gomock.Any(), uint64(3)).Return(asset, nil)
			mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

			_, err := service.GetByScanCode(ctx, "3", nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("extracts the external identifier from a media filename", func() {
			mockAssets.EXPECT().GetByExternalID(gomock.Any(), domain.ID(externalID)).Return(asset, nil)
			mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

			_, err := service.GetByScanCode(ctx, "label-"+externalID+".png", nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects an unrecognizable code", func() {
			_, err := service.GetByScanCode(ctx, "garbage", nil)
			gomega.Expect(err).To(gomega.MatchError(domain.ErrInvalidScanCode))
		})

		ginkgo.It("does not fail the lookup when the audit write fails", func() {
			mockAssets.EXPECT().GetByExternalID(gomock.Any(), domain.ID(externalID)).Return(asset, nil)
			mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("audit store down"))

			found, err := service.GetByScanCode(ctx, "ASSET|v1|"+externalID, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(uint64(3)))
		})
	})

	ginkgo.Context("ListAssets", func() {
		var stored []domain.Asset

		ginkgo.BeforeEach(func() {
			stored = []domain.Asset{
				{ID: 1, CategoryID: categoryID, Payload: domain.DynamicPayload{"serial_number": "SN-001", "ram_gb": float64(32)}},
				{ID: 2, CategoryID: categoryID, Payload: domain.DynamicPayload{"serial_number": "SN-002", "ram_gb": float64(16)}},
				{ID: 3, CategoryID: categoryID, Payload: domain.DynamicPayload{"serial_number": "SN-003", "ram_gb": float64(32)}},
			}
		})

		ginkgo.It("applies translated dynamic predicates after the core query", func() {
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)
			mockAssets.EXPECT().FindByFilter(gomock.Any(), usecases.CoreFilter{CategoryID: categoryID}).Return(stored, nil)

			assets, total, err := service.ListAssets(ctx, usecases.AssetFilter{
				CategoryID: categoryID,
				Dynamic:    map[string]string{"ram_gb": "32"},
			}, usecases.Pagination{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(2))
			gomega.Expect(assets).To(gomega.HaveLen(2))
		})

		ginkgo.It("paginates the matched set and reports the full total", func() {
			mockSchemas.EXPECT().GetSchema(gomock.Any(), categoryID).Return(schema, nil)
			mockAssets.EXPECT().FindByFilter(gomock.Any(), gomock.Any()).Return(stored, nil)

			assets, total, err := service.ListAssets(ctx, usecases.AssetFilter{CategoryID: categoryID},
				usecases.Pagination{Limit: 2, Offset: 2})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(3))
			gomega.Expect(assets).To(gomega.HaveLen(1))
			gomega.Expect(assets[0].ID).To(gomega.Equal(uint64(3)))
		})

		ginkgo.It("skips the schema load when no category is given", func() {
			mockAssets.EXPECT().FindByFilter(gomock.Any(), usecases.CoreFilter{}).Return(stored, nil)

			_, total, err := service.ListAssets(ctx, usecases.AssetFilter{}, usecases.Pagination{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(3))
		})
	})
})
