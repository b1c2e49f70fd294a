package usecases_test

import (
	"context"
	"errors"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/cache"
	mockusecases "asset-server/test/unit/doubles/core/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("SchemaService", func() {
	var (
		ctrl      *gomock.Controller
		mockRepo  *mockusecases.MockCategoryRepository
		snapshots cache.Cache
		service   *usecases.SimpleSchemaService
		ctx       context.Context
		category  domain.Category
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockRepo = mockusecases.NewMockCategoryRepository(ctrl)

		var err error
		snapshots, err = cache.New(cache.DefaultConfig())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		service = usecases.NewSchemaService(mockRepo, snapshots)
		ctx = context.Background()

		category, err = domain.NewCategoryBuilder().
			WithName("Laptops").
			WithField("serial_number", "Serial Number", domain.FieldTypeText, true).
			Build()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("CreateCategory", func() {
		ginkgo.It("persists the category", func() {
			mockRepo.EXPECT().Create(gomock.Any(), category).Return(nil)

			err := service.CreateCategory(ctx, category)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("passes the duplicate sentinel through", func() {
			mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(usecases.ErrCategoryDuplicated)

			err := service.CreateCategory(ctx, category)
			gomega.Expect(err).To(gomega.MatchError(usecases.ErrCategoryDuplicated))
		})

		ginkgo.It("wraps storage faults", func() {
			mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk on fire"))

			err := service.CreateCategory(ctx, category)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(errors.Is(err, usecases.ErrCategoryDuplicated)).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("GetSchema", func() {
		ginkgo.It("loads the snapshot once and serves repeats from cache", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil).Times(1)

			first, err := service.GetSchema(ctx, category.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(first).To(gomega.HaveKey("serial_number"))

			second, err := service.GetSchema(ctx, category.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(second).To(gomega.Equal(first))
		})

		ginkgo.It("reports an unknown category", func() {
			mockRepo.EXPECT().Get(gomock.Any(), domain.ID("nope")).Return(domain.Category{}, usecases.ErrCategoryNotFound)

			_, err := service.GetSchema(ctx, domain.ID("nope"))
			gomega.Expect(err).To(gomega.MatchError(usecases.ErrCategoryNotFound))
		})
	})

	ginkgo.Context("DefineField", func() {
		ginkgo.It("bumps the version, regenerates the snapshot and invalidates the cache", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil).Times(2)
			mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, updated domain.Category) error {
					gomega.Expect(updated.Version).To(gomega.Equal(category.Version + 1))
					gomega.Expect(updated.Schema).To(gomega.HaveKey("warranty_expiry"))
					return nil
				})

			// Warm the cache first so the invalidation is observable.
			_, err := service.GetSchema(ctx, category.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = service.DefineField(ctx, category.ID, domain.FieldDefinition{
				Key:   "warranty_expiry",
				Label: "Warranty Expiry",
				Type:  domain.FieldTypeDate,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a duplicate key without persisting", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil)

			err := service.DefineField(ctx, category.ID, domain.FieldDefinition{
				Key:  "serial_number",
				Type: domain.FieldTypeText,
			})
			gomega.Expect(err).To(gomega.MatchError(domain.ErrDuplicateFieldKey))
		})
	})

	ginkgo.Context("UpdateField", func() {
		ginkgo.It("persists label and required edits", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil)
			mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, updated domain.Category) error {
					gomega.Expect(updated.Schema["serial_number"].Label).To(gomega.Equal("S/N"))
					gomega.Expect(updated.Schema["serial_number"].Required).To(gomega.BeFalse())
					return nil
				})

			err := service.UpdateField(ctx, category.ID, "serial_number", "S/N", false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("reports a missing field", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil)

			err := service.UpdateField(ctx, category.ID, "ghost", "Ghost", false)
			gomega.Expect(err).To(gomega.MatchError(domain.ErrFieldNotFound))
		})
	})

	ginkgo.Context("RemoveField", func() {
		ginkgo.It("drops the field and persists", func() {
			mockRepo.EXPECT().Get(gomock.Any(), category.ID).Return(category, nil)
			mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, updated domain.Category) error {
					gomega.Expect(updated.Schema).NotTo(gomega.HaveKey("serial_number"))
					return nil
				})

			err := service.RemoveField(ctx, category.ID, "serial_number")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})
})
