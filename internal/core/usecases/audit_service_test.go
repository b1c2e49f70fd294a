package usecases_test

import (
	"context"
	"errors"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/async"
	"asset-server/internal/infra/pubsub"
	mockusecases "asset-server/test/unit/doubles/core/usecases"
	mockasync "asset-server/test/unit/doubles/infra/async"
	mockpubsub "asset-server/test/unit/doubles/infra/pubsub"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("AuditService", func() {
	var (
		ctrl          *gomock.Controller
		mockRepo      *mockusecases.MockAuditRepository
		mockBroker    *mockasync.MockInternalBroker
		mockPublisher *mockpubsub.MockPublisher
		service       *usecases.SimpleAuditService
		ctx           context.Context
		entry         domain.AuditEntry
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockRepo = mockusecases.NewMockAuditRepository(ctrl)
		mockBroker = mockasync.NewMockInternalBroker(ctrl)
		mockPublisher = mockpubsub.NewMockPublisher(ctrl)
		service = usecases.NewAuditService(mockRepo, mockBroker, mockPublisher)
		ctx = context.Background()

		var err error
		entry, err = domain.NewAuditEntryBuilder().
			WithAction(domain.ActionScan).
			WithAsset(11).
			WithDetails("asset looked up by scan code").
			Build()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("Record", func() {
		ginkgo.It("appends the entry and announces it", func() {
			mockRepo.EXPECT().Append(gomock.Any(), entry).Return(nil)
			mockBroker.EXPECT().Publish(gomock.Any(), usecases.ActivityTopic, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ async.BrokerTopicName, msg async.BrokerMessage) error {
					gomega.Expect(msg.Event).To(gomega.Equal("scan"))
					gomega.Expect(msg.Value).To(gomega.Equal(entry))
					return nil
				})
			mockPublisher.EXPECT().Publish(gomock.Any(), pubsub.Key(entry.ID), entry).Return(nil)

			err := service.Record(ctx, entry)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("rejects an entry without an action", func() {
			err := service.Record(ctx, domain.AuditEntry{})
			gomega.Expect(err).To(gomega.MatchError(domain.ErrMissingAction))
		})

		ginkgo.It("fails when the append fails", func() {
			mockRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("write refused"))

			err := service.Record(ctx, entry)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Context("Announce", func() {
		ginkgo.It("does not fail the caller when the side channels fail", func() {
			mockBroker.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker gone"))
			mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("kafka gone"))

			service.Announce(ctx, entry)
		})

		ginkgo.It("treats a missing topic as no subscribers", func() {
			mockBroker.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(async.ErrTopicNotFound)
			mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			service.Announce(ctx, entry)
		})
	})

	ginkgo.Context("Query", func() {
		ginkgo.It("delegates filter and pagination to the repository", func() {
			filter := usecases.AuditFilter{Action: domain.ActionScan}
			pagination := usecases.Pagination{Limit: 10, Offset: 20}
			mockRepo.EXPECT().Query(gomock.Any(), filter, pagination).Return([]domain.AuditEntry{entry}, 31, nil)

			entries, total, err := service.Query(ctx, filter, pagination)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
			gomega.Expect(total).To(gomega.Equal(31))
		})
	})
})
