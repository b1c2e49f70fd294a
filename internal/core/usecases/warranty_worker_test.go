package usecases_test

import (
	"context"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/usecases"
	mockusecases "asset-server/test/unit/doubles/core/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("WarrantyWorker", func() {
	var (
		ctrl       *gomock.Controller
		mockAssets *mockusecases.MockAssetRepository
		mockAudit  *mockusecases.MockAuditService
		ticker     *time.Ticker
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockAssets = mockusecases.NewMockAssetRepository(ctrl)
		mockAudit = mockusecases.NewMockAuditService(ctrl)
		ticker = time.NewTicker(50 * time.Millisecond)
	})

	ginkgo.AfterEach(func() {
		ticker.Stop()
		ctrl.Finish()
	})

	ginkgo.It("records one maintenance finding per asset expiring inside the window", func() {
		expiring := domain.Asset{
			ID:      1,
			Status:  domain.StatusActive,
			Payload: domain.DynamicPayload{"warranty_expiry": time.Now().AddDate(0, 0, 10).Format("2006-01-02")},
		}
		farAway := domain.Asset{
			ID:      2,
			Status:  domain.StatusActive,
			Payload: domain.DynamicPayload{"warranty_expiry": time.Now().AddDate(1, 0, 0).Format("2006-01-02")},
		}
		noWarranty := domain.Asset{
			ID:      3,
			Status:  domain.StatusActive,
			Payload: domain.DynamicPayload{},
		}

		scanned := make(chan domain.AuditEntry, 1)
		active := domain.StatusActive
		mockAssets.EXPECT().FindByFilter(gomock.Any(), usecases.CoreFilter{Status: &active}).
			Return([]domain.Asset{expiring, farAway, noWarranty}, nil).MinTimes(1)
		mockAudit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry domain.AuditEntry) error {
				gomega.Expect(entry.Action).To(gomega.Equal(domain.ActionMaintenance))
				gomega.Expect(entry.AssetID).To(gomega.HaveValue(gomega.Equal(uint64(1))))
				gomega.Expect(entry.Metadata["window_days"]).To(gomega.Equal(30))
				select {
				case scanned <- entry:
				default:
				}
				return nil
			}).MinTimes(1)

		worker := usecases.NewWarrantyWorker(ticker, mockAssets, mockAudit, "* * * * *", 30)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go worker.Run(ctx, func() { close(done) })

		gomega.Eventually(scanned, 2*time.Second).Should(gomega.Receive())
		cancel()
		gomega.Eventually(done, 2*time.Second).Should(gomega.BeClosed())
	})

	ginkgo.It("skips the scan when the schedule cannot be parsed", func() {
		worker := usecases.NewWarrantyWorker(ticker, mockAssets, mockAudit, "not-a-schedule", 30)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go worker.Run(ctx, func() { close(done) })

		// Let a few ticks pass; no repository call is expected.
		time.Sleep(200 * time.Millisecond)
		cancel()
		gomega.Eventually(done, 2*time.Second).Should(gomega.BeClosed())
	})
})
