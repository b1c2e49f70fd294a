package httpserver

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
)

var _ = ginkgo.Describe("Metrics", func() {
	ginkgo.Context("MetricsMiddleware", func() {
		ginkgo.It("wraps the handler and initializes metrics", func() {
			reader := metric.NewManualReader()
			provider := metric.NewMeterProvider(metric.WithReader(reader))
			otel.SetMeterProvider(provider)

			ResetMetricsForTesting()

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("test response"))
			})

			middleware := MetricsMiddleware()
			handler := middleware(testHandler)

			req := httptest.NewRequest("GET", "/assets", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.Equal("test response"))
			gomega.Expect(IsMetricsInitialized()).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("NormalizeEndpoint", func() {
		ginkgo.DescribeTable("normalizes paths",
			func(path, expected string) {
				gomega.Expect(normalizeEndpoint(path)).To(gomega.Equal(expected))
			},
			ginkgo.Entry("root", "/", "root"),
			ginkgo.Entry("empty", "", "root"),
			ginkgo.Entry("static path", "/v1/categories", "/v1/categories"),
			ginkgo.Entry("uuid segment", "/v1/assets/3b1f8e9c-2a6d-4f0b-8c3e-5d7a9f1b2c4d", "/v1/assets/_id"),
			ginkgo.Entry("nested uuid segments",
				"/v1/categories/3b1f8e9c-2a6d-4f0b-8c3e-5d7a9f1b2c4d/fields/7f21a0b2-3c44-4de1-9f55-0a9b8c6d2e31",
				"/v1/categories/_id/fields/_id"),
		)
	})
})
