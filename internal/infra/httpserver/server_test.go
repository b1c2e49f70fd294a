package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var _ = ginkgo.Describe("HTTPServer", func() {
	var tp *trace.TracerProvider

	ginkgo.BeforeEach(func() {
		tp = trace.NewTracerProvider(
			trace.WithSpanProcessor(tracetest.NewSpanRecorder()),
		)
		otel.SetTracerProvider(tp)
	})

	ginkgo.AfterEach(func() {
		tp.Shutdown(context.Background())
	})

	ginkgo.Context("TracingMiddleware", func() {
		ginkgo.It("adds a span to the request context", func() {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				span := GetSpanFromContext(r)
				gomega.Expect(span.SpanContext().HasSpanID()).To(gomega.BeTrue())

				w.WriteHeader(http.StatusOK)
			})

			middleware := createTracingMiddleware()
			wrappedHandler := middleware(testHandler)

			req := httptest.NewRequest("GET", "/assets", nil)
			rec := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Context("GetSpanFromContext", func() {
		ginkgo.It("returns a no-op span when no span is in context", func() {
			req := httptest.NewRequest("GET", "/assets", nil)
			span := GetSpanFromContext(req)

			gomega.Expect(span).NotTo(gomega.BeNil())
		})
	})

	ginkgo.Context("ActorHeaderMiddleware", func() {
		ginkgo.When("identity headers are present", func() {
			ginkgo.It("processes the request normally", func() {
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})

				tracingMiddleware := createTracingMiddleware()
				actorHeaderMiddleware := createActorHeaderMiddleware()
				wrappedHandler := tracingMiddleware(actorHeaderMiddleware(testHandler))

				req := httptest.NewRequest("GET", "/assets", nil)
				req.Header.Set("X-User-ID", "7f21a0b2-3c44-4de1-9f55-0a9b8c6d2e31")
				req.Header.Set("X-User-Name", "Sam Rivera")
				req.Header.Set("X-User-Email", "sam.rivera@example.com")
				rec := httptest.NewRecorder()

				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			})
		})

		ginkgo.When("identity headers are absent", func() {
			ginkgo.It("still serves the request", func() {
				testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})

				tracingMiddleware := createTracingMiddleware()
				actorHeaderMiddleware := createActorHeaderMiddleware()
				wrappedHandler := tracingMiddleware(actorHeaderMiddleware(testHandler))

				req := httptest.NewRequest("GET", "/assets", nil)
				rec := httptest.NewRecorder()

				wrappedHandler.ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			})
		})
	})
})
