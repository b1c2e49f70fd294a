package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/httpapi"
	"asset-server/internal/core/usecases"
	mockusecases "asset-server/test/unit/doubles/core/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("ImportController", func() {
	var controller *httpapi.ImportController
	var mockService *mockusecases.MockImportService
	var ctrl *gomock.Controller
	var recorder *httptest.ResponseRecorder
	var router *http.ServeMux

	BeforeEach(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctrl = gomock.NewController(GinkgoT())
		mockService = mockusecases.NewMockImportService(ctrl)
		controller = httpapi.NewImportController(mockService)
		recorder = httptest.NewRecorder()
		router = http.NewServeMux()
		controller.AddRoutes(router)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("importAssets", func() {
		When("some rows fail validation", func() {
			It("should reply with the batch report", func() {
				report := usecases.ImportReport{
					SuccessCount: 2,
					FailCount:    1,
					FailRows:     []usecases.RowFailure{{Row: 3, Message: `Missing required field "serial_number"`}},
				}
				mockService.EXPECT().
					Import(gomock.Any(), domain.ID("cat-1"), gomock.Any(), gomock.Any()).
					Return(report, nil)

				csv := "status,description,assigned_to,serial_number\nactive,laptop,,SN-1\nactive,monitor,,SN-2\nactive,mouse,,\n"
				request := httptest.NewRequest("POST", "/v1/categories/cat-1/import", strings.NewReader(csv))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response struct {
					SuccessCount int `json:"success_count"`
					FailCount    int `json:"fail_count"`
					Failures     []struct {
						Row int `json:"row"`
					} `json:"failures"`
				}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.SuccessCount).To(Equal(2))
				Expect(response.FailCount).To(Equal(1))
				Expect(response.Failures[0].Row).To(Equal(3))
			})
		})

		When("the category is unknown", func() {
			It("should reply not found", func() {
				mockService.EXPECT().
					Import(gomock.Any(), domain.ID("missing"), gomock.Any(), gomock.Any()).
					Return(usecases.ImportReport{}, usecases.ErrCategoryNotFound)

				request := httptest.NewRequest("POST", "/v1/categories/missing/import", strings.NewReader("status\n"))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusNotFound))
			})
		})
	})

	Context("exportAssets", func() {
		When("the category exists", func() {
			It("should stream CSV", func() {
				mockService.EXPECT().
					Export(gomock.Any(), domain.ID("cat-1"), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, _ domain.ID, w io.Writer, _ *domain.ID) error {
						_, err := w.Write([]byte("status,description,assigned_to\nactive,laptop,\n"))
						return err
					})

				request := httptest.NewRequest("GET", "/v1/categories/cat-1/export", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Header().Get("Content-Type")).To(Equal("text/csv"))
				Expect(recorder.Body.String()).To(ContainSubstring("active,laptop"))
			})
		})
	})
})
