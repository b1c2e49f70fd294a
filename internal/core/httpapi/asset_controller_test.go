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
	"asset-server/internal/infra/utils"
	mockusecases "asset-server/test/unit/doubles/core/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("AssetController", func() {
	var controller *httpapi.AssetController
	var mockService *mockusecases.MockAssetService
	var ctrl *gomock.Controller
	var recorder *httptest.ResponseRecorder
	var router *http.ServeMux

	BeforeEach(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctrl = gomock.NewController(GinkgoT())
		mockService = mockusecases.NewMockAssetService(ctrl)
		controller = httpapi.NewAssetController(mockService)
		recorder = httptest.NewRecorder()
		router = http.NewServeMux()
		controller.AddRoutes(router)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("createAsset", func() {
		When("the submission is valid", func() {
			It("should forward the actor header and reply created", func() {
				actor := domain.ID("user-1")
				mockService.EXPECT().
					CreateAsset(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, input usecases.CreateAssetInput) (domain.Asset, error) {
						Expect(input.CategoryID).To(Equal(domain.ID("cat-1")))
						Expect(input.Actor).NotTo(BeNil())
						Expect(*input.Actor).To(Equal(actor))
						Expect(input.Dynamic).To(HaveKeyWithValue("serial_number", "SN-1"))
						return domain.Asset{
							ID:         42,
							ExternalID: domain.ID("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
							CategoryID: input.CategoryID,
							Payload:    domain.DynamicPayload{"serial_number": "SN-1"},
							Status:     domain.StatusActive,
							Version:    1,
						}, nil
					})

				body := `{"category_id":"cat-1","dynamic":{"serial_number":"SN-1"}}`
				request := httptest.NewRequest("POST", "/v1/assets", strings.NewReader(body))
				request.Header.Set("X-User-ID", "user-1")
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusCreated))

				var response map[string]any
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response["id"]).To(BeEquivalentTo(42))
				Expect(response["scan_code"]).To(Equal("ASSET|v1|7d444840-9dc0-11d1-b245-5ffdce74fad2"))
			})
		})

		When("validation fails", func() {
			It("should reply bad request with the issue set", func() {
				issues := usecases.ValidationErrors{
					{Code: usecases.IssueMissingRequiredField, Key: "serial_number"},
					{Code: usecases.IssueInvalidNumber, Key: "weight", Raw: "heavy"},
				}
				mockService.EXPECT().
					CreateAsset(gomock.Any(), gomock.Any()).
					Return(domain.Asset{}, issues)

				body := `{"category_id":"cat-1","dynamic":{"weight":"heavy"}}`
				request := httptest.NewRequest("POST", "/v1/assets", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))

				var response struct {
					Message string `json:"message"`
					Issues  []struct {
						Key  string `json:"key"`
						Code string `json:"code"`
					} `json:"issues"`
				}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Issues).To(HaveLen(2))
				Expect(response.Issues[0].Key).To(Equal("serial_number"))
				Expect(response.Issues[1].Code).To(Equal("invalid_number"))
			})
		})

		When("the category id is missing", func() {
			It("should reply bad request without calling the service", func() {
				body := `{"dynamic":{"serial_number":"SN-1"}}`
				request := httptest.NewRequest("POST", "/v1/assets", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})

		When("the purchase value is not a decimal", func() {
			It("should reply bad request", func() {
				body := `{"category_id":"cat-1","purchase":{"value":"lots"}}`
				request := httptest.NewRequest("POST", "/v1/assets", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("getAsset", func() {
		When("the asset exists", func() {
			It("should reply with the asset", func() {
				mockService.EXPECT().
					GetAsset(gomock.Any(), uint64(7)).
					Return(domain.Asset{ID: 7, ExternalID: "ext-7", CategoryID: "cat-1", Status: domain.StatusActive}, nil)

				request := httptest.NewRequest("GET", "/v1/assets/7", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
			})
		})

		When("the asset is unknown", func() {
			It("should reply not found", func() {
				mockService.EXPECT().
					GetAsset(gomock.Any(), uint64(99)).
					Return(domain.Asset{}, usecases.ErrAssetNotFound)

				request := httptest.NewRequest("GET", "/v1/assets/99", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusNotFound))
			})
		})

		When("the id is not numeric", func() {
			It("should reply bad request", func() {
				request := httptest.NewRequest("GET", "/v1/assets/not-a-number", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("listAssets", func() {
		When("filters are present", func() {
			It("should translate query parameters into the filter", func() {
				mockService.EXPECT().
					ListAssets(gomock.Any(), gomock.Any(), usecases.Pagination{Limit: 10, Offset: 0}).
					DoAndReturn(func(_ any, filter usecases.AssetFilter, _ usecases.Pagination) ([]domain.Asset, int, error) {
						Expect(filter.CategoryID).To(Equal(domain.ID("cat-1")))
						Expect(filter.Status).NotTo(BeNil())
						Expect(*filter.Status).To(Equal(domain.StatusActive))
						Expect(filter.Dynamic).To(HaveKeyWithValue("location", "warehouse"))
						return []domain.Asset{{ID: 1, ExternalID: "ext-1", CategoryID: "cat-1"}}, 1, nil
					})

				request := httptest.NewRequest("GET", "/v1/assets?category_id=cat-1&status=active&field=location:warehouse", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response struct {
					Data       []any `json:"data"`
					Pagination struct {
						Total int `json:"total"`
					} `json:"pagination"`
				}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response.Data).To(HaveLen(1))
				Expect(response.Pagination.Total).To(Equal(1))
			})
		})

		When("the status filter is invalid", func() {
			It("should reply bad request", func() {
				request := httptest.NewRequest("GET", "/v1/assets?status=vaporized", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("scanAsset", func() {
		When("the code resolves", func() {
			It("should reply with the asset", func() {
				mockService.EXPECT().
					GetByScanCode(gomock.Any(), "ASSET|v1|ext-1", gomock.Nil()).
					Return(domain.Asset{ID: 1, ExternalID: "ext-1", CategoryID: "cat-1", CreatedAt: utils.Time{}}, nil)

				request := httptest.NewRequest("GET", "/v1/assets/scan?code=ASSET%7Cv1%7Cext-1", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
			})
		})

		When("the code is malformed", func() {
			It("should reply bad request", func() {
				mockService.EXPECT().
					GetByScanCode(gomock.Any(), "garbage", gomock.Nil()).
					Return(domain.Asset{}, domain.ErrInvalidScanCode)

				request := httptest.NewRequest("GET", "/v1/assets/scan?code=garbage", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})

		When("the code is absent", func() {
			It("should reply bad request without calling the service", func() {
				request := httptest.NewRequest("GET", "/v1/assets/scan", nil)
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})
})
