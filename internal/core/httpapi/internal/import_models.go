package internal

import "asset-server/internal/core/usecases"

type RowFailureResponse struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportReportResponse struct {
	SuccessCount int                  `json:"success_count"`
	FailCount    int                  `json:"fail_count"`
	Failures     []RowFailureResponse `json:"failures,omitempty"`
}

func ToImportReportResponse(report usecases.ImportReport) ImportReportResponse {
	failures := make([]RowFailureResponse, len(report.FailRows))
	for i, failure := range report.FailRows {
		failures[i] = RowFailureResponse{
			Row:     failure.Row,
			Message: failure.Message,
		}
	}

	return ImportReportResponse{
		SuccessCount: report.SuccessCount,
		FailCount:    report.FailCount,
		Failures:     failures,
	}
}
