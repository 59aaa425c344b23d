package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "webscan/pkg/errors"
	"webscan/pkg/report"
)

func TestGenerateReport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		scanID         string
		query          string
		setupMock      func(*MockScanService)
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name:   "Default Format Is Document",
			scanID: "123e4567-e89b-12d3-a456-426614174000",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "123e4567-e89b-12d3-a456-426614174000", "document").
					Return(report.Artifact{
						Format:      report.FormatDocument,
						ContentType: "application/json",
						Data:        []byte(`{"title":"Web Application Scan Report"}`),
					}, nil)
			},
			expectedStatus: 200,
			expectedType:   "application/json",
		},
		{
			name:   "Table Format",
			scanID: "123e4567-e89b-12d3-a456-426614174000",
			query:  "?format=table",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "123e4567-e89b-12d3-a456-426614174000", "table").
					Return(report.Artifact{
						Format:      report.FormatTable,
						ContentType: "text/csv",
						Data:        []byte("id,type,severity\n"),
					}, nil)
			},
			expectedStatus: 200,
			expectedType:   "text/csv",
		},
		{
			name:   "Unsupported Format",
			scanID: "some-id",
			query:  "?format=html",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "some-id", "html").
					Return(report.Artifact{}, apperrors.ErrUnsupportedFormat)
			},
			expectedStatus: 400,
			expectedBody:   `{"error":"Unsupported report format"}`,
		},
		{
			name:   "Failed Scan Has No Data",
			scanID: "some-id",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "some-id", "document").
					Return(report.Artifact{}, apperrors.ErrNoData)
			},
			expectedStatus: 409,
			expectedBody:   `{"error":"Scan has no reportable data yet"}`,
		},
		{
			name:   "Still Running",
			scanID: "some-id",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "some-id", "document").
					Return(report.Artifact{}, apperrors.ErrResultsNotReady)
			},
			expectedStatus: 409,
			expectedBody:   `{"error":"Scan still running"}`,
		},
		{
			name:   "Unknown Scan",
			scanID: "non-existent-id",
			setupMock: func(m *MockScanService) {
				m.On("GenerateReport", "non-existent-id", "document").
					Return(report.Artifact{}, apperrors.ErrUnknownSession)
			},
			expectedStatus: 404,
			expectedBody:   `{"error":"Scan not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockScanService)
			tt.setupMock(mockService)

			handler := NewReportHandler(mockService)
			router := gin.New()
			router.GET("/api/scans/:id/report", handler.GenerateReport)

			url := fmt.Sprintf("/api/scans/%s/report%s", tt.scanID, tt.query)
			req, _ := http.NewRequest("GET", url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			}
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}

			mockService.AssertExpectations(t)
		})
	}
}
