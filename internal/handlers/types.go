package handlers

import "webscan/internal/models"

type ScanRequest struct {
	TargetURL  string   `json:"target_url" binding:"required"`
	Depth      int      `json:"depth"`
	MaxPages   int      `json:"max_pages"`
	Exclusions []string `json:"exclusions"`
	Mode       string   `json:"mode"`
	Speed      string   `json:"speed"`
}

type ScanResponse struct {
	ScanID string `json:"scan_id"`
}

type StatusResponse struct {
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Elapsed  string  `json:"elapsed"`
}

type ListScansResponse struct {
	Scans []models.ScanRecord `json:"scans"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
