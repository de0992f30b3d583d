package handler

import (
	"time"

	"linkbox/internal/postpolicy"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// PresignRequest represents the upload grant request body.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required" example:"report.pdf"`
	ContentType string `json:"content_type" binding:"required" example:"application/pdf"`
	SizeBytes   *int64 `json:"size_bytes" example:"204800"`
}

// PresignResponse is returned by POST /api/generate-presigned-url.
type PresignResponse struct {
	UploadURL    string                 `json:"upload_url" example:"https://linkbox-dev-bucket.s3.us-east-1.amazonaws.com/"`
	FormFields   map[string]string      `json:"form_fields"`
	Conditions   []postpolicy.Condition `json:"conditions"`
	ExpiresAt    time.Time              `json:"expires_at" example:"2026-10-16T10:00:00Z"`
	FileID       string                 `json:"file_id" example:"aB3xY9"`
	DownloadURL  string                 `json:"download_url" example:"https://linkbox-dev-bucket.s3.amazonaws.com/uploads/aB3xY9-report.pdf?X-Amz-Signature=..."`
	DownloadKind string                 `json:"download_kind" example:"signed"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
