package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbox/internal/service"
)

// TransferHandler handles upload grant, metadata, and download endpoints.
type TransferHandler struct {
	transfers service.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfers service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Presign handles POST /api/generate-presigned-url
// @Summary Request an upload grant
// @Description Issue a presigned POST policy for a browser upload and register the file under a short id
// @Tags files
// @Accept json
// @Produce json
// @Param request body PresignRequest true "File to upload"
// @Success 201 {object} Response{data=PresignResponse} "Upload grant issued"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 500 {object} ErrorResponseBody "Storage service or database failure"
// @Router /generate-presigned-url [post]
func (h *TransferHandler) Presign(c *gin.Context) {
	var input service.RequestUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.transfers.RequestUpload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, PresignResponse{
		UploadURL:    result.Grant.URL,
		FormFields:   result.Grant.Fields,
		Conditions:   result.Grant.Conditions,
		ExpiresAt:    result.Grant.ExpiresAt,
		FileID:       result.FileID,
		DownloadURL:  result.Download.URL,
		DownloadKind: string(result.Download.Kind),
	})
}

// GetMetadata handles GET /api/files/:id
// @Summary Get file metadata
// @Tags files
// @Produce json
// @Param id path string true "Short file ID"
// @Success 200 {object} Response{data=domain.FileObject} "File metadata"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Router /files/{id} [get]
func (h *TransferHandler) GetMetadata(c *gin.Context) {
	record, err := h.transfers.GetMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}

// Download handles GET /api/files/:id/download
// @Summary Download a file
// @Description Redirect to a freshly signed download URL, or return it as JSON with format=json
// @Tags files
// @Produce json
// @Param id path string true "Short file ID"
// @Param format query string false "Set to json to receive the reference instead of a redirect"
// @Success 200 {object} Response{data=domain.DownloadReference} "Download reference"
// @Success 307 "Redirect to the download URL"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Failure 500 {object} ErrorResponseBody "Storage service failure"
// @Router /files/{id}/download [get]
func (h *TransferHandler) Download(c *gin.Context) {
	ref, err := h.transfers.GetDownloadReference(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") == "json" {
		RespondOK(c, ref)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, ref.URL)
}
