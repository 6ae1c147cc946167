package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bap-api/internal/service"
	"github.com/noah-isme/bap-api/pkg/response"
)

const (
	csvContentType = "text/csv; charset=utf-8"
	pdfContentType = "application/pdf"
)

type exportService interface {
	CSV(ctx context.Context) ([]byte, error)
	PDF(ctx context.Context) ([]byte, error)
}

// ExportHandler streams collection exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CSV godoc
// @Summary Export all BAP requests as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {file} file
// @Router /export [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	data, err := h.service.CSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, service.CSVExportFilename, csvContentType, data)
}

// PDF godoc
// @Summary Export all BAP requests as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} file
// @Router /export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	data, err := h.service.PDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, service.PDFExportFilename, pdfContentType, data)
}
