package handler

import (
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/dto"
	"github.com/noah-isme/bap-api/internal/models"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
	"github.com/noah-isme/bap-api/pkg/response"
)

const multipartContentType = "multipart/form-data"

type recordService interface {
	Create(ctx context.Context, req dto.CreateRecordRequest, files []dto.Attachment) (*dto.CreateRecordResponse, error)
	List(ctx context.Context) ([]models.PublicRecord, error)
	Get(ctx context.Context, id string) (*models.PublicRecord, error)
	Search(ctx context.Context, term string) ([]models.PublicRecord, error)
	Update(ctx context.Context, id string, req dto.UpdateRecordRequest) error
	Delete(ctx context.Context, id string) error
}

// RecordHandler exposes the BAP request endpoints.
type RecordHandler struct {
	service        recordService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewRecordHandler constructs a RecordHandler. maxUploadBytes caps the whole
// multipart body; zero or less disables the cap.
func NewRecordHandler(svc recordService, maxUploadBytes int64, logger *zap.Logger) *RecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler{service: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Create godoc
// @Summary Submit a BAP request
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Param nama formData string true "Full name"
// @Param tanggal_lahir formData string true "Birth date"
// @Param nomor_hp formData string true "Phone number"
// @Param email formData string false "Email"
// @Param paspor formData string true "Passport number"
// @Param tujuan formData string true "Destination"
// @Param lampiran formData file true "Supporting document"
// @Success 201 {object} dto.CreateRecordResponse
// @Failure 400 {object} response.ErrorBody
// @Router /requests [post]
func (h *RecordHandler) Create(c *gin.Context) {
	if !strings.HasPrefix(strings.ToLower(c.GetHeader("Content-Type")), multipartContentType) {
		response.Error(c, appErrors.ErrInvalidContentType)
		return
	}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, appErrors.ErrInvalidInput.Message))
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", zap.Error(err))
		}
	}()

	var req dto.CreateRecordRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, appErrors.ErrInvalidInput.Message))
		return
	}

	files, closeFiles, err := openAttachments(form)
	defer closeFiles()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, appErrors.ErrInvalidInput.Message))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req, files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List godoc
// @Summary List BAP requests
// @Tags Requests
// @Produce json
// @Success 200 {array} models.PublicRecord
// @Router /requests [get]
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Get godoc
// @Summary Get a BAP request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.PublicRecord
// @Failure 404 {object} response.ErrorBody
// @Router /requests/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Search godoc
// @Summary Look up BAP requests by application or passport number
// @Description Exact, case-insensitive match; substrings do not match.
// @Tags Requests
// @Produce json
// @Param query query string true "Application number or passport number"
// @Success 200 {array} models.PublicRecord
// @Router /requests/check [get]
func (h *RecordHandler) Search(c *gin.Context) {
	records, err := h.service.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Update godoc
// @Summary Update status, admin note or schedule
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.UpdateRecordRequest true "Fields to change"
// @Success 200 {object} response.Success
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /requests/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidJSON.Code, appErrors.ErrInvalidJSON.Status, appErrors.ErrInvalidJSON.Message))
		return
	}
	if err := h.service.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Delete godoc
// @Summary Delete a BAP request and its attachment
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Success
// @Failure 404 {object} response.ErrorBody
// @Router /requests/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// openAttachments opens every file part of the form, whatever its field name.
// Field names are visited in sorted order so the result is deterministic.
func openAttachments(form *multipart.Form) ([]dto.Attachment, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []dto.Attachment
	for _, field := range fields {
		for _, header := range form.File[field] {
			f, err := header.Open()
			if err != nil {
				return nil, closeAll, err
			}
			opened = append(opened, f)
			files = append(files, dto.Attachment{Filename: clientFilename(header), Size: header.Size, Content: f})
		}
	}
	return files, closeAll, nil
}

// clientFilename returns the filename exactly as the client sent it.
// FileHeader.Filename has already been reduced to its base name.
func clientFilename(header *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(header.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return header.Filename
}
