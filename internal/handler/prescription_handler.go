package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rxtract/internal/service"
)

// samplePrescription exercises the pipeline without an upload.
const samplePrescription = "1. Paracetamol 500 mg tablet. Take 1 tablet every 8 hours for 5 days. " +
	"2. Amoxicillin 250 mg capsule. Take 1 capsule three times daily."

// PrescriptionHandler exposes the synchronous analysis endpoints.
type PrescriptionHandler struct {
	extraction *service.ExtractionService
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(extraction *service.ExtractionService) *PrescriptionHandler {
	return &PrescriptionHandler{extraction: extraction}
}

type analyzeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Analyze handles POST /api/v1/prescriptions/analyze. The image comes in
// a multipart form under "file".
func (h *PrescriptionHandler) Analyze(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.extraction.AnalyzeImage(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// AnalyzeText handles POST /api/v1/prescriptions/analyze-text.
func (h *PrescriptionHandler) AnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	result, err := h.extraction.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Compare handles POST /api/v1/prescriptions/compare. It returns the
// per-strategy extraction breakdown for evaluation.
func (h *PrescriptionHandler) Compare(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}
	RespondOK(c, h.extraction.Compare(c.Request.Context(), req.Text))
}

// Sample handles GET /api/v1/prescriptions/sample. It analyzes a built-in
// prescription so integrations can be verified end to end.
func (h *PrescriptionHandler) Sample(c *gin.Context) {
	result, err := h.extraction.AnalyzeText(c.Request.Context(), samplePrescription)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// readUpload pulls the image bytes from the "file" form field. On failure
// it writes the error response and returns false.
func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart field 'file' is required")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not open uploaded file")
		return nil, false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
		return nil, false
	}
	return data, true
}
