package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rxtract/internal/export"
	"rxtract/internal/service"
)

// JobHandler exposes the asynchronous analysis endpoints.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Submit handles POST /api/v1/jobs. The image is accepted immediately and
// processed in the background.
func (h *JobHandler) Submit(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}

	job, err := h.jobs.SubmitImage(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondAccepted(c, job)
}

// Get handles GET /api/v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid job id")
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, job)
}

// Export handles GET /api/v1/jobs/:id/export?format=csv|xlsx. Only
// completed jobs can be exported.
func (h *JobHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid job id")
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if job.Result == nil || job.Result.Record == nil {
		RespondError(c, http.StatusConflict, "JOB_NOT_COMPLETED", "job has no result to export")
		return
	}

	format := c.DefaultQuery("format", "csv")
	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, job.Result.Record); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="prescription-%s.csv"`, id))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := export.WriteXLSX(&buf, job.Result); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="prescription-%s.xlsx"`, id))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be csv or xlsx")
	}
}
