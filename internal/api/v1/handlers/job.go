package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "video2quiz/internal/api/errors"
	"video2quiz/internal/api/middleware"
	"video2quiz/internal/api/v1/dto"
	"video2quiz/internal/api/v1/services"
	"video2quiz/internal/app/store"
)

// JobHandler handles job intake and status polling.
type JobHandler struct {
	intakeService services.IntakeService
	statusService services.StatusService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(intakeService services.IntakeService, statusService services.StatusService) *JobHandler {
	return &JobHandler{
		intakeService: intakeService,
		statusService: statusService,
	}
}

// Upload accepts a multipart media upload and starts the pipeline.
// @Summary Upload a media file
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Media file"
// @Success 200 {object} dto.UploadJobResponse
// @Router /api/v1/jobs/upload [post]
func (h *JobHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("video")
	if err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	resp, err := h.intakeService.UploadAndStart(c.Request.Context(), file, header)
	if err != nil {
		middleware.HandleError(c, mapIntakeError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create starts a job for content already in storage.
// @Summary Create a job from a stored file
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Job creation request"
// @Success 200 {object} dto.UploadJobResponse
// @Router /api/v1/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.intakeService.CreateAndStart(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, mapIntakeError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStatus returns the current job snapshot for polling clients.
// @Summary Get job status
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobStatusResponse
// @Router /api/v1/jobs/{id}/status [get]
func (h *JobHandler) GetStatus(c *gin.Context) {
	jobID := c.Param("id")

	snapshot, err := h.statusService.GetSnapshot(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.HandleError(c, apierrors.NewNotFoundError("Job"))
			return
		}
		middleware.HandleError(c, apierrors.NewInternalError("Failed to get status"))
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func mapIntakeError(err error) error {
	if errors.Is(err, services.ErrBusy) {
		return apierrors.NewServiceUnavailableError("Processing capacity exceeded, try again later")
	}
	return apierrors.NewInternalError(err.Error())
}
