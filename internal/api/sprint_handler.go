package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ajharbinger/habit-sprint-api/internal/errors"
	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/services"
)

// SprintHandler handles sprint CRUD and daily effort listing
type SprintHandler struct {
	sprintService services.SprintService
}

// NewSprintHandler creates a new sprint handler with service injection
func NewSprintHandler(sprintService services.SprintService) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
	}
}

// CreateSprint handles POST /api/sprints
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	var form models.SprintForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint format: " + err.Error()})
		return
	}

	result, err := h.sprintService.Create(&form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sprint_id": result.SprintID,
		"habit_ids": result.HabitIDs,
	})
}

// GetSprint handles GET /api/sprints/:sprint_id
func (h *SprintHandler) GetSprint(c *gin.Context) {
	sprintID, ok := parseSprintID(c)
	if !ok {
		return
	}

	detail, err := h.sprintService.Get(sprintID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetDailyEfforts handles GET /api/sprints/:sprint_id/efforts/:date
func (h *SprintHandler) GetDailyEfforts(c *gin.Context) {
	sprintID, ok := parseSprintID(c)
	if !ok {
		return
	}

	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + err.Error()})
		return
	}

	efforts, err := h.sprintService.DailyEfforts(sprintID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"efforts": efforts})
}

// DeleteSprint handles DELETE /api/sprints/:sprint_id
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	sprintID, ok := parseSprintID(c)
	if !ok {
		return
	}

	if err := h.sprintService.Delete(sprintID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sprint deleted successfully"})
}

func parseSprintID(c *gin.Context) (int64, bool) {
	sprintID, err := strconv.ParseInt(c.Param("sprint_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sprint id"})
		return 0, false
	}
	return sprintID, true
}

// respondError maps service errors onto HTTP statuses: missing records
// become 404, bad input 400, everything else a 500 carrying the
// underlying message. Partial successes are never reported.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
			return
		case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
