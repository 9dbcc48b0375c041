package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/habit-sprint-api/internal/models"
	"github.com/ajharbinger/habit-sprint-api/internal/services"
)

// EffortHandler handles effort logging
type EffortHandler struct {
	effortService services.EffortService
}

// NewEffortHandler creates a new effort handler with service injection
func NewEffortHandler(effortService services.EffortService) *EffortHandler {
	return &EffortHandler{
		effortService: effortService,
	}
}

// LogEffort handles POST /api/efforts. The response shape differs by
// outcome: a fresh log returns its new identity, an overwrite returns a
// confirmation message.
func (h *EffortHandler) LogEffort(c *gin.Context) {
	var form models.EffortForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid effort format: " + err.Error()})
		return
	}

	result, err := h.effortService.Upsert(&form)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Inserted {
		c.JSON(http.StatusOK, gin.H{"effort_id": result.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Effort updated successfully"})
}
