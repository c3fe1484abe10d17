package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/report"
	"github.com/tyt2025/shopifytyt/internal/repository"
)

// HandleGetRun handles GET /v1/publish/runs/:id
func HandleGetRun(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID, events, ok := loadRunEvents(c, repos, logger)
		if !ok {
			return
		}

		published, failed := 0, 0
		for _, e := range events {
			if e.Status == domain.OutcomeStatusPublished {
				published++
			} else {
				failed++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"run_id":    runID.String(),
			"published": published,
			"failed":    failed,
			"events":    events,
		})
	}
}

// HandleGetRunWorkbook handles GET /v1/publish/runs/:id/report.xlsx
func HandleGetRunWorkbook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID, events, ok := loadRunEvents(c, repos, logger)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := report.WriteRunWorkbook(&buf, events); err != nil {
			logger.Error("Failed to build run workbook", zap.String("run_id", runID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="publish-run-%s.xlsx"`, runID.String()))
		c.Data(http.StatusOK, report.ContentType, buf.Bytes())
	}
}

func loadRunEvents(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) (uuid.UUID, []*domain.PublishEvent, bool) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return uuid.Nil, nil, false
	}

	events, err := repos.PublishEvent.ListByRunID(c.Request.Context(), runID)
	if err != nil {
		logger.Error("Failed to list publish events", zap.String("run_id", runID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return uuid.Nil, nil, false
	}
	if len(events) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return uuid.Nil, nil, false
	}
	return runID, events, true
}
