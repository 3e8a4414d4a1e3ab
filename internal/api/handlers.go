package api

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aptscope/internal/database"
	"aptscope/internal/pipeline"
)

type Handler struct {
	db       *database.Database
	pipeline *pipeline.Pipeline
	logger   *logrus.Logger
}

// AnalysisFilter holds the query parameters of the analyses listing.
type AnalysisFilter struct {
	Region    string `form:"region"`
	Status    string `form:"status"`
	MinProfit int64  `form:"minProfit"`
}

func NewHandler(db *database.Database, p *pipeline.Pipeline, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:       db,
		pipeline: p,
		logger:   logger,
	}
}

func (h *Handler) GetAnalyses(c *gin.Context) {
	var filter AnalysisFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Error("Failed to parse analysis filter")
	}

	analyses, err := h.db.GetAnalyses(filter.Region, filter.Status, filter.MinProfit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analyses"})
		return
	}

	c.JSON(http.StatusOK, analyses)
}

func (h *Handler) GetTopAnalyses(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	analyses, err := h.db.GetTopAnalyses(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get top analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get top analyses"})
		return
	}

	c.JSON(http.StatusOK, analyses)
}

func (h *Handler) GetRegions(c *gin.Context) {
	regions, err := h.db.GetRegions()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get regions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get regions"})
		return
	}

	c.JSON(http.StatusOK, regions)
}

// Refresh triggers a pipeline run in the background.
func (h *Handler) Refresh(c *gin.Context) {
	go func() {
		if err := h.pipeline.Run(context.Background()); err != nil {
			h.logger.WithError(err).Error("Manual pipeline run failed")
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"status": "Pipeline run started",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
