package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invoice-analytics-backend/internal/extraction"
	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/models"
	"invoice-analytics-backend/internal/services/seeding"
)

type SeedHandler struct {
	runner   *seeding.Runner
	db       *gorm.DB
	dataFile string
	mu       sync.Mutex
	log      zerolog.Logger
}

func NewSeedHandler(runner *seeding.Runner, db *gorm.DB, dataFile string) *SeedHandler {
	return &SeedHandler{
		runner:   runner,
		db:       db,
		dataFile: dataFile,
		log:      logger.WithComponent("seed"),
	}
}

// Run triggers a full reseed. The runner is not re-entrant, so concurrent
// triggers are rejected instead of queued.
func (h *SeedHandler) Run(c *gin.Context) {
	if !h.mu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "seed run already in progress"})
		return
	}
	defer h.mu.Unlock()

	docs, err := extraction.LoadFile(h.dataFile)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "seed data file not found",
			"path":  h.dataFile,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("path", h.dataFile).Msg("failed to load seed data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load seed data"})
		return
	}

	summary, err := h.runner.Run(filepath.Base(h.dataFile), docs)
	if err != nil {
		h.log.Error().Err(err).Msg("seed run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "database seeded successfully",
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
	})
}

// Latest serves the most recent seed run record.
func (h *SeedHandler) Latest(c *gin.Context) {
	var run models.SeedRun
	err := h.db.Order("created_at DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no seed runs recorded"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch seed run"})
		return
	}
	c.JSON(http.StatusOK, run)
}
