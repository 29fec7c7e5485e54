package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/app"
	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/source"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
)

// RunHandler handles batch-run HTTP requests
type RunHandler struct {
	service *app.RunService
	repo    domain.RunRepository
	logger  *zap.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *app.RunService, repo domain.RunRepository, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

// CreateRunRequest represents a JSON request to start a batch run
type CreateRunRequest struct {
	URLs         []string `json:"urls"`
	Text         string   `json:"text"`
	DestDir      string   `json:"dest_dir"`
	SkipExisting *bool    `json:"skip_existing"`
	RetryCount   *int     `json:"retry_count"`
	RetryDelay   *float64 `json:"retry_delay_seconds"`
	APIKey       string   `json:"api_key"`
}

// CreateRun handles POST /api/v1/runs. The body is either JSON or
// multipart form data carrying the uploaded URL list file. The batch
// executes synchronously; the response carries the finished run including
// its rendered report.
func (h *RunHandler) CreateRun(c *gin.Context) {
	runReq, err := h.parseRunRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.service.Execute(c.Request.Context(), runReq)
	if err != nil {
		if errors.Is(err, domain.ErrNoInput) || errors.Is(err, domain.ErrNoDestination) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to execute run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, run)
}

// parseRunRequest builds the service request from either body format
func (h *RunHandler) parseRunRequest(c *gin.Context) (app.RunRequest, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.parseMultipart(c)
	}

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return app.RunRequest{}, err
	}

	text := req.Text
	if len(req.URLs) > 0 {
		joined := strings.Join(req.URLs, "\n")
		if text != "" {
			text = joined + "\n" + text
		} else {
			text = joined
		}
	}

	runReq := app.RunRequest{
		File:         source.None(),
		Text:         source.FromString(text),
		DestDir:      req.DestDir,
		SkipExisting: req.SkipExisting,
		RetryCount:   req.RetryCount,
		Credential:   req.APIKey,
	}
	if req.RetryDelay != nil {
		d := time.Duration(*req.RetryDelay * float64(time.Second))
		runReq.RetryDelay = &d
	}
	return runReq, nil
}

// parseMultipart handles the uploaded-list-file form variant
func (h *RunHandler) parseMultipart(c *gin.Context) (app.RunRequest, error) {
	runReq := app.RunRequest{
		File:    source.None(),
		Text:    source.FromString(c.PostForm("text")),
		DestDir: c.PostForm("dest_dir"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return app.RunRequest{}, err
		}
		defer f.Close()
		// the batch runs synchronously inside this handler, so the open
		// upload stays valid for the whole run
		runReq.File = source.FromReader(f)
	}

	if v := c.PostForm("skip_existing"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return app.RunRequest{}, err
		}
		runReq.SkipExisting = &skip
	}
	if v := c.PostForm("retry_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return app.RunRequest{}, err
		}
		runReq.RetryCount = &n
	}
	if v := c.PostForm("retry_delay_seconds"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return app.RunRequest{}, err
		}
		d := time.Duration(secs * float64(time.Second))
		runReq.RetryDelay = &d
	}
	runReq.Credential = c.PostForm("api_key")

	return runReq, nil
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunReport handles GET /api/v1/runs/:id/report, returning the rendered
// report as plain text.
func (h *RunHandler) GetRunReport(c *gin.Context) {
	run, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.String(http.StatusOK, run.Report)
}

// ListRuns handles GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	runs, err := h.repo.FindAll(filters)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetStats handles GET /api/v1/runs/stats
func (h *RunHandler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteRun handles DELETE /api/v1/runs/:id
func (h *RunHandler) DeleteRun(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		h.logger.Error("Failed to delete run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "run deleted"})
}

// NormalizeRequest represents a request to preview URL normalization
type NormalizeRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// NormalizeURLs handles POST /api/v1/normalize: a dry-run preview of the
// vendor URL rewriting, no network activity.
func (h *RunHandler) NormalizeURLs(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]gin.H, len(req.URLs))
	for i, raw := range req.URLs {
		normalized, rewritten := urlnorm.Normalize(raw)
		results[i] = gin.H{
			"url":        raw,
			"normalized": normalized,
			"rewritten":  rewritten,
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
