package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
)

// Handler serves a single loaded capture
type Handler struct {
	capture *motor.Capture
	store   motor.FilterStore
	logger  *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(capture *motor.Capture, store motor.FilterStore, logger *slog.Logger) *Handler {
	return &Handler{
		capture: capture,
		store:   store,
		logger:  logger,
	}
}

// CaptureInfo is the document level view of the loaded capture
type CaptureInfo struct {
	File          string    `json:"file"`
	Size          int64     `json:"size"`
	Hash          string    `json:"hash"`
	Version       string    `json:"version"`
	Creator       string    `json:"creator,omitempty"`
	Browser       string    `json:"browser,omitempty"`
	Entries       int       `json:"entries"`
	UniqueURLs    int       `json:"uniqueUrls"`
	UniqueDomains int       `json:"uniqueDomains"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Duration      float64   `json:"durationMs"`
}

// EntriesResponse is a filtered, searched listing of records
type EntriesResponse struct {
	Filter  string          `json:"filter"`
	Search  string          `json:"search,omitempty"`
	Total   int             `json:"total"`
	Count   int             `json:"count"`
	Entries []*model.Record `json:"entries"`
}

// WaterfallResponse is the waterfall layout plus its axis ticks
type WaterfallResponse struct {
	Filter string `json:"filter"`
	motor.WaterfallResult
	Markers []motor.TimeMarker `json:"markers"`
}

// FiltersResponse lists built-in and custom filters in display order
type FiltersResponse struct {
	BuiltIn []model.FilterOption `json:"builtIn"`
	Custom  []model.CustomFilter `json:"custom"`
}

type validateRequest struct {
	Pattern     string            `json:"pattern"`
	PatternType model.PatternType `json:"patternType" binding:"required"`
}

type reorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// HealthCheck returns health status
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCapture describes the loaded capture
func (h *Handler) GetCapture(c *gin.Context) {
	info := CaptureInfo{
		File:          h.capture.FilePath,
		Size:          h.capture.Size,
		Hash:          h.capture.Hash,
		Version:       h.capture.Version,
		Entries:       len(h.capture.Records),
		UniqueURLs:    h.capture.UniqueURLs,
		UniqueDomains: h.capture.UniqueDomains,
		Start:         h.capture.TimeRange.Start,
		End:           h.capture.TimeRange.End,
		Duration:      float64(h.capture.TimeRange.Duration()) / float64(time.Millisecond),
	}
	if h.capture.Creator != nil {
		info.Creator = h.capture.Creator.Name + " " + h.capture.Creator.Version
	}
	if h.capture.Browser != nil {
		info.Browser = h.capture.Browser.Name + " " + h.capture.Browser.Version
	}

	c.JSON(http.StatusOK, info)
}

// ListEntries returns the records passing ?filter= and ?search=
func (h *Handler) ListEntries(c *gin.Context) {
	selection, records := h.selectRecords(c)

	c.JSON(http.StatusOK, EntriesResponse{
		Filter:  selection,
		Search:  c.Query("search"),
		Total:   len(h.capture.Records),
		Count:   len(records),
		Entries: records,
	})
}

// GetWaterfall lays out the records passing ?filter= and ?search=
func (h *Handler) GetWaterfall(c *gin.Context) {
	selection, records := h.selectRecords(c)
	result := motor.ComputeWaterfall(records)

	c.JSON(http.StatusOK, WaterfallResponse{
		Filter:          selection,
		WaterfallResult: result,
		Markers:         motor.ComputeTimeMarkers(result.TotalDuration),
	})
}

// GetSummary aggregates every record of the capture
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, motor.ComputeSummary(h.capture.Records))
}

// ListFilters returns built-in and custom filters
func (h *Handler) ListFilters(c *gin.Context) {
	c.JSON(http.StatusOK, FiltersResponse{
		BuiltIn: model.BuiltInFilterOptions,
		Custom:  h.store.List(),
	})
}

// CreateFilter adds a custom filter
func (h *Handler) CreateFilter(c *gin.Context) {
	var input motor.FilterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := h.store.Add(input)
	if err != nil {
		h.storeError(c, err)
		return
	}

	h.logger.Info("custom filter created", "id", filter.ID, "name", filter.Name)
	c.JSON(http.StatusCreated, filter)
}

// UpdateFilter edits a custom filter
func (h *Handler) UpdateFilter(c *gin.Context) {
	var update motor.FilterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := h.store.Update(c.Param("id"), update)
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, filter)
}

// DeleteFilter removes a custom filter
func (h *Handler) DeleteFilter(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}

	h.logger.Info("custom filter deleted", "id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ReorderFilters moves a custom filter to a new position
func (h *Handler) ReorderFilters(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Reorder(*req.From, *req.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.store.List())
}

// ValidateFilter checks a pattern without saving it
func (h *Handler) ValidateFilter(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, motor.ValidatePattern(req.Pattern, req.PatternType))
}

// GetFilterCounts returns the badge count of every filter
func (h *Handler) GetFilterCounts(c *gin.Context) {
	c.JSON(http.StatusOK, motor.ComputeFilterCounts(h.capture.Records, h.store.List()))
}

// selectRecords resolves ?filter= against the current custom filters and applies it
func (h *Handler) selectRecords(c *gin.Context) (string, []*model.Record) {
	filters := h.store.List()
	selection := motor.ResolveSelection(c.Query("filter"), filters)
	return selection, motor.ApplyFilters(h.capture.Records, selection, filters, c.Query("search"))
}

func (h *Handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, motor.ErrFilterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, motor.ErrInvalidPattern):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("filter store failure", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
