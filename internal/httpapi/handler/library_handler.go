package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/catalog"
	"mangashelf/internal/httpapi/dto"
	"mangashelf/internal/importer"
	"mangashelf/internal/library"
	"mangashelf/internal/lifecycle"
)

type LibraryHandler struct {
	store      *library.Store
	pipeline   *importer.Pipeline
	controller *lifecycle.Controller
}

func NewLibraryHandler(store *library.Store, pipeline *importer.Pipeline, controller *lifecycle.Controller) *LibraryHandler {
	return &LibraryHandler{
		store:      store,
		pipeline:   pipeline,
		controller: controller,
	}
}

func (h *LibraryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/status", h.Status)
	rg.POST("/", h.Create)
	rg.POST("/import", h.Import)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/:record_id/favorite", h.ToggleFavorite)
	rg.DELETE("/:record_id", h.Delete)
}

// List returns the current snapshot through one of the derived views.
// Query params: genre, favorites=true, sort=popularity|date, order=asc|desc.
func (h *LibraryHandler) List(c *gin.Context) {
	var records []library.Record

	switch {
	case c.Query("favorites") == "true":
		records = h.store.FavoritesOnly()
	case c.Query("genre") != "":
		records = h.store.FilterByGenre(c.Query("genre"))
	case c.Query("sort") == "popularity":
		records = h.store.SortByPopularity(c.Query("order") != "asc")
	case c.Query("sort") == "date":
		records = h.store.SortByDate(c.Query("order") != "asc")
	default:
		records = h.store.Snapshot()
	}

	status, _ := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"status":  status.String(),
		"records": records,
	})
}

// Status reports which of the four listing conditions the store is in.
func (h *LibraryHandler) Status(c *gin.Context) {
	status, err := h.store.State()
	resp := dto.LibraryStatusResponse{
		Status: status.String(),
		Count:  len(h.store.Snapshot()),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Create is the manual-entry path; it funnels through the same store
// operation the import pipeline uses.
func (h *LibraryHandler) Create(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := h.store.Create(ctx, library.Candidate{
		Title:         req.Title,
		Authors:       req.Authors,
		Synopsis:      req.Synopsis,
		CoverImageURL: req.CoverImageURL,
		ReadLink:      req.ReadLink,
		Genres:        req.Genres,
		Popularity:    req.Popularity,
	})
	if err != nil {
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Import runs the catalog import pipeline for one external id.
func (h *LibraryHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	id, err := h.pipeline.Import(ctx, req.ExternalID)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to import manga"})
		case errors.Is(err, catalog.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found in catalog"})
		case errors.Is(err, catalog.ErrNetwork), errors.Is(err, catalog.ErrDecode):
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Refresh re-subscribes the current owner's collection.
func (h *LibraryHandler) Refresh(c *gin.Context) {
	h.controller.Refresh()
	c.JSON(http.StatusAccepted, gin.H{"message": "refreshing"})
}

func (h *LibraryHandler) ToggleFavorite(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.ToggleFavorite(ctx, c.Param("record_id")); err != nil {
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "favorite toggled"})
}

func (h *LibraryHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Delete(ctx, c.Param("record_id")); err != nil {
		h.writeStoreError(c, err)
		return
	}

	// The record disappears from the snapshot when the next push arrives,
	// not immediately.
	c.JSON(http.StatusAccepted, gin.H{"message": "record deleted"})
}

func (h *LibraryHandler) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, library.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
	case errors.Is(err, library.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
