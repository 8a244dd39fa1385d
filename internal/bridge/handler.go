// Package bridge exposes the local HTTP surface consumed by the POS
// browser client.
package bridge

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lunapos/print-bridge/internal/dispatch"
	"github.com/lunapos/print-bridge/internal/escpos"
	"github.com/lunapos/print-bridge/internal/model"
	"github.com/lunapos/print-bridge/internal/printers"
)

const ServiceName = "print-bridge"

type Handler struct {
	store   *model.ConfigStore
	version string
}

func NewHandler(store *model.ConfigStore, version string) *Handler {
	return &Handler{store: store, version: version}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authToken string) {
	r.GET("/health", h.Health)

	auth := r.Group("/", AuthRequired(authToken))
	auth.GET("/printers", h.Printers)
	auth.POST("/config", h.UpdateConfig)
	auth.POST("/print", h.Print)
	auth.POST("/print-raw", h.PrintRaw)
	auth.POST("/drawer", h.OpenDrawer)
}

// Health never fails and never mutates configuration.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  h.version,
		"service":  ServiceName,
		"platform": runtime.GOOS,
		"printer":  h.store.Get(),
	})
}

func (h *Handler) Printers(c *gin.Context) {
	list, err := printers.ListLocal(c.Request.Context())
	if err != nil {
		log.Printf("Printer enumeration failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"printers": []printers.Printer{}, "error": err.Error()})
		return
	}

	if c.Query("scan") != "" {
		cfg := h.store.Get()
		port := cfg.NetworkPort
		if port == 0 {
			port = model.DefaultNetworkPort
		}
		list = append(list, printers.ScanNetwork(c.Request.Context(), port)...)
	}

	if list == nil {
		list = []printers.Printer{}
	}
	c.JSON(http.StatusOK, gin.H{"printers": list})
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var update model.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid config body"})
		return
	}
	cfg := h.store.Apply(update)
	log.Printf("Printer configuration updated: %+v", cfg)
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg})
}

func (h *Handler) Print(c *gin.Context) {
	var body struct {
		Receipt *model.Receipt `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid receipt body"})
		return
	}
	if body.Receipt == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "receipt is required"})
		return
	}

	// Snapshot: a /config change during this job must not affect it.
	cfg := h.store.Get()
	if !configured(cfg) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": dispatch.ErrNotConfigured.Error()})
		return
	}

	// A client that stops waiting must not abort the job; only the sink's
	// internal timeouts bound it.
	ctx := context.WithoutCancel(c.Request.Context())

	var logo []byte
	if body.Receipt.LogoURL != "" {
		var err error
		logo, err = escpos.FetchLogo(ctx, body.Receipt.LogoURL, cfg.PaperWidth, body.Receipt.LogoWidth)
		if err != nil {
			// Layout hints are best-effort; print the receipt without it.
			log.Printf("Skipping logo: %v", err)
			logo = nil
		}
	}

	payload, err := escpos.Compile(body.Receipt, cfg.Columns(), logo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := dispatch.Dispatch(ctx, payload, cfg); err != nil {
		h.respondDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Receipt printed", "jobId": uuid.NewString()})
}

func (h *Handler) PrintRaw(c *gin.Context) {
	var body struct {
		Data string `json:"data"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Data == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "data is required"})
		return
	}

	payload, err := base64.StdEncoding.DecodeString(body.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "data must be valid base64"})
		return
	}

	cfg := h.store.Get()
	if !configured(cfg) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": dispatch.ErrNotConfigured.Error()})
		return
	}

	if err := dispatch.Dispatch(context.WithoutCancel(c.Request.Context()), payload, cfg); err != nil {
		h.respondDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Raw data printed", "jobId": uuid.NewString()})
}

// OpenDrawer sends only the drawer kick pulse, nothing else.
func (h *Handler) OpenDrawer(c *gin.Context) {
	cfg := h.store.Get()
	if !configured(cfg) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": dispatch.ErrNotConfigured.Error()})
		return
	}

	if err := dispatch.Dispatch(context.WithoutCancel(c.Request.Context()), escpos.DrawerKick, cfg); err != nil {
		h.respondDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cash drawer opened"})
}

func (h *Handler) respondDispatchError(c *gin.Context, err error) {
	log.Printf("Dispatch failed: %v", err)
	status := http.StatusInternalServerError
	if errors.Is(err, dispatch.ErrNotConfigured) || errors.Is(err, model.ErrInvalidReceipt) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func configured(cfg model.PrinterConfig) bool {
	switch cfg.Type {
	case model.PrinterTypeNetwork:
		return cfg.NetworkIP != ""
	case model.PrinterTypeLocal:
		return cfg.PrinterName != ""
	default:
		return false
	}
}
