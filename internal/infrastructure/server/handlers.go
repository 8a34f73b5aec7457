package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/manager"
	"github.com/mudita/MuditaOS-sub019/internal/providers/settings"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

type handlers struct {
	apps     Apps
	settings Settings
	logger   *zap.Logger
}

// SwitchRequest asks an application to come to the foreground
type SwitchRequest struct {
	Window string `json:"window"`
}

// IndicatorRequest switches an indicator
type IndicatorRequest struct {
	On *bool `json:"on" binding:"required"`
}

// SettingRequest stores a setting value
type SettingRequest struct {
	Value string `json:"value" binding:"required"`
	Scope string `json:"scope"`
}

// Root handles the service banner
func (h *handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "phoned",
	})
}

// Health reports the manager's view of running applications
func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"app_manager": h.apps.Stats(),
	})
}

// ListApps lists all running apps
func (h *handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":  h.apps.List(),
		"stats": h.apps.Stats(),
	})
}

func (h *handlers) GetApp(c *gin.Context) {
	info, ok := h.apps.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not running"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// SwitchApp brings an app to the foreground
func (h *handlers) SwitchApp(c *gin.Context) {
	name := c.Param("name")

	var req SwitchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid switch request format"})
			return
		}
	}

	if err := h.apps.SwitchTo(name, req.Window, nil); err != nil {
		h.fail(c, name, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"app":     name,
		"window":  req.Window,
	})
}

// CloseApp closes an app and its children
func (h *handlers) CloseApp(c *gin.Context) {
	name := c.Param("name")

	if err := h.apps.Close(name); err != nil {
		h.fail(c, name, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"app":     name,
	})
}

// RebuildApp reconstructs every window of an app
func (h *handlers) RebuildApp(c *gin.Context) {
	name := c.Param("name")

	if err := h.apps.Rebuild(name); err != nil {
		h.fail(c, name, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "app": name})
}

// SuspendApp draws the last frame before suspend
func (h *handlers) SuspendApp(c *gin.Context) {
	name := c.Param("name")

	if err := h.apps.Suspend(name); err != nil {
		h.fail(c, name, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "app": name})
}

// ToggleIndicator switches a hardware indicator on behalf of an app
func (h *handlers) ToggleIndicator(c *gin.Context) {
	name := c.Param("name")

	indicator, ok := types.ParseIndicator(c.Param("indicator"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown indicator"})
		return
	}

	var req IndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid indicator request format"})
		return
	}

	err := h.apps.ToggleIndicator(c.Request.Context(), name, indicator, *req.On)
	switch {
	case err == nil:
	case errors.Is(err, manager.ErrUnknownApp), errors.Is(err, manager.ErrUnsupported):
		h.fail(c, name, err)
		return
	default:
		h.logger.Warn("Indicator toggle failed",
			zap.String("app", name),
			zap.String("indicator", string(indicator)),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"app":       name,
		"indicator": indicator,
		"on":        *req.On,
	})
}

func (h *handlers) ListSettings(c *gin.Context) {
	scope, ok := types.ParseScope(c.Query("scope"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown scope"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": h.settings.List(scope)})
}

func (h *handlers) SetSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setting request format"})
		return
	}
	scope, ok := types.ParseScope(req.Scope)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown scope"})
		return
	}

	key := c.Param("key")
	if err := h.settings.Set(key, req.Value, scope); err != nil {
		if errors.Is(err, settings.ErrInvalidValue) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to store setting", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "key": key, "value": req.Value})
}

func (h *handlers) fail(c *gin.Context, app string, err error) {
	switch {
	case errors.Is(err, manager.ErrUnknownApp):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, manager.ErrUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Request to application failed", zap.String("app", app), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
