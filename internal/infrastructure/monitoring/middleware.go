package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware counting debug server requests
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordDebugRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
	}
}

// Timer measures a hardware indicator round trip
type Timer struct {
	start     time.Time
	metrics   *Metrics
	indicator string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, indicator string) *Timer {
	return &Timer{
		start:     time.Now(),
		metrics:   metrics,
		indicator: indicator,
	}
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(status string) {
	t.metrics.RecordIndicatorCall(t.indicator, status, time.Since(t.start))
}
