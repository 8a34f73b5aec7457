package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// SimulatedHardware answers indicator requests the way the device drivers
// do, after Latency
type SimulatedHardware struct {
	Latency time.Duration
}

// Execute implements HardwareClient
func (s *SimulatedHardware) Execute(ctx context.Context, command string, params map[string]interface{}) ([]byte, error) {
	if command != "set_indicator" {
		return nil, fmt.Errorf("unsupported command: %s", command)
	}

	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	indicator, _ := params["indicator"].(string)
	on, _ := params["on"].(bool)
	return sonic.Marshal(indicatorResponse{Indicator: indicator, On: on, Status: "ok"})
}
