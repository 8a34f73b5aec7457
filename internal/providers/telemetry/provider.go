package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/resilience"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Name is the bus address telemetry messages are sent from
const Name = "ServiceTelemetry"

var ErrMalformedResponse = errors.New("malformed hardware response")

// HardwareClient performs a request/response round trip with the device
// drivers. Implementations must honour ctx cancellation.
type HardwareClient interface {
	Execute(ctx context.Context, command string, params map[string]interface{}) ([]byte, error)
}

// Broadcaster sends one message per running actor
type Broadcaster interface {
	Broadcast(build func(target string) message.Message) error
}

// indicatorResponse is the driver's answer to set_indicator
type indicatorResponse struct {
	Indicator string `json:"indicator"`
	On        bool   `json:"on"`
	Status    string `json:"status"`
}

// Provider owns the status bar values, fans telemetry out to applications
// and switches hardware indicators
type Provider struct {
	hw  HardwareClient
	bus Broadcaster

	mu         sync.RWMutex
	snapshot   types.Indicators         // Protected by mu
	indicators map[types.Indicator]bool // Protected by mu
	breakers   map[types.Indicator]*resilience.Breaker

	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewProvider creates a telemetry provider
func NewProvider(hw HardwareClient, b Broadcaster, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		hw:         hw,
		bus:        b,
		indicators: make(map[types.Indicator]bool),
		breakers:   make(map[types.Indicator]*resilience.Breaker),
		logger:     logger.Named("telemetry"),
	}

	for _, ind := range []types.Indicator{types.IndicatorKeypadLight, types.IndicatorTorch, types.IndicatorVibration} {
		p.breakers[ind] = resilience.New(string(ind), resilience.Settings{
			Cooldown: 10 * time.Second,
			OnStateChange: func(name string, from, to resilience.State) {
				p.logger.Warn("indicator breaker changed state",
					zap.String("indicator", name),
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		})
	}
	return p
}

// WithMetrics adds metrics tracking to the provider
func (p *Provider) WithMetrics(metrics *monitoring.Metrics) *Provider {
	p.metrics = metrics
	return p
}

// Indicators returns the current status bar snapshot
func (p *Provider) Indicators() types.Indicators {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// IndicatorOn reports the last confirmed state of a hardware indicator
func (p *Provider) IndicatorOn(indicator types.Indicator) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indicators[indicator]
}

// PublishBattery records a battery reading and notifies applications
func (p *Provider) PublishBattery(level uint8, charging bool) error {
	if level > 100 {
		level = 100
	}
	p.mu.Lock()
	p.snapshot.BatteryLevel = level
	p.snapshot.Charging = charging
	p.mu.Unlock()

	return p.broadcast(func(h message.Header) message.Message {
		return &message.BatteryStatus{Header: h, Level: level, Charging: charging}
	})
}

// PublishSIM records SIM presence and notifies applications
func (p *Provider) PublishSIM(present bool) error {
	p.mu.Lock()
	p.snapshot.SIMPresent = present
	p.mu.Unlock()

	return p.broadcast(func(h message.Header) message.Message {
		return &message.SIMState{Header: h, Present: present}
	})
}

// PublishSignal records signal bars (0..4) and notifies applications
func (p *Provider) PublishSignal(bars int) error {
	if bars < 0 {
		bars = 0
	}
	if bars > 4 {
		bars = 4
	}
	p.mu.Lock()
	p.snapshot.SignalStrength = bars
	p.mu.Unlock()

	return p.broadcast(func(h message.Header) message.Message {
		return &message.SignalStrength{Header: h, Bars: bars}
	})
}

// PublishNetwork records the access technology and notifies applications
func (p *Provider) PublishNetwork(tech types.AccessTechnology) error {
	p.mu.Lock()
	p.snapshot.Network = tech
	p.mu.Unlock()

	return p.broadcast(func(h message.Header) message.Message {
		return &message.NetworkAccess{Header: h, Technology: tech}
	})
}

// PublishMinute notifies applications that the wall clock minute changed
func (p *Provider) PublishMinute(now time.Time) error {
	return p.broadcast(func(h message.Header) message.Message {
		return &message.MinuteTick{Header: h, Time: now}
	})
}

// RunClock publishes a minute tick at every minute boundary until ctx is done
func (p *Provider) RunClock(ctx context.Context) {
	for {
		now := time.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case at := <-timer.C:
			if err := p.PublishMinute(at); err != nil {
				p.logger.Debug("minute tick not delivered everywhere", zap.Error(err))
			}
		}
	}
}

func (p *Provider) broadcast(build func(h message.Header) message.Message) error {
	if p.bus == nil {
		return nil
	}
	return p.bus.Broadcast(func(target string) message.Message {
		return build(message.NewHeader(Name, target))
	})
}

// Toggle switches a hardware indicator and waits for the driver to confirm.
// The caller's ctx bounds the wait. A failed, rejected or unreadable answer
// leaves the recorded indicator state unchanged.
func (p *Provider) Toggle(ctx context.Context, indicator types.Indicator, on bool) error {
	breaker, ok := p.breakers[indicator]
	if !ok {
		return fmt.Errorf("unknown indicator: %s", indicator)
	}
	if p.hw == nil {
		return fmt.Errorf("no hardware client for %s", indicator)
	}

	timer := monitoring.NewTimer(p.metrics, string(indicator))
	resp, err := resilience.Do(ctx, breaker, func(ctx context.Context) (indicatorResponse, error) {
		raw, err := p.hw.Execute(ctx, "set_indicator", map[string]interface{}{
			"indicator": string(indicator),
			"on":        on,
		})
		if err != nil {
			return indicatorResponse{}, err
		}
		return decodeIndicatorResponse(raw, indicator)
	})
	if err != nil {
		timer.Stop(statusOf(err))
		return err
	}
	timer.Stop("ok")

	p.mu.Lock()
	p.indicators[indicator] = resp.On
	p.mu.Unlock()

	p.logger.Debug("indicator switched", zap.String("indicator", string(indicator)), zap.Bool("on", resp.On))
	return nil
}

func decodeIndicatorResponse(raw []byte, indicator types.Indicator) (indicatorResponse, error) {
	var resp indicatorResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return resp, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Indicator != string(indicator) {
		return resp, fmt.Errorf("%w: answer for %q", ErrMalformedResponse, resp.Indicator)
	}
	if resp.Status != "ok" {
		return resp, fmt.Errorf("driver refused %s: %s", indicator, resp.Status)
	}
	return resp, nil
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}
