package display

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

// Frame is one line of sink output
type Frame struct {
	ID       string              `json:"id"`
	App      string              `json:"app"`
	Window   string              `json:"window"`
	Mode     string              `json:"mode"`
	Tag      string              `json:"tag"`
	Time     time.Time           `json:"time"`
	Commands []types.DrawCommand `json:"commands"`
}

// Sink writes draw requests as JSON lines. Fast refreshes beyond the frame
// budget are dropped, since the panel only keeps the latest image; deep
// refreshes and frames tagged for suspend or shutdown are always written.
type Sink struct {
	mu      sync.Mutex
	w       io.Writer
	limiter *rate.Limiter
	last    *Frame

	logger  *zap.Logger
	metrics *monitoring.Metrics
	clock   func() time.Time
}

// NewSink creates a sink allowing fps frames per second with the given burst
func NewSink(w io.Writer, fps float64, burst int, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &Sink{
		w:       w,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("display"),
		clock:   time.Now,
	}
}

// WithMetrics adds metrics tracking to the sink
func (s *Sink) WithMetrics(metrics *monitoring.Metrics) *Sink {
	s.metrics = metrics
	return s
}

// Draw implements the application renderer contract
func (s *Sink) Draw(d *message.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	forced := d.Mode == types.RefreshDeep || d.Tag != types.DrawNormal
	if !s.limiter.AllowN(now, 1) && !forced {
		s.metrics.RecordRenderSkipped(d.Sender, "frame_budget")
		s.logger.Debug("frame dropped", zap.String("app", d.Sender), zap.String("window", d.Window))
		return nil
	}

	frame := Frame{
		ID:       d.ID.String(),
		App:      d.Sender,
		Window:   d.Window,
		Mode:     d.Mode.String(),
		Tag:      d.Tag.String(),
		Time:     now,
		Commands: d.Commands,
	}

	data, err := sonic.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	data = append(data, '\n')

	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	s.last = &frame
	s.metrics.RecordFrame(frame.Tag)
	return nil
}

// Last returns the most recently written frame
func (s *Sink) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return Frame{}, false
	}
	return *s.last, true
}
