// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/strategy/ctxmissing"
	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/config"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName  string
	Enabled      bool
	SamplingRate float64
	DaemonAddr   string
}

// ConfigFrom maps the application tracing section
func ConfigFrom(cfg *config.TracingConfig) Config {
	return Config{
		ServiceName:  cfg.ServiceName,
		Enabled:      cfg.Enabled,
		SamplingRate: cfg.SamplingRate,
		DaemonAddr:   cfg.DaemonAddr,
	}
}

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	entry := l.logger.WithField("component", "xray")
	switch level {
	case xraylog.LogLevelDebug:
		entry.Debug(msg.String())
	case xraylog.LogLevelInfo:
		entry.Info(msg.String())
	case xraylog.LogLevelWarn:
		entry.Warn(msg.String())
	case xraylog.LogLevelError:
		entry.Error(msg.String())
	}
}

// Tracer records X-Ray segments. A nil or disabled Tracer passes everything through untouched.
type Tracer struct {
	name    string
	enabled bool
}

// New configures the X-Ray SDK when tracing is enabled
func New(cfg Config, logger *logrus.Logger) (*Tracer, error) {
	t := &Tracer{name: cfg.ServiceName, enabled: cfg.Enabled}
	if !cfg.Enabled {
		return t, nil
	}

	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes(samplingRules(cfg.SamplingRate))
	if err != nil {
		return nil, fmt.Errorf("failed to build sampling strategy: %w", err)
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})
	if err := xray.Configure(xray.Config{
		DaemonAddr:             cfg.DaemonAddr,
		SamplingStrategy:       strategy,
		ContextMissingStrategy: ctxmissing.NewDefaultLogErrorStrategy(),
	}); err != nil {
		return nil, fmt.Errorf("failed to configure X-Ray: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
		"service_name":  cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return t, nil
}

// Enabled reports whether segments are recorded
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Middleware opens a segment per inbound request
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	if !t.Enabled() {
		return next
	}
	return xray.Handler(xray.NewFixedSegmentNamer(t.name), next)
}

// Trace runs fn inside a new top-level segment, for work that has no
// inbound request such as scheduled jobs.
func (t *Tracer) Trace(ctx context.Context, segmentName string, fn func(context.Context) error) error {
	if !t.Enabled() {
		return fn(ctx)
	}
	ctx, seg := xray.BeginSegment(ctx, segmentName)
	err := fn(ctx)
	seg.Close(err)
	return err
}

// AddAnnotation adds an indexed annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata adds metadata to the current segment.
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}

// AddError adds an error to the current segment.
func AddError(ctx context.Context, err error) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddError(err)
	}
}

// samplingRules builds a local rule document that traces the first request
// each second and rate of the rest.
func samplingRules(rate float64) []byte {
	return []byte(fmt.Sprintf(`{"version": 2, "rules": [], "default": {"fixed_target": 1, "rate": %g}}`, rate))
}
