package realtime

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Publisher is the part of *nats.Conn the reporter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnectPublisher connects to NATS for progress publishing.
// Best-effort: on failure it logs and returns nil, which makes every reporter a no-op.
func ConnectPublisher(natsURL string, logger zerolog.Logger) *nats.Conn {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		logger.Warn().Err(err).Str("url", natsURL).Msg("NATS connection failed, progress reporting disabled")
		return nil
	}
	logger.Info().Str("url", natsURL).Msg("NATS connected for progress reporting")
	return nc
}

// ProgressReporter publishes the progress of one run. It never fails the run.
type ProgressReporter struct {
	pub     Publisher
	subject string
	noop    bool
	logger  zerolog.Logger
}

func NewProgressReporter(pub Publisher, tenantID, runID string, logger zerolog.Logger) *ProgressReporter {
	subject := ProgressSubject(tenantID, runID)
	return &ProgressReporter{
		pub:     pub,
		subject: subject,
		noop:    isNilPublisher(pub),
		logger:  logger.With().Str("subject", subject).Logger(),
	}
}

func (r *ProgressReporter) Subject() string {
	return r.subject
}

// Report publishes v as JSON.
func (r *ProgressReporter) Report(v any) {
	if r.noop {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn().Err(err).Msg("progress marshal error")
		return
	}
	if err := r.pub.Publish(r.subject, data); err != nil {
		r.logger.Warn().Err(err).Msg("progress publish error")
	}
}

func isNilPublisher(pub Publisher) bool {
	if pub == nil {
		return true
	}
	nc, ok := pub.(*nats.Conn)
	return ok && nc == nil
}
