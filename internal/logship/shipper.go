package logship

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mvphrm/internal/queue"
)

// Shipper posts log entries to the sink endpoint.
type Shipper struct {
	SinkURL string
	HTTP    *http.Client
	log     *zap.Logger
}

// NewShipper creates a shipper for sinkURL.
func NewShipper(sinkURL string, logger *zap.Logger) *Shipper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shipper{
		SinkURL: sinkURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		log:     logger.Named("logship"),
	}
}

// Send posts one JSON entry body to the sink.
func (s *Shipper) Send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SinkURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("log sink request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("log sink error %s", resp.Status)
	}
	return nil
}

// Run drains q until ctx ends. Send failures are not retried.
func (s *Shipper) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	s.log.Info("log shipper started", zap.String("sink", s.SinkURL))
	for msg := range messages {
		if msg.Type != MessageType {
			continue
		}
		if err := s.Send(ctx, msg.Body); err != nil {
			s.log.Debug("log entry dropped", zap.Error(err))
		}
	}
	s.log.Info("log shipper stopped")
	return nil
}
