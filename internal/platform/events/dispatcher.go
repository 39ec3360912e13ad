// Package events delivers admission lifecycle events to the billing system.
// Delivery is asynchronous with HMAC-SHA256 signing and bounded retry; a
// failed event is logged and dropped, never blocks the clinical workflow.
package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TypeAdmitted    = "admission.admitted"
	TypeTransferred = "admission.transferred"
	TypeDischarged  = "admission.discharged"
)

// Event is the envelope posted to the billing endpoint.
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	TenantID    string          `json:"tenant_id"`
	AdmissionID string          `json:"admission_id"`
	PatientID   string          `json:"patient_id"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   time.Time       `json:"timestamp"`
}

// DeliveryRecord captures the outcome of the final attempt for one event.
type DeliveryRecord struct {
	EventID    string        `json:"event_id"`
	EventType  string        `json:"event_type"`
	StatusCode int           `json:"status_code"`
	Attempts   int           `json:"attempts"`
	Duration   time.Duration `json:"duration_ns"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// SignPayload computes the hex-encoded HMAC-SHA256 of payload under secret.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the HMAC of payload.
func VerifySignature(payload []byte, secret, signature string) bool {
	expected := SignPayload(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient overrides the default HTTP client used for deliveries.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = c }
}

// WithMaxAttempts sets the total number of delivery attempts per event.
func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) { d.maxAttempts = n }
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(d *Dispatcher) { d.retryDelay = delay }
}

// Dispatcher queues events and delivers them from a single worker goroutine.
type Dispatcher struct {
	url    string
	secret string
	logger zerolog.Logger

	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration

	queue chan Event
	done  chan struct{}

	mu      sync.RWMutex
	records []DeliveryRecord
}

// NewDispatcher creates a Dispatcher. An empty url disables delivery; events
// are accepted and discarded so callers need no conditional wiring.
func NewDispatcher(url, secret string, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		url:         url,
		secret:      secret,
		logger:      logger.With().Str("component", "events").Logger(),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 3,
		retryDelay:  2 * time.Second,
		queue:       make(chan Event, 256),
		done:        make(chan struct{}),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Start launches the delivery worker. The worker exits once ctx is cancelled
// and the queue has drained; Wait blocks until then.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for {
			select {
			case ev := <-d.queue:
				d.deliver(ev)
			case <-ctx.Done():
				// Drain what is already queued before exiting.
				for {
					select {
					case ev := <-d.queue:
						d.deliver(ev)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the worker has exited.
func (d *Dispatcher) Wait() {
	<-d.done
}

// Publish enqueues an event for delivery. It never blocks; when the queue is
// full the event is dropped and logged.
func (d *Dispatcher) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn().Str("event_id", ev.ID).Str("type", ev.Type).Msg("event queue full, dropping event")
	}
}

// Records returns a copy of the delivery log, newest last.
func (d *Dispatcher) Records() []DeliveryRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DeliveryRecord, len(d.records))
	copy(out, d.records)
	return out
}

func (d *Dispatcher) deliver(ev Event) {
	if d.url == "" {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		d.logger.Error().Err(err).Str("event_id", ev.ID).Msg("marshal event failed")
		return
	}
	sig := SignPayload(payload, d.secret)

	rec := DeliveryRecord{
		EventID:   ev.ID,
		EventType: ev.Type,
		CreatedAt: time.Now().UTC(),
	}
	start := time.Now()

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		rec.Attempts = attempt
		status, err := d.post(payload, sig, ev)
		rec.StatusCode = status
		if err == nil && status >= 200 && status < 300 {
			rec.Success = true
			rec.Error = ""
			break
		}
		if err != nil {
			rec.Error = err.Error()
		} else {
			rec.Error = fmt.Sprintf("non-2xx response: %d", status)
		}
		if attempt < d.maxAttempts {
			time.Sleep(d.retryDelay)
		}
	}
	rec.Duration = time.Since(start)

	d.mu.Lock()
	d.records = append(d.records, rec)
	d.mu.Unlock()

	if rec.Success {
		d.logger.Info().Str("event_id", ev.ID).Str("type", ev.Type).Int("attempts", rec.Attempts).Msg("event delivered")
	} else {
		d.logger.Error().Str("event_id", ev.ID).Str("type", ev.Type).Int("attempts", rec.Attempts).Str("error", rec.Error).Msg("event delivery failed")
	}
}

func (d *Dispatcher) post(payload []byte, sig string, ev Event) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Signature", "sha256="+sig)
	req.Header.Set("X-Event-ID", ev.ID)
	req.Header.Set("X-Event-Timestamp", ev.Timestamp.Format(time.RFC3339))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, nil
}
