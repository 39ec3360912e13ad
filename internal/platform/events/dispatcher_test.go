package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitForRecords(t *testing.T, d *Dispatcher, n int) []DeliveryRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if recs := d.Records(); len(recs) >= n {
			return recs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d delivery records, have %d", n, len(d.Records()))
	return nil
}

func TestDispatcher_DeliversSignedEvent(t *testing.T) {
	var gotSig, gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		gotBody.Store(body)
		gotSig.Store(r.Header.Get("X-Event-Signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, "billing-secret", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(Event{
		Type:        TypeDischarged,
		TenantID:    "acme",
		AdmissionID: "adm-1",
		PatientID:   "pat-1",
		Payload:     json.RawMessage(`{"total_days":3}`),
	})

	recs := waitForRecords(t, d, 1)
	cancel()
	d.Wait()

	if !recs[0].Success {
		t.Fatalf("delivery failed: %+v", recs[0])
	}
	if recs[0].Attempts != 1 {
		t.Errorf("attempts = %d, want 1", recs[0].Attempts)
	}

	sig, _ := gotSig.Load().(string)
	body, _ := gotBody.Load().([]byte)
	if len(sig) < 8 || sig[:7] != "sha256=" {
		t.Fatalf("unexpected signature header %q", sig)
	}
	if !VerifySignature(body, "billing-secret", sig[7:]) {
		t.Errorf("signature does not verify against payload")
	}
}

func TestDispatcher_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, "s", zerolog.Nop(), WithMaxAttempts(3), WithRetryDelay(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(Event{Type: TypeAdmitted, TenantID: "t", AdmissionID: "a"})

	recs := waitForRecords(t, d, 1)
	cancel()
	d.Wait()

	if recs[0].Success {
		t.Fatal("expected delivery failure")
	}
	if recs[0].Attempts != 3 {
		t.Errorf("attempts = %d, want 3", recs[0].Attempts)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server received %d calls, want 3", got)
	}
}

func TestDispatcher_DisabledWhenNoURL(t *testing.T) {
	d := NewDispatcher("", "s", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(Event{Type: TypeTransferred})

	time.Sleep(50 * time.Millisecond)
	cancel()
	d.Wait()

	if recs := d.Records(); len(recs) != 0 {
		t.Errorf("expected no delivery records, got %d", len(recs))
	}
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"ok":true}`)
	sig := SignPayload(payload, "secret")
	if !VerifySignature(payload, "secret", sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(payload, "wrong", sig) {
		t.Error("signature verified under wrong secret")
	}
	if VerifySignature([]byte("tampered"), "secret", sig) {
		t.Error("signature verified for tampered payload")
	}
}
