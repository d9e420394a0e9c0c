package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"partybus/internal/domain"
	"partybus/internal/service"
)

// waitForTerminal polls the store until the request leaves pending or the
// deadline passes.
func (f *stopFixture) waitForTerminal(t *testing.T, stopID string, deadline time.Duration) *domain.StopRequest {
	t.Helper()

	timeout := time.After(deadline)
	for {
		req, err := f.stopRepo.GetByID(context.Background(), stopID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if req.Terminal() {
			return req
		}

		select {
		case <-timeout:
			t.Fatalf("stop request %s still pending after %v", stopID, deadline)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopRequest_AutoDeclinedWhenWindowElapses(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.ResponseWindow = 30 * time.Millisecond
	f := newStopFixture(t, cfg)

	stop := f.createStop(t, 20)

	final := f.waitForTerminal(t, stop.ID, 2*time.Second)

	if final.Status != domain.StopStatusDenied {
		t.Fatalf("expected denied status, got %s", final.Status)
	}
	if final.DenyReason != domain.DenyReasonAutoDeclined {
		t.Errorf("expected reason %q, got %q", domain.DenyReasonAutoDeclined, final.DenyReason)
	}

	// The timeout counts as a (non-approved) decision for the operator.
	approved, total, err := f.statsStore.GetStopDecisionCounts(context.Background(), f.bus.OperatorID)
	if err != nil {
		t.Fatalf("GetStopDecisionCounts failed: %v", err)
	}
	if approved != 0 || total != 1 {
		t.Errorf("expected counters (0, 1), got (%d, %d)", approved, total)
	}
}

func TestStopRequest_DecisionCancelsAutoDecline(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.ResponseWindow = 50 * time.Millisecond
	f := newStopFixture(t, cfg)

	stop := f.createStop(t, 20)

	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if decided.Status != domain.StopStatusApproved {
		t.Fatalf("expected approved status, got %s", decided.Status)
	}

	// Wait out the window; the approval must stand.
	time.Sleep(150 * time.Millisecond)

	final, err := f.stopRepo.GetByID(context.Background(), stop.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if final.Status != domain.StopStatusApproved {
		t.Errorf("auto-decline overwrote a driver approval: %s", final.Status)
	}

	approved, total, err := f.statsStore.GetStopDecisionCounts(context.Background(), f.bus.OperatorID)
	if err != nil {
		t.Fatalf("GetStopDecisionCounts failed: %v", err)
	}
	if approved != 1 || total != 1 {
		t.Errorf("expected counters (1, 1), got (%d, %d)", approved, total)
	}
}

func TestStopRequest_LateDecisionLosesToTimeout(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.ResponseWindow = 20 * time.Millisecond
	f := newStopFixture(t, cfg)

	stop := f.createStop(t, 20)

	f.waitForTerminal(t, stop.ID, 2*time.Second)

	_, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	})
	if !errors.Is(err, service.ErrStopAlreadyDecided) {
		t.Errorf("expected ErrStopAlreadyDecided after timeout, got %v", err)
	}

	booking := f.bookingRepo.GetBooking(f.booking.ID)
	if booking.ApprovedStopsTotal != 0 {
		t.Errorf("timed-out stop must not change booking total, got %.2f", booking.ApprovedStopsTotal)
	}
}

func TestStopRequest_NewRequestAllowedAfterTimeout(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.ResponseWindow = 20 * time.Millisecond
	f := newStopFixture(t, cfg)

	stop := f.createStop(t, 20)
	f.waitForTerminal(t, stop.ID, 2*time.Second)

	f.createStop(t, 10)
}
