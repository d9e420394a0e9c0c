package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"partybus/internal/domain"
	"partybus/internal/repository"
	"partybus/internal/repository/memory"
	"partybus/internal/service"
)

// stopFixture wires a StopRequestService against the in-memory stop store
// and mock repositories, with one confirmed booking ready to use.
type stopFixture struct {
	service     *service.StopRequestService
	stopRepo    *memory.StopRequestRepository
	bookingRepo *MockBookingRepository
	busRepo     *MockBusRepository
	estimator   *MockEstimator
	lockStore   *MockLockStore
	statsStore  *MockStatsStore

	booking *domain.Booking
	bus     *domain.Bus
}

func newStopFixture(t *testing.T, cfg service.StopWorkflowConfig) *stopFixture {
	t.Helper()

	f := &stopFixture{
		stopRepo:    memory.NewStopRequestRepository(),
		bookingRepo: NewMockBookingRepository(),
		busRepo:     NewMockBusRepository(),
		estimator:   &MockEstimator{DetourMinutes: 10},
		lockStore:   NewMockLockStore(),
		statsStore:  NewMockStatsStore(),
	}

	f.bus = &domain.Bus{
		ID:           "bus-1",
		OperatorID:   "operator-1",
		Name:         "Neon Nights",
		Capacity:     20,
		HourlyRate:   120.0,
		MinimumHours: 4,
		IsActive:     true,
	}
	f.busRepo.AddBus(f.bus)

	f.booking = &domain.Booking{
		ID:             "booking-1",
		CustomerID:     "customer-1",
		BusID:          f.bus.ID,
		OperatorID:     f.bus.OperatorID,
		StartsAt:       time.Now().Add(-time.Hour),
		Hours:          5,
		PickupLocation: "100 Main St",
		Status:         domain.BookingStatusConfirmed,
	}
	f.bookingRepo.AddBooking(f.booking)

	f.service = service.NewStopRequestService(
		f.stopRepo, f.bookingRepo, f.busRepo,
		f.estimator, f.lockStore, f.statsStore, nil, cfg,
	)
	t.Cleanup(f.service.Close)

	return f
}

func (f *stopFixture) createStop(t *testing.T, duration int) *domain.StopRequest {
	t.Helper()
	stop, err := f.service.CreateStopRequest(context.Background(), service.CreateStopRequestRequest{
		BookingID:         f.booking.ID,
		StopAddress:       "7 Liquor Ln",
		EstimatedDuration: duration,
	})
	if err != nil {
		t.Fatalf("CreateStopRequest failed: %v", err)
	}
	return stop
}

func TestStopRequest_ValidatesInput(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	testCases := []struct {
		name    string
		req     service.CreateStopRequestRequest
		wantErr error
	}{
		{
			"empty booking id",
			service.CreateStopRequestRequest{StopAddress: "7 Liquor Ln", EstimatedDuration: 15},
			service.ErrInvalidBookingID,
		},
		{
			"blank address",
			service.CreateStopRequestRequest{BookingID: "booking-1", StopAddress: "   ", EstimatedDuration: 15},
			service.ErrEmptyStopAddress,
		},
		{
			"zero duration",
			service.CreateStopRequestRequest{BookingID: "booking-1", StopAddress: "7 Liquor Ln"},
			service.ErrInvalidStopDuration,
		},
		{
			"duration over cap",
			service.CreateStopRequestRequest{BookingID: "booking-1", StopAddress: "7 Liquor Ln", EstimatedDuration: 61},
			service.ErrInvalidStopDuration,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateStopRequest(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStopRequest_UnknownBooking(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	_, err := f.service.CreateStopRequest(context.Background(), service.CreateStopRequestRequest{
		BookingID:         "no-such-booking",
		StopAddress:       "7 Liquor Ln",
		EstimatedDuration: 15,
	})

	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStopRequest_QuotesFromEstimator(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())
	f.estimator.DetourMinutes = 10

	// 10 min detour + 20 min stop = 30 min at $120/hr, no premium.
	stop := f.createStop(t, 20)

	if stop.DetourMinutes != 10 {
		t.Errorf("expected detour of 10 minutes, got %d", stop.DetourMinutes)
	}
	if stop.AdditionalCost != 60.0 {
		t.Errorf("expected quote of 60.00, got %.2f", stop.AdditionalCost)
	}
	if stop.Status != domain.StopStatusPending {
		t.Errorf("expected pending status, got %s", stop.Status)
	}
}

func TestStopRequest_EstimatorFailureFallsBack(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.DefaultDetourMinutes = 10
	f := newStopFixture(t, cfg)
	f.estimator.EstimateError = errors.New("routing backend down")

	stop := f.createStop(t, 20)

	if got := f.estimator.CallCount; got != 2 {
		t.Errorf("expected one retry (2 calls), got %d calls", got)
	}
	if stop.DetourMinutes != 10 {
		t.Errorf("expected default detour of 10 minutes, got %d", stop.DetourMinutes)
	}
}

func TestStopRequest_SecondPendingRejected(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	first := f.createStop(t, 15)

	_, err := f.service.CreateStopRequest(context.Background(), service.CreateStopRequestRequest{
		BookingID:         f.booking.ID,
		StopAddress:       "22 Second St",
		EstimatedDuration: 10,
	})
	if !errors.Is(err, service.ErrPendingStopExists) {
		t.Fatalf("expected ErrPendingStopExists, got %v", err)
	}

	// Once the first request is decided, a new one is allowed.
	if _, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: first.ID,
		Action: service.DecisionDeny,
		Reason: domain.DenyReasonTooFar,
	}); err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	f.createStop(t, 10)
}

func TestStopRequest_CreationLockHeldElsewhere(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())
	f.lockStore.DenyAcquire = true

	_, err := f.service.CreateStopRequest(context.Background(), service.CreateStopRequestRequest{
		BookingID:         f.booking.ID,
		StopAddress:       "7 Liquor Ln",
		EstimatedDuration: 15,
	})

	if !errors.Is(err, service.ErrPendingStopExists) {
		t.Errorf("expected ErrPendingStopExists while lock is held, got %v", err)
	}
}

func TestStopRequest_ApproveCommitsQuote(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if decided.Status != domain.StopStatusApproved {
		t.Errorf("expected approved status, got %s", decided.Status)
	}
	if decided.DecidedAt.IsZero() {
		t.Error("expected DecidedAt to be set")
	}

	booking := f.bookingRepo.GetBooking(f.booking.ID)
	if booking.ApprovedStopsTotal != stop.AdditionalCost {
		t.Errorf("expected booking total %.2f, got %.2f", stop.AdditionalCost, booking.ApprovedStopsTotal)
	}

	approved, total, err := f.statsStore.GetStopDecisionCounts(context.Background(), f.bus.OperatorID)
	if err != nil {
		t.Fatalf("GetStopDecisionCounts failed: %v", err)
	}
	if approved != 1 || total != 1 {
		t.Errorf("expected counters (1, 1), got (%d, %d)", approved, total)
	}
}

func TestStopRequest_DenyRecordsReason(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionDeny,
		Reason: domain.DenyReasonCannotAccommodate,
	})
	if err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	if decided.Status != domain.StopStatusDenied {
		t.Errorf("expected denied status, got %s", decided.Status)
	}
	if decided.DenyReason != domain.DenyReasonCannotAccommodate {
		t.Errorf("expected reason %q, got %q", domain.DenyReasonCannotAccommodate, decided.DenyReason)
	}

	booking := f.bookingRepo.GetBooking(f.booking.ID)
	if booking.ApprovedStopsTotal != 0 {
		t.Errorf("denied stop must not change booking total, got %.2f", booking.ApprovedStopsTotal)
	}
}

func TestStopRequest_DenyWithoutReason(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionDeny,
	})
	if err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	if decided.DenyReason != domain.DenyReasonNone {
		t.Errorf("expected default reason %q, got %q", domain.DenyReasonNone, decided.DenyReason)
	}
}

func TestStopRequest_SecondDecisionConflicts(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	if _, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionDeny,
	})
	if !errors.Is(err, service.ErrStopAlreadyDecided) {
		t.Errorf("expected ErrStopAlreadyDecided, got %v", err)
	}
}

func TestStopRequest_InvalidAction(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	_, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: "maybe",
	})
	if !errors.Is(err, service.ErrInvalidDecisionAction) {
		t.Errorf("expected ErrInvalidDecisionAction, got %v", err)
	}
}

func TestStopRequest_LatenessBlocksApproval(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	// Next booking for the same bus starts in 20 minutes; a 10 minute
	// detour plus a 15 minute stop overruns it.
	f.bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-2",
		BusID:    f.bus.ID,
		StartsAt: time.Now().Add(20 * time.Minute),
		Hours:    4,
		Status:   domain.BookingStatusConfirmed,
	})

	stop := f.createStop(t, 15)

	view, err := f.service.GetStopRequest(context.Background(), stop.ID)
	if err != nil {
		t.Fatalf("GetStopRequest failed: %v", err)
	}
	if !view.WouldCauseLateness {
		t.Error("expected lateness warning on the pending view")
	}
	if view.NextBookingStartsAt.IsZero() {
		t.Error("expected next booking start time on the pending view")
	}

	_, err = f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	})
	if !errors.Is(err, service.ErrLateForNextBooking) {
		t.Fatalf("expected ErrLateForNextBooking, got %v", err)
	}

	// The driver can still deny it.
	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionDeny,
		Reason: domain.DenyReasonLateForNext,
	})
	if err != nil {
		t.Fatalf("deny after lateness check failed: %v", err)
	}
	if decided.Status != domain.StopStatusDenied {
		t.Errorf("expected denied status, got %s", decided.Status)
	}
}

func TestStopRequest_DistantNextBookingAllowsApproval(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	f.bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-2",
		BusID:    f.bus.ID,
		StartsAt: time.Now().Add(6 * time.Hour),
		Hours:    4,
		Status:   domain.BookingStatusConfirmed,
	})

	stop := f.createStop(t, 15)

	decided, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: stop.ID,
		Action: service.DecisionApprove,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if decided.Status != domain.StopStatusApproved {
		t.Errorf("expected approved status, got %s", decided.Status)
	}
}

func TestStopRequest_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	stop := f.createStop(t, 20)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for _, action := range []service.DecisionAction{service.DecisionApprove, service.DecisionDeny} {
		wg.Add(1)
		go func(action service.DecisionAction) {
			defer wg.Done()
			_, err := f.service.Decide(context.Background(), service.DecideStopRequest{
				StopID: stop.ID,
				Action: action,
			})
			results <- err
		}(action)
	}

	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, service.ErrStopAlreadyDecided):
			conflicts++
		default:
			t.Errorf("unexpected decision error: %v", err)
		}
	}

	if wins != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner, got %d wins and %d conflicts", wins, conflicts)
	}

	final, err := f.stopRepo.GetByID(context.Background(), stop.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !final.Terminal() {
		t.Errorf("expected terminal state, got %s", final.Status)
	}
}

func TestStopRequest_ListMostRecentFirst(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	first := f.createStop(t, 10)
	if _, err := f.service.Decide(context.Background(), service.DecideStopRequest{
		StopID: first.ID,
		Action: service.DecisionDeny,
	}); err != nil {
		t.Fatalf("deny failed: %v", err)
	}
	second := f.createStop(t, 25)

	list, err := f.service.ListStopRequests(context.Background(), f.booking.ID)
	if err != nil {
		t.Fatalf("ListStopRequests failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("expected most recent request first")
	}
}

func TestStopRequest_ListUnknownBooking(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	_, err := f.service.ListStopRequests(context.Background(), "no-such-booking")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStopRequest_ViewCarriesRespondBy(t *testing.T) {
	cfg := service.DefaultStopWorkflowConfig()
	cfg.ResponseWindow = 90 * time.Second
	f := newStopFixture(t, cfg)

	stop := f.createStop(t, 20)

	view, err := f.service.GetStopRequest(context.Background(), stop.ID)
	if err != nil {
		t.Fatalf("GetStopRequest failed: %v", err)
	}

	want := stop.RequestedAt.Add(90 * time.Second)
	if !view.RespondBy.Equal(want) {
		t.Errorf("expected respond-by %v, got %v", want, view.RespondBy)
	}
}

func TestOperatorStopStats_ValidatesOperatorID(t *testing.T) {
	f := newStopFixture(t, service.DefaultStopWorkflowConfig())

	_, _, err := f.service.OperatorStopStats(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidOperatorID) {
		t.Errorf("expected ErrInvalidOperatorID, got %v", err)
	}
}
