package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"partybus/internal/domain"
	"partybus/internal/observability"
	"partybus/internal/redis"
	"partybus/internal/repository"
	"partybus/internal/routing"
)

// StopWorkflowConfig contains the tunables of the stop-request workflow.
type StopWorkflowConfig struct {
	// ResponseWindow is how long the driver has to decide before the
	// request is auto-declined.
	ResponseWindow time.Duration

	// DefaultDetourMinutes is used when the routing estimator fails.
	DefaultDetourMinutes int

	// MaxStopDurationMinutes caps how long a customer may request at a stop.
	MaxStopDurationMinutes int

	// RoutingTimeout bounds a single detour lookup. The customer is waiting
	// on the quote, so lookups must never block the workflow.
	RoutingTimeout time.Duration

	// CreationLockTTL bounds the per-booking creation lock so a crashed
	// instance cannot wedge a booking.
	CreationLockTTL time.Duration
}

// DefaultStopWorkflowConfig returns the default workflow configuration.
func DefaultStopWorkflowConfig() StopWorkflowConfig {
	return StopWorkflowConfig{
		ResponseWindow:         120 * time.Second,
		DefaultDetourMinutes:   10,
		MaxStopDurationMinutes: 60,
		RoutingTimeout:         3 * time.Second,
		CreationLockTTL:        10 * time.Second,
	}
}

// StopRequestService owns the mid-trip stop workflow: quoting, the pending
// request, and the time-boxed driver decision.
//
// Exactly one of {approve, deny, auto-decline} wins the pending→terminal
// transition; the store's compare-and-set is the arbiter, and the
// response-window timer simply loses the race if it fires late.
type StopRequestService struct {
	stopRepo            repository.StopRequestRepository
	bookingRepo         repository.BookingRepository
	busRepo             repository.BusRepository
	estimator           routing.Estimator
	lockStore           redis.LockStoreInterface
	statsStore          redis.StatsStoreInterface
	notificationService *NotificationService
	cfg                 StopWorkflowConfig

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewStopRequestService creates a new StopRequestService. lockStore,
// statsStore, and notificationService may be nil; the related side effects
// are skipped.
func NewStopRequestService(
	stopRepo repository.StopRequestRepository,
	bookingRepo repository.BookingRepository,
	busRepo repository.BusRepository,
	estimator routing.Estimator,
	lockStore redis.LockStoreInterface,
	statsStore redis.StatsStoreInterface,
	notificationService *NotificationService,
	cfg StopWorkflowConfig,
) *StopRequestService {
	return &StopRequestService{
		stopRepo:            stopRepo,
		bookingRepo:         bookingRepo,
		busRepo:             busRepo,
		estimator:           estimator,
		lockStore:           lockStore,
		statsStore:          statsStore,
		notificationService: notificationService,
		cfg:                 cfg,
		timers:              make(map[string]*time.Timer),
	}
}

// Close stops all outstanding response-window timers. Pending requests are
// transient and die with the process.
func (s *StopRequestService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// CreateStopRequestRequest contains the parameters for requesting a stop.
type CreateStopRequestRequest struct {
	BookingID         string
	StopAddress       string
	EstimatedDuration int // minutes at the stop
}

// CreateStopRequest validates the request, quotes the additional cost, and
// opens the driver's response window.
func (s *StopRequestService) CreateStopRequest(ctx context.Context, req CreateStopRequestRequest) (*domain.StopRequest, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	address := strings.TrimSpace(req.StopAddress)
	if address == "" {
		return nil, ErrEmptyStopAddress
	}

	if req.EstimatedDuration <= 0 || req.EstimatedDuration > s.cfg.MaxStopDurationMinutes {
		return nil, ErrInvalidStopDuration
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(ctx, booking.BusID)
	if err != nil {
		return nil, err
	}

	// Guard the single-pending check across instances. The store enforces
	// the invariant again under its own lock, so a lost lock only costs a
	// cleaner error message.
	if s.lockStore != nil {
		ok, err := s.lockStore.AcquireStopCreationLock(ctx, req.BookingID, s.cfg.CreationLockTTL)
		if err == nil && !ok {
			return nil, ErrPendingStopExists
		}
		if err == nil {
			defer func() {
				_ = s.lockStore.ReleaseStopCreationLock(ctx, req.BookingID)
			}()
		}
	}

	detourMinutes := s.estimateDetour(ctx, booking.PickupLocation, address)

	stopRequest := &domain.StopRequest{
		ID:                uuid.New().String(),
		BookingID:         req.BookingID,
		StopAddress:       address,
		EstimatedDuration: req.EstimatedDuration,
		DetourMinutes:     detourMinutes,
		AdditionalCost:    AdditionalStopCost(bus.HourlyRate, detourMinutes, req.EstimatedDuration),
		Status:            domain.StopStatusPending,
		RequestedAt:       time.Now(),
	}

	if err := s.stopRepo.Create(ctx, stopRequest); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPendingStopExists
		}
		return nil, err
	}

	// The response window opens the moment the request becomes visible
	// to the driver.
	s.scheduleAutoDecline(stopRequest.ID)

	observability.StopRequestsTotal.Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyStopRequested(ctx, stopRequest, booking.OperatorID)
	}

	return stopRequest, nil
}

// DecisionAction is the driver's answer to a stop request.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionDeny    DecisionAction = "deny"
)

// DecideStopRequest contains the parameters for a driver decision.
type DecideStopRequest struct {
	StopID string
	Action DecisionAction
	Reason string // deny only; optional
}

// Decide records the driver's decision on a pending stop request.
func (s *StopRequestService) Decide(ctx context.Context, req DecideStopRequest) (*domain.StopRequest, error) {
	if req.StopID == "" {
		return nil, ErrInvalidStopID
	}

	switch req.Action {
	case DecisionApprove:
		return s.approve(ctx, req.StopID)
	case DecisionDeny:
		return s.deny(ctx, req.StopID, req.Reason)
	default:
		return nil, ErrInvalidDecisionAction
	}
}

func (s *StopRequestService) approve(ctx context.Context, stopID string) (*domain.StopRequest, error) {
	stopRequest, err := s.stopRepo.GetByID(ctx, stopID)
	if err != nil {
		return nil, err
	}

	if stopRequest.Terminal() {
		return nil, ErrStopAlreadyDecided
	}

	booking, err := s.bookingRepo.GetByID(ctx, stopRequest.BookingID)
	if err != nil {
		return nil, err
	}

	// A stop that overruns into the next scheduled booking cannot be
	// approved, only denied.
	late, _, err := s.wouldCauseLateness(ctx, stopRequest, booking)
	if err != nil {
		return nil, err
	}
	if late {
		return nil, ErrLateForNextBooking
	}

	decided, err := s.stopRepo.Decide(ctx, stopID, domain.StopStatusApproved, time.Now(), "")
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStopAlreadyDecided
		}
		return nil, err
	}

	s.cancelTimer(stopID)
	observability.StopDecisionsTotal.WithLabelValues(observability.OutcomeApproved).Inc()

	// The quote is committed to the trip total immediately on approval.
	if err := s.bookingRepo.AddApprovedStopTotal(ctx, booking.ID, decided.AdditionalCost); err != nil {
		log.Printf("failed to add approved stop total for booking %s: %v", booking.ID, err)
	}

	s.recordDecision(ctx, booking.OperatorID, true)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyStopApproved(ctx, decided, booking.CustomerID)
	}

	return decided, nil
}

func (s *StopRequestService) deny(ctx context.Context, stopID, reason string) (*domain.StopRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DenyReasonNone
	}

	decided, err := s.stopRepo.Decide(ctx, stopID, domain.StopStatusDenied, time.Now(), reason)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStopAlreadyDecided
		}
		return nil, err
	}

	s.cancelTimer(stopID)
	observability.StopDecisionsTotal.WithLabelValues(observability.OutcomeDenied).Inc()

	booking, err := s.bookingRepo.GetByID(ctx, decided.BookingID)
	if err == nil {
		s.recordDecision(ctx, booking.OperatorID, false)
		if s.notificationService != nil {
			_ = s.notificationService.NotifyStopDenied(ctx, decided, booking.CustomerID)
		}
	}

	return decided, nil
}

// StopRequestView is a stop request enriched with the driver-facing
// schedule check.
type StopRequestView struct {
	Request *domain.StopRequest

	// WouldCauseLateness is true while approving the stop would overrun
	// into the next scheduled booking for the same bus.
	WouldCauseLateness bool
	NextBookingStartsAt time.Time // zero when no next booking is scheduled

	// RespondBy is the auto-decline deadline; zero once decided.
	RespondBy time.Time
}

// GetStopRequest retrieves a stop request with the derived lateness flag.
func (s *StopRequestService) GetStopRequest(ctx context.Context, stopID string) (*StopRequestView, error) {
	if stopID == "" {
		return nil, ErrInvalidStopID
	}

	stopRequest, err := s.stopRepo.GetByID(ctx, stopID)
	if err != nil {
		return nil, err
	}

	view := &StopRequestView{Request: stopRequest}

	if !stopRequest.Terminal() {
		view.RespondBy = stopRequest.RequestedAt.Add(s.cfg.ResponseWindow)

		booking, err := s.bookingRepo.GetByID(ctx, stopRequest.BookingID)
		if err != nil {
			return nil, err
		}

		late, nextStart, err := s.wouldCauseLateness(ctx, stopRequest, booking)
		if err != nil {
			return nil, err
		}
		view.WouldCauseLateness = late
		view.NextBookingStartsAt = nextStart
	}

	return view, nil
}

// ListStopRequests retrieves all stop requests for a booking, most recent first.
func (s *StopRequestService) ListStopRequests(ctx context.Context, bookingID string) ([]*domain.StopRequest, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	// Surface unknown bookings as not-found rather than an empty list.
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	return s.stopRepo.ListByBooking(ctx, bookingID)
}

// OperatorStopStats returns the (approved, decided) counters for an operator.
func (s *StopRequestService) OperatorStopStats(ctx context.Context, operatorID string) (int64, int64, error) {
	if operatorID == "" {
		return 0, 0, ErrInvalidOperatorID
	}
	if s.statsStore == nil {
		return 0, 0, nil
	}
	return s.statsStore.GetStopDecisionCounts(ctx, operatorID)
}

// wouldCauseLateness checks the added trip time against the next scheduled
// booking for the same bus. No next booking means never late.
func (s *StopRequestService) wouldCauseLateness(ctx context.Context, req *domain.StopRequest, booking *domain.Booking) (bool, time.Time, error) {
	now := time.Now()

	next, err := s.bookingRepo.GetNextForBus(ctx, booking.BusID, now)
	if err != nil {
		return false, time.Time{}, err
	}
	if next == nil {
		return false, time.Time{}, nil
	}

	projected := now.Add(time.Duration(req.AddedMinutes()) * time.Minute)
	return projected.After(next.StartsAt), next.StartsAt, nil
}

// estimateDetour resolves the detour with a hard per-lookup timeout and one
// retry, falling back to the default estimate. A routing outage degrades the
// quote, never the workflow.
func (s *StopRequestService) estimateDetour(ctx context.Context, pickup, stopAddress string) int {
	if s.estimator == nil {
		return s.cfg.DefaultDetourMinutes
	}

	for attempt := 1; attempt <= 2; attempt++ {
		lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.RoutingTimeout)
		estimate, err := s.estimator.EstimateDetour(lookupCtx, pickup, stopAddress)
		cancel()

		if err == nil {
			return estimate.DetourMinutes
		}
		log.Printf("detour lookup attempt %d failed: %v", attempt, err)
	}

	observability.RoutingFallbacksTotal.Inc()
	return s.cfg.DefaultDetourMinutes
}

// scheduleAutoDecline arms the response-window timer for a request.
func (s *StopRequestService) scheduleAutoDecline(stopID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[stopID] = time.AfterFunc(s.cfg.ResponseWindow, func() {
		s.autoDecline(stopID)
	})
}

// cancelTimer stops and forgets the response-window timer for a request.
// Stopping an already-fired timer is harmless: autoDecline loses the
// compare-and-set and backs off.
func (s *StopRequestService) cancelTimer(stopID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[stopID]; ok {
		timer.Stop()
		delete(s.timers, stopID)
	}
}

// autoDecline denies a request whose response window elapsed without a
// driver decision. If a decision won the race the compare-and-set fails
// with a conflict and this is a no-op.
func (s *StopRequestService) autoDecline(stopID string) {
	ctx := context.Background()

	s.mu.Lock()
	delete(s.timers, stopID)
	s.mu.Unlock()

	decided, err := s.stopRepo.Decide(ctx, stopID, domain.StopStatusDenied, time.Now(), domain.DenyReasonAutoDeclined)
	if err != nil {
		if !errors.Is(err, repository.ErrConflict) && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("auto-decline of stop request %s failed: %v", stopID, err)
		}
		return
	}

	observability.StopDecisionsTotal.WithLabelValues(observability.OutcomeAutoDenied).Inc()

	booking, err := s.bookingRepo.GetByID(ctx, decided.BookingID)
	if err != nil {
		return
	}

	s.recordDecision(ctx, booking.OperatorID, false)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyStopDenied(ctx, decided, booking.CustomerID)
	}
}

// recordDecision updates the informational decision counters, best effort.
func (s *StopRequestService) recordDecision(ctx context.Context, operatorID string, approved bool) {
	if s.statsStore == nil {
		return
	}
	if err := s.statsStore.RecordStopDecision(ctx, operatorID, approved); err != nil {
		log.Printf("failed to record stop decision for operator %s: %v", operatorID, err)
	}
}
