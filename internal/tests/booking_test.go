package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"partybus/internal/domain"
	"partybus/internal/service"
)

func validBookingRequest(busID string) service.CreateBookingRequest {
	return service.CreateBookingRequest{
		CustomerName:    "Dana",
		CustomerEmail:   "dana@example.com",
		CustomerPhone:   "+15550100",
		BusID:           busID,
		StartsAt:        time.Now().Add(48 * time.Hour),
		Hours:           5,
		PickupLocation:  "100 Main St",
		DropoffLocation: "200 Main St",
	}
}

func newBookingFixture() (*service.BookingService, *MockBusRepository, *MockOperatorRepository) {
	busRepo := NewMockBusRepository()
	operatorRepo := NewMockOperatorRepository()

	operatorRepo.AddOperator(&domain.Operator{
		ID:          "operator-1",
		CompanyName: "Midnight Cruisers",
		IsApproved:  true,
	})
	busRepo.AddBus(&domain.Bus{
		ID:           "bus-1",
		OperatorID:   "operator-1",
		Name:         "Neon Nights",
		Capacity:     20,
		HourlyRate:   150.0,
		MinimumHours: 4,
		IsActive:     true,
	})

	bookingService := service.NewBookingService(
		nil, // validation and eligibility checks run before any transaction
		NewMockBookingRepository(),
		NewMockCustomerRepository(),
		busRepo,
		operatorRepo,
		nil,
	)
	return bookingService, busRepo, operatorRepo
}

func TestBookingCreation_ValidatesInput(t *testing.T) {
	bookingService, _, _ := newBookingFixture()

	testCases := []struct {
		name    string
		mutate  func(*service.CreateBookingRequest)
		wantErr error
	}{
		{
			"missing customer name",
			func(r *service.CreateBookingRequest) { r.CustomerName = " " },
			service.ErrMissingCustomerInfo,
		},
		{
			"missing customer email",
			func(r *service.CreateBookingRequest) { r.CustomerEmail = "" },
			service.ErrMissingCustomerInfo,
		},
		{
			"missing bus id",
			func(r *service.CreateBookingRequest) { r.BusID = "" },
			service.ErrInvalidBusID,
		},
		{
			"zero hours",
			func(r *service.CreateBookingRequest) { r.Hours = 0 },
			service.ErrInvalidBookingHours,
		},
		{
			"start in the past",
			func(r *service.CreateBookingRequest) { r.StartsAt = time.Now().Add(-time.Hour) },
			service.ErrInvalidBookingStart,
		},
		{
			"zero start",
			func(r *service.CreateBookingRequest) { r.StartsAt = time.Time{} },
			service.ErrInvalidBookingStart,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validBookingRequest("bus-1")
			tc.mutate(&req)

			_, err := bookingService.CreateBooking(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBookingCreation_RejectsInactiveBus(t *testing.T) {
	bookingService, busRepo, _ := newBookingFixture()

	busRepo.AddBus(&domain.Bus{
		ID:           "bus-parked",
		OperatorID:   "operator-1",
		HourlyRate:   150.0,
		MinimumHours: 4,
		IsActive:     false,
	})

	_, err := bookingService.CreateBooking(context.Background(), validBookingRequest("bus-parked"))
	if !errors.Is(err, service.ErrBusNotBookable) {
		t.Errorf("expected ErrBusNotBookable, got %v", err)
	}
}

func TestBookingCreation_RejectsUnapprovedOperator(t *testing.T) {
	bookingService, busRepo, operatorRepo := newBookingFixture()

	operatorRepo.AddOperator(&domain.Operator{
		ID:         "operator-pending",
		IsApproved: false,
	})
	busRepo.AddBus(&domain.Bus{
		ID:           "bus-2",
		OperatorID:   "operator-pending",
		HourlyRate:   150.0,
		MinimumHours: 4,
		IsActive:     true,
	})

	_, err := bookingService.CreateBooking(context.Background(), validBookingRequest("bus-2"))
	if !errors.Is(err, service.ErrBusNotBookable) {
		t.Errorf("expected ErrBusNotBookable, got %v", err)
	}
}

func TestBookingCreation_EnforcesMinimumHours(t *testing.T) {
	bookingService, _, _ := newBookingFixture()

	req := validBookingRequest("bus-1")
	req.Hours = 3 // bus requires 4

	_, err := bookingService.CreateBooking(context.Background(), req)
	if !errors.Is(err, service.ErrBelowMinimumHours) {
		t.Errorf("expected ErrBelowMinimumHours, got %v", err)
	}
}

func TestGetBooking_ValidatesID(t *testing.T) {
	bookingService, _, _ := newBookingFixture()

	_, err := bookingService.GetBooking(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidBookingID) {
		t.Errorf("expected ErrInvalidBookingID, got %v", err)
	}
}
