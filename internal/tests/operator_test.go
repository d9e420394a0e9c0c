package tests

import (
	"context"
	"errors"
	"testing"

	"partybus/internal/domain"
	"partybus/internal/repository"
	"partybus/internal/service"
)

func TestOperatorRegistration_ValidatesInput(t *testing.T) {
	operatorService := service.NewOperatorService(
		nil, NewMockOperatorRepository(), NewMockBusRepository(), nil, nil,
	)

	testCases := []struct {
		name string
		req  service.RegisterOperatorRequest
	}{
		{"missing company name", service.RegisterOperatorRequest{Email: "a@b.c", BusName: "Neon", BusCapacity: 10}},
		{"missing email", service.RegisterOperatorRequest{CompanyName: "Cruisers", BusName: "Neon", BusCapacity: 10}},
		{"missing bus name", service.RegisterOperatorRequest{CompanyName: "Cruisers", Email: "a@b.c", BusCapacity: 10}},
		{"zero capacity", service.RegisterOperatorRequest{CompanyName: "Cruisers", Email: "a@b.c", BusName: "Neon"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := operatorService.RegisterOperator(context.Background(), tc.req)
			if !errors.Is(err, service.ErrMissingOperatorInfo) {
				t.Errorf("expected ErrMissingOperatorInfo, got %v", err)
			}
		})
	}
}

func TestOperatorApproval_InvalidatesBusCache(t *testing.T) {
	operatorRepo := NewMockOperatorRepository()
	cacheStore := NewMockCacheStore()
	operatorService := service.NewOperatorService(
		nil, operatorRepo, NewMockBusRepository(), cacheStore, nil,
	)

	operatorRepo.AddOperator(&domain.Operator{
		ID:          "operator-1",
		CompanyName: "Midnight Cruisers",
	})

	operator, err := operatorService.ApproveOperator(context.Background(), "operator-1")
	if err != nil {
		t.Fatalf("ApproveOperator failed: %v", err)
	}

	if !operator.IsApproved {
		t.Error("expected operator to be approved")
	}
	if cacheStore.InvalidateCallCount != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", cacheStore.InvalidateCallCount)
	}
}

func TestOperatorApproval_ValidatesID(t *testing.T) {
	operatorService := service.NewOperatorService(
		nil, NewMockOperatorRepository(), NewMockBusRepository(), nil, nil,
	)

	_, err := operatorService.ApproveOperator(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidOperatorID) {
		t.Errorf("expected ErrInvalidOperatorID, got %v", err)
	}
}

func TestOperatorApproval_UnknownOperator(t *testing.T) {
	operatorService := service.NewOperatorService(
		nil, NewMockOperatorRepository(), NewMockBusRepository(), nil, nil,
	)

	_, err := operatorService.ApproveOperator(context.Background(), "no-such-operator")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
