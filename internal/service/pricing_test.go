package service

import "testing"

func TestAdditionalStopCost(t *testing.T) {
	testCases := []struct {
		name          string
		hourlyRate    float64
		detourMinutes int
		stopMinutes   int
		want          float64
	}{
		// 30 minutes at $120/hr is exactly the threshold, no premium.
		{"at premium threshold", 120.0, 10, 20, 60.0},
		// 31 minutes crosses the threshold: 31/60*120*1.2 = 74.4, rounds to 74.
		{"just over threshold", 120.0, 10, 21, 74.0},
		// Same boundary at $60/hr: 30 min -> 30, 31 min -> 37.2 -> 37.
		{"threshold at hourly rate 60", 60.0, 20, 10, 30.0},
		{"premium at hourly rate 60", 60.0, 20, 11, 37.0},
		// 60 minutes at $60/hr: 60*1.2 = 72.
		{"long stop premium", 60.0, 20, 40, 72.0},
		// Tiny stop on a cheap bus hits the minimum fee.
		{"minimum fee floor", 40.0, 5, 10, 25.0},
		{"zero detour minimum", 10.0, 0, 5, 25.0},
		// Rounding to whole dollars: 25/60*100 = 41.67 -> 42.
		{"rounds to nearest dollar", 100.0, 10, 15, 42.0},
		// Expensive bus, short stop: 15/60*300 = 75.
		{"short stop premium bus", 300.0, 5, 10, 75.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AdditionalStopCost(tc.hourlyRate, tc.detourMinutes, tc.stopMinutes)
			if got != tc.want {
				t.Errorf("AdditionalStopCost(%.0f, %d, %d) = %.2f, want %.2f",
					tc.hourlyRate, tc.detourMinutes, tc.stopMinutes, got, tc.want)
			}
		})
	}
}

func TestAdditionalStopCost_MonotonicInTotalTime(t *testing.T) {
	// A longer stop at the same rate never gets cheaper, including across
	// the premium threshold.
	prev := 0.0
	for minutes := 1; minutes <= 90; minutes++ {
		cost := AdditionalStopCost(150.0, 0, minutes)
		if cost < prev {
			t.Fatalf("cost dropped from %.2f to %.2f at %d minutes", prev, cost, minutes)
		}
		prev = cost
	}
}

func TestQuoteBooking(t *testing.T) {
	testCases := []struct {
		name        string
		hourlyRate  float64
		hours       int
		wantBase    float64
		wantFee     float64
		wantTotal   float64
		wantDeposit float64
	}{
		{"whole dollar rate", 200.0, 4, 800.0, 120.0, 920.0, 400.0},
		{"fee rounds up", 150.0, 5, 750.0, 113.0, 863.0, 300.0},
		{"fractional rate rounds up", 99.5, 3, 299.0, 45.0, 344.0, 199.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quote := QuoteBooking(tc.hourlyRate, tc.hours)

			if quote.BasePrice != tc.wantBase {
				t.Errorf("base price = %.2f, want %.2f", quote.BasePrice, tc.wantBase)
			}
			if quote.ServiceFee != tc.wantFee {
				t.Errorf("service fee = %.2f, want %.2f", quote.ServiceFee, tc.wantFee)
			}
			if quote.TotalPrice != tc.wantTotal {
				t.Errorf("total price = %.2f, want %.2f", quote.TotalPrice, tc.wantTotal)
			}
			if quote.DepositAmount != tc.wantDeposit {
				t.Errorf("deposit = %.2f, want %.2f", quote.DepositAmount, tc.wantDeposit)
			}
		})
	}
}
