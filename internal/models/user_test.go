package models

import "testing"

// TestUserCanAfford verifies the credit check used before generation.
func TestUserCanAfford(t *testing.T) {
	tests := []struct {
		name    string
		credits int
		cost    int
		want    bool
	}{
		{name: "exact balance", credits: 1, cost: 1, want: true},
		{name: "more than enough", credits: 10, cost: 3, want: true},
		{name: "not enough", credits: 0, cost: 1, want: false},
		{name: "free operation", credits: 0, cost: 0, want: true},
		{name: "negative cost treated as free", credits: 0, cost: -1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Credits: tt.credits}
			if got := u.CanAfford(tt.cost); got != tt.want {
				t.Errorf("User{Credits: %d}.CanAfford(%d) = %v, want %v", tt.credits, tt.cost, got, tt.want)
			}
		})
	}
}
