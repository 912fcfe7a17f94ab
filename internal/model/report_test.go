package model

import "testing"

func TestRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, RiskLow},
		{5, RiskLow},
		{6, RiskMonitor},
		{10, RiskMonitor},
		{11, RiskHigh},
		{25, RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.total); got != tt.want {
			t.Errorf("RiskLevel(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}
