package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		expected Label
	}{
		{
			name:     "双方有值时累积",
			existing: Label{Value: "snapshot", Source: "candidate"},
			incoming: Label{Value: "popularity", Source: "candidate"},
			expected: Label{Value: "snapshot|popularity", Source: "candidate,candidate"},
		},
		{
			name:     "已有为空取新值",
			existing: Label{},
			incoming: Label{Value: "a", Source: "x"},
			expected: Label{Value: "a", Source: "x"},
		},
		{
			name:     "新值为空保留已有",
			existing: Label{Value: "a", Source: "x"},
			incoming: Label{},
			expected: Label{Value: "a", Source: "x"},
		},
		{
			name:     "已有 Source 为空取新 Source",
			existing: Label{Value: "a"},
			incoming: Label{Value: "b", Source: "y"},
			expected: Label{Value: "a|b", Source: "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got != tt.expected {
				t.Errorf("期望 %+v，实际 %+v", tt.expected, got)
			}
		})
	}
}
