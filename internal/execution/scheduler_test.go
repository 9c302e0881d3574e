package execution

import (
	"reflect"
	"testing"
)

func TestRoundRobinScheduler_Schedule(t *testing.T) {
	scheduler := NewRoundRobinScheduler()

	tests := []struct {
		name     string
		packages []string
		workers  int
		expected [][]string
	}{
		{
			name:     "even split",
			packages: []string{"./a", "./b", "./c", "./d"},
			workers:  2,
			expected: [][]string{{"./a", "./c"}, {"./b", "./d"}},
		},
		{
			name:     "more workers than packages",
			packages: []string{"./a", "./b"},
			workers:  4,
			expected: [][]string{{"./a"}, {"./b"}},
		},
		{
			name:     "zero workers means one",
			packages: []string{"./a", "./b"},
			workers:  0,
			expected: [][]string{{"./a", "./b"}},
		},
		{
			name:     "no packages",
			packages: nil,
			workers:  3,
			expected: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scheduler.Schedule(tt.packages, tt.workers)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestGatewayID(t *testing.T) {
	if got := GatewayID(2); got != "gw2" {
		t.Errorf("expected gw2, got %s", got)
	}
}
