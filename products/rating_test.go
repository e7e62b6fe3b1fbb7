package products

import "testing"

func TestRoundedMean(t *testing.T) {
	cases := []struct {
		values []int
		want   float64
	}{
		{nil, 0},
		{[]int{5}, 5},
		{[]int{4, 5}, 4.5},
		{[]int{1, 2, 2}, 1.7},
		{[]int{3, 3, 4}, 3.3},
		{[]int{5, 5, 5, 5}, 5},
	}

	for _, c := range cases {
		if got := roundedMean(c.values); got != c.want {
			t.Errorf("roundedMean(%v) = %v, want %v", c.values, got, c.want)
		}
	}
}
