package platform

import (
	"testing"
	"time"
)

func TestExpireMillis(t *testing.T) {
	tests := []struct {
		opts Options
		want int32
	}{
		{Options{}, -1},
		{Options{Timeout: 3 * time.Second}, 3000},
		{Options{Timeout: time.Second, Urgent: true}, 0},
	}
	for _, tt := range tests {
		if got := tt.opts.expireMillis(); got != tt.want {
			t.Errorf("%+v: got %d, want %d", tt.opts, got, tt.want)
		}
	}
}
