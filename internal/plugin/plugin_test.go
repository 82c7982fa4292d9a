package plugin

import "testing"

type epochMsg uint64

func (m epochMsg) GetEpoch() uint64 { return uint64(m) }

func TestIsStale(t *testing.T) {
	ctx := &Context{Epoch: 3}
	tests := []struct {
		name string
		ctx  *Context
		msg  epochMsg
		want bool
	}{
		{"current epoch", ctx, 3, false},
		{"older epoch", ctx, 2, true},
		{"nil context", nil, 1, false},
	}
	for _, tt := range tests {
		if got := IsStale(tt.ctx, tt.msg); got != tt.want {
			t.Errorf("%s: IsStale = %v, want %v", tt.name, got, tt.want)
		}
	}
}
