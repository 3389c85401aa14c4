package smsdb

import "testing"

func TestSMSDirection(t *testing.T) {
	tests := []struct {
		flags int64
		want  Direction
	}{
		{2, DirectionIncoming},
		{3, DirectionOutgoing},
		{0, DirectionUnknown},
		{1, DirectionUnknown},
		{33, DirectionUnknown},
		{131073, DirectionUnknown},
	}
	for _, tt := range tests {
		if got := smsDirection(tt.flags); got != tt.want {
			t.Errorf("smsDirection(%d) = %v, want %v", tt.flags, got, tt.want)
		}
	}
}

func TestMadridDirection(t *testing.T) {
	tests := []struct {
		flags int64
		want  Direction
	}{
		{12289, DirectionIncoming},
		{77825, DirectionIncoming},
		{36869, DirectionOutgoing},
		{102405, DirectionOutgoing},
		{32773, DirectionGroupSent},
		{98309, DirectionGroupSent},
		{0, DirectionUnknown},
		{45061, DirectionUnknown},
	}
	for _, tt := range tests {
		if got := madridDirection(tt.flags); got != tt.want {
			t.Errorf("madridDirection(%d) = %v, want %v", tt.flags, got, tt.want)
		}
	}
}

func TestDirectionPredicates(t *testing.T) {
	tests := []struct {
		dir      Direction
		oneToOne bool
		group    bool
		name     string
	}{
		{DirectionUnknown, false, false, "unknown"},
		{DirectionIncoming, true, false, "incoming"},
		{DirectionOutgoing, true, false, "outgoing"},
		{DirectionGroupSent, false, true, "group_sent"},
		{DirectionGroupReceived, false, true, "group_received"},
	}
	for _, tt := range tests {
		if got := tt.dir.OneToOne(); got != tt.oneToOne {
			t.Errorf("%v.OneToOne() = %v, want %v", tt.dir, got, tt.oneToOne)
		}
		if got := tt.dir.IsGroup(); got != tt.group {
			t.Errorf("%v.IsGroup() = %v, want %v", tt.dir, got, tt.group)
		}
		if got := tt.dir.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}
