package smsdb

// Direction is the classified direction of a message row. Flag values that
// are not recognized map to DirectionUnknown and the row is skipped.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionIncoming
	DirectionOutgoing
	DirectionGroupSent
	// DirectionGroupReceived is reserved; no received-in-group flag value
	// has been observed in the iOS 5 schema.
	DirectionGroupReceived
)

func (d Direction) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	case DirectionGroupSent:
		return "group_sent"
	case DirectionGroupReceived:
		return "group_received"
	default:
		return "unknown"
	}
}

// OneToOne reports whether the direction describes a one-to-one message.
func (d Direction) OneToOne() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// IsGroup reports whether the direction describes a group chat message.
func (d Direction) IsGroup() bool {
	return d == DirectionGroupSent || d == DirectionGroupReceived
}

// message.flags values for SMS rows.
const (
	smsFlagReceived = 2
	smsFlagSent     = 3
)

// message.madrid_flags values for iMessage rows. The "Rich" variants are
// set when the text contains an email address, phone number, or URL.
const (
	madridReceived      = 12289
	madridReceivedRich  = 77825
	madridSent          = 36869
	madridSentRich      = 102405
	madridGroupSent     = 32773
	madridGroupSentRich = 98309
)

func smsDirection(flags int64) Direction {
	switch flags {
	case smsFlagReceived:
		return DirectionIncoming
	case smsFlagSent:
		return DirectionOutgoing
	default:
		return DirectionUnknown
	}
}

func madridDirection(flags int64) Direction {
	switch flags {
	case madridReceived, madridReceivedRich:
		return DirectionIncoming
	case madridSent, madridSentRich:
		return DirectionOutgoing
	case madridGroupSent, madridGroupSentRich:
		return DirectionGroupSent
	default:
		return DirectionUnknown
	}
}
