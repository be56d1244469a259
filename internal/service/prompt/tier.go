package prompt

// Tier is the engagement level derived from how many messages the visitor
// has sent.
type Tier int

const (
	TierFirst Tier = iota
	TierEarly
	TierMid
	TierDeep
)

// TierFor maps a message count to an engagement tier. Total over all
// non-negative counts: 0-1 first, 2-3 early, 4-6 mid, 7+ deep.
func TierFor(count int) Tier {
	switch {
	case count <= 1:
		return TierFirst
	case count <= 3:
		return TierEarly
	case count <= 6:
		return TierMid
	default:
		return TierDeep
	}
}

func (t Tier) String() string {
	switch t {
	case TierFirst:
		return "first"
	case TierEarly:
		return "early"
	case TierMid:
		return "mid"
	default:
		return "deep"
	}
}

// Directive returns the engagement instruction appended to the user message.
func (t Tier) Directive() string {
	switch t {
	case TierFirst:
		return "This is the visitor's first message. Be welcoming, and invite them to share what brings them here."
	case TierEarly:
		return "The conversation is just getting going. Build rapport, and gently probe who the visitor is and what they're after."
	case TierMid:
		return "You're mid-conversation now. Reference things said earlier, and proactively connect topics the visitor has touched on."
	default:
		return "You're deep in conversation. Act as a full conversational partner: anticipate questions, draw connections, and keep the thread going proactively."
	}
}
