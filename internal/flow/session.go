package flow

// Session is the per-user conversion state. An empty LastKeyword means no
// keyword is pending confirmation.
type Session struct {
	AwaitingKeyword bool   `json:"awaiting_keyword"`
	LastKeyword     string `json:"last_keyword,omitempty"`
}

// Stage reports where the user is in the flow. It is derived, never stored.
func (s Session) Stage() Stage {
	switch {
	case s.AwaitingKeyword && s.LastKeyword != "":
		return StageAwaitingConfirm
	case s.AwaitingKeyword:
		return StageAwaitingKeyword
	default:
		return StageIdle
	}
}

type Stage string

const (
	StageIdle            Stage = "idle"
	StageAwaitingKeyword Stage = "awaiting_keyword"
	StageAwaitingConfirm Stage = "awaiting_confirm"
)
