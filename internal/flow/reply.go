package flow

// Reply is an outbound call the adapter performs on behalf of the flow.
type Reply interface {
	reply()
}

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Label   string
	Payload string
}

// SendText sends a message to a chat, optionally with a single inline button.
type SendText struct {
	ChatID         int64
	Text           string
	DisablePreview bool
	Button         *Button
}

// AnswerAction acknowledges a button press so the client stops its spinner.
type AnswerAction struct {
	ActionID string
	Text     string
}

func (SendText) reply()     {}
func (AnswerAction) reply() {}
