package flow

// Event is an inbound update after normalisation. The set of implementations
// is closed: Command, Text and Action.
type Event interface {
	event()
}

// Command is a bot command such as /start, without the leading slash.
type Command struct {
	UserID int64
	ChatID int64
	Name   string
}

// Text is a plain, non-command message.
type Text struct {
	UserID int64
	ChatID int64
	Body   string
}

// Action is an inline button press. ID is the callback query id used for the
// acknowledgement.
type Action struct {
	ID      string
	UserID  int64
	ChatID  int64
	Payload string
}

func (Command) event() {}
func (Text) event()    {}
func (Action) event()  {}
