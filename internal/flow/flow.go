// Package flow holds the keyword → subscription → reward conversation as a
// pure function of the stored session and an inbound event. It performs no
// I/O; the caller executes the returned replies and membership checks.
package flow

// Outcome is the result of one step. Session is only meaningful when Save is
// set. Check, when non-nil, must be resolved with Verified or VerifyFailed.
type Outcome struct {
	Session Session
	Save    bool
	Replies []Reply
	Check   *MembershipCheck
	Reward  *Reward
}

// Reward describes a released lead magnet.
type Reward struct {
	Keyword string
	URL     string
}

type Flow struct {
	magnets     LeadMagnets
	channelLink string
}

func New(magnets LeadMagnets, channelLink string) *Flow {
	return &Flow{
		magnets:     magnets,
		channelLink: channelLink,
	}
}

// Handle runs one event against the session. found is false when the store
// has no record for the user yet.
func (f *Flow) Handle(sess Session, found bool, ev Event) Outcome {
	switch e := ev.(type) {
	case Command:
		return f.handleCommand(sess, e)
	case Text:
		return f.handleText(sess, found, e)
	case Action:
		return f.handleAction(sess, found, e)
	default:
		return Outcome{}
	}
}

func (f *Flow) handleCommand(sess Session, cmd Command) Outcome {
	if cmd.Name != "start" {
		return Outcome{}
	}

	sess.AwaitingKeyword = true
	return Outcome{
		Session: sess,
		Save:    true,
		Replies: []Reply{SendText{
			ChatID:         cmd.ChatID,
			Text:           welcomeText,
			DisablePreview: true,
		}},
	}
}

func (f *Flow) handleText(sess Session, found bool, msg Text) Outcome {
	if !found || !sess.AwaitingKeyword {
		return reply(SendText{ChatID: msg.ChatID, Text: pressStartText})
	}

	keyword := NormalizeKeyword(msg.Body)
	if _, ok := f.magnets.Lookup(keyword); !ok {
		return reply(SendText{
			ChatID: msg.ChatID,
			Text:   unknownKeywordText(f.magnets.Example()),
		})
	}

	sess.LastKeyword = keyword
	return Outcome{
		Session: sess,
		Save:    true,
		Replies: []Reply{SendText{
			ChatID:         msg.ChatID,
			Text:           subscribeText(f.channelLink),
			DisablePreview: true,
			Button:         &Button{Label: confirmLabel, Payload: ConfirmPayload},
		}},
	}
}

func (f *Flow) handleAction(sess Session, found bool, act Action) Outcome {
	if act.Payload != ConfirmPayload || act.ChatID == 0 || act.UserID == 0 {
		return reply(AnswerAction{ActionID: act.ID})
	}

	out := Outcome{
		Replies: []Reply{AnswerAction{ActionID: act.ID, Text: checkingAck}},
	}

	if !found || sess.LastKeyword == "" {
		out.Replies = append(out.Replies, SendText{
			ChatID: act.ChatID,
			Text:   sendKeywordFirstText(f.magnets.Example()),
		})
		return out
	}

	out.Check = &MembershipCheck{
		UserID:  act.UserID,
		ChatID:  act.ChatID,
		Keyword: sess.LastKeyword,
	}
	return out
}

// Verified completes a membership check with the status reported by the
// platform.
func (f *Flow) Verified(sess Session, check MembershipCheck, status MemberStatus) Outcome {
	if !status.Subscribed() {
		return reply(SendText{
			ChatID:         check.ChatID,
			Text:           notSubscribedText(f.channelLink),
			DisablePreview: true,
			Button:         &Button{Label: confirmRetryLabel, Payload: ConfirmPayload},
		})
	}

	url, ok := f.magnets[check.Keyword]
	if !ok {
		// Table changed under a stored session; make the user start over.
		return reply(SendText{
			ChatID: check.ChatID,
			Text:   sendKeywordFirstText(f.magnets.Example()),
		})
	}

	sess.AwaitingKeyword = false
	sess.LastKeyword = ""
	return Outcome{
		Session: sess,
		Save:    true,
		Replies: []Reply{SendText{ChatID: check.ChatID, Text: rewardText(url)}},
		Reward:  &Reward{Keyword: check.Keyword, URL: url},
	}
}

// VerifyFailed completes a membership check whose lookup returned an error.
func (f *Flow) VerifyFailed(check MembershipCheck) Outcome {
	return reply(SendText{ChatID: check.ChatID, Text: verifyFailedText})
}

func reply(r Reply) Outcome {
	return Outcome{Replies: []Reply{r}}
}
