package flow

// MemberStatus is the relationship of a user to the channel as reported by
// getChatMember.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
	StatusRestricted    MemberStatus = "restricted"
	StatusOther         MemberStatus = "other"
)

// ParseMemberStatus maps a raw API status onto the known set.
func ParseMemberStatus(raw string) MemberStatus {
	switch s := MemberStatus(raw); s {
	case StatusCreator, StatusAdministrator, StatusMember, StatusLeft, StatusKicked, StatusRestricted:
		return s
	default:
		return StatusOther
	}
}

// Subscribed reports whether the status counts as a channel subscription.
// Restricted users are not counted even if they are still in the channel.
func (s MemberStatus) Subscribed() bool {
	switch s {
	case StatusCreator, StatusAdministrator, StatusMember:
		return true
	default:
		return false
	}
}

// MembershipCheck asks the adapter to verify the sender's subscription for
// the given keyword.
type MembershipCheck struct {
	UserID  int64
	ChatID  int64
	Keyword string
}
