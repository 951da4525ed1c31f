package models

// User is a registered bot user. InvitedFriends is the referral ledger
// counter feeding the fairness weight; ReferrerID is set on first
// registration and never overwritten.
type User struct {
	ID             int64  `json:"user_id"`
	Username       string `json:"username"`
	Fullname       string `json:"fullname"`
	Role           string `json:"role"`
	InvitedFriends int    `json:"invited_friends"`
	ReferrerID     *int64 `json:"referrer_id,omitempty"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// RegisterInput carries a /start registration. ReferrerID is optional and
// only honored on first registration.
type RegisterInput struct {
	ID         int64
	Username   string
	Fullname   string
	ReferrerID *int64
}
