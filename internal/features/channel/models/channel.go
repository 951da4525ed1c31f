package models

// Channel is a connected announcement destination. Channels exist
// independently of giveaways and are referenced by channel_id.
type Channel struct {
	ID        int64  `json:"channel_id"`
	Title     string `json:"title"`
	AddedDate string `json:"added_date"`
}
