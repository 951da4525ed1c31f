package models

import (
	"encoding/json"
	"time"
)

const (
	// StoredTimeLayout is the format of giveaways.announcement_date.
	StoredTimeLayout = "2006-01-02 15:04:05"
	// InputTimeLayout is the format operators type in the dialog flow.
	InputTimeLayout = "02.01.2006 15:04"
)

// Giveaway is a time-boxed drawing with a fixed winner quota and a
// destination channel. The row is removed right after its announcement.
type Giveaway struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	WinnersCount   int       `json:"winners_count"`
	AnnouncementAt time.Time `json:"announcement_date"`
	ChannelID      int64     `json:"channel_id"`
	// Winners grows monotonically until finalize: manual pre-selection and
	// automatic selection share this field, automatic selection only appends.
	Winners []int64 `json:"winners_ids"`
}

// IsActive reports whether the giveaway still accepts enrollment at now.
func (g *Giveaway) IsActive(now time.Time) bool {
	return g.AnnouncementAt.After(now)
}

// HasWinner reports whether userID is already in the winner set.
func (g *Giveaway) HasWinner(userID int64) bool {
	for _, id := range g.Winners {
		if id == userID {
			return true
		}
	}
	return false
}

// GiveawayCreate is the operator input for creating a giveaway.
type GiveawayCreate struct {
	Name             string `json:"name"`
	WinnersCount     int    `json:"winners_count"`
	AnnouncementDate string `json:"announcement_date"`
	ChannelID        int64  `json:"channel_id"`
}

// ParseAnnouncementTime accepts the operator input format and the stored
// format, in that order.
func ParseAnnouncementTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(InputTimeLayout, value, time.Local)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation(StoredTimeLayout, value, time.Local)
}

// EncodeWinners serializes the winner set for the winners_ids column.
func EncodeWinners(winners []int64) string {
	if winners == nil {
		winners = []int64{}
	}
	data, _ := json.Marshal(winners)
	return string(data)
}

// DecodeWinners parses the winners_ids column; an empty value is an empty set.
func DecodeWinners(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}
	var winners []int64
	if err := json.Unmarshal([]byte(raw), &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []int64{}
	}
	return winners, nil
}
