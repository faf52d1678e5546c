package domain

import "time"

// Event は出店者を募集するイベント。
type Event struct {
	ID                  string
	Title               string
	Prefecture          string
	Venue               string
	Description         string
	StartsAt            time.Time
	EndsAt              time.Time
	VendorCapacity      int
	ApplicationDeadline time.Time
	Published           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AcceptingApplications は現時点で出店申込を受け付けているかを返す。
func (e Event) AcceptingApplications(now time.Time) bool {
	if !e.Published {
		return false
	}
	if e.ApplicationDeadline.IsZero() {
		return now.Before(e.StartsAt)
	}
	return now.Before(e.ApplicationDeadline)
}
