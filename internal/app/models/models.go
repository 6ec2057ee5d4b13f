// Package models defines the database entities.
package models

// Badge is a membership tier label
type Badge string

const (
	BadgeVIP     Badge = "vip"
	BadgeRegular Badge = "regular"
	BadgeRookie  Badge = "rookie"
	BadgePlusOne Badge = "plus_one"
)

// RSVPStatus is a participant's intent for a run
type RSVPStatus string

const (
	StatusConfirmed  RSVPStatus = "confirmed"
	StatusInterested RSVPStatus = "interested"
	StatusOut        RSVPStatus = "out"
)

// ValidRSVPStatus reports whether s is a known RSVP status
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case StatusConfirmed, StatusInterested, StatusOut:
		return true
	}
	return false
}
