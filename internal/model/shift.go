package model

import "time"

// ShiftWindowID is the primary key of the single shift-window row.
const ShiftWindowID = 1

// ShiftWindow is a singleton row marking the lower bound of the current
// drawer shift. Sales, expenses and manual entries with
// occurred_at >= StartedAt belong to the open shift.
//
// Version implements optimistic concurrency: closing the shift advances
// StartedAt with a WHERE version = ? guard, so two registers confirming a
// closing near-simultaneously cannot both succeed — the loser gets a
// conflict instead of silently double-closing.
type ShiftWindow struct {
	ID        int       `gorm:"primaryKey"`
	StartedAt time.Time `gorm:"not null"`
	Version   int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time
}
