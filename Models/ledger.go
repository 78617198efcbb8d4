package Models

import (
	"gorm.io/gorm"
)

type EntryKind string

const (
	EntryGain    EntryKind = "gain"
	EntryPenalty EntryKind = "penalty"
)

// LedgerEntry is one signed point movement. The ledger is append-only:
// rows are never updated or deleted, and every aggregate score is a sum
// over entries, never a stored counter.
type LedgerEntry struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	TaskID      *uint     `json:"task_id" gorm:"index"`
	Delta       int       `json:"delta" gorm:"not null"`
	Kind        EntryKind `json:"kind" gorm:"type:varchar(10);not null"`
	Description string    `json:"description"`
}
