package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DebinStatus is the lifecycle state of an external debit request.
// PENDING transitions exactly once to ACCEPTED or REJECTED; terminal
// states are final.
type DebinStatus string

const (
	DebinStatusPending  DebinStatus = "PENDING"
	DebinStatusAccepted DebinStatus = "ACCEPTED"
	DebinStatusRejected DebinStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions.
func (s DebinStatus) Terminal() bool {
	return s == DebinStatusAccepted || s == DebinStatusRejected
}

type DebinRequest struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primarykey" json:"id"`
	WalletID           uuid.UUID   `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Amount             float64     `gorm:"not null" json:"amount"`
	Description        string      `gorm:"not null" json:"description"`
	ExternalWalletInfo string      `gorm:"not null" json:"external_wallet_info"`
	Status             DebinStatus `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (d *DebinRequest) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
