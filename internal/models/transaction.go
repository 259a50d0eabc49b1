package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType enumerates the supported balance-affecting operations.
type TransactionType string

const (
	TransactionTypeP2P           TransactionType = "P2P"
	TransactionTypeExternalTopup TransactionType = "EXTERNAL_TOPUP"
	TransactionTypeExternalDebit TransactionType = "EXTERNAL_DEBIT"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeP2P, TransactionTypeExternalTopup, TransactionTypeExternalDebit:
		return true
	}
	return false
}

// Transaction is an immutable record of a committed balance change.
// For P2P both wallet references are set; EXTERNAL_TOPUP sets only the
// receiver; EXTERNAL_DEBIT sets only the sender.
type Transaction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primarykey" json:"id"`
	Type               TransactionType `gorm:"not null;index" json:"type"`
	Amount             float64         `gorm:"not null" json:"amount"`
	Description        string          `gorm:"not null" json:"description"`
	SenderWalletID     *uuid.UUID      `gorm:"type:uuid;index" json:"sender_wallet_id,omitempty"`
	ReceiverWalletID   *uuid.UUID      `gorm:"type:uuid;index" json:"receiver_wallet_id,omitempty"`
	ExternalWalletInfo string          `json:"external_wallet_info,omitempty"`
	ExternalReference  string          `json:"external_reference,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
