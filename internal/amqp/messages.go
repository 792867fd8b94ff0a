package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operations carried by sync messages.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage tells the worker to reconcile one transaction with
// the remote mirror. It carries only identifiers; the worker fetches the
// full transaction from the database when upserting.
type TransactionSyncMessage struct {
	MessageID     string    `json:"message_id"`
	Op            string    `json:"op"`
	UserID        string    `json:"user_id"`
	TransactionID int64     `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewUpsertMessage(userID string, transactionID int64) *TransactionSyncMessage {
	return newMessage(OpUpsert, userID, transactionID)
}

func NewDeleteMessage(userID string, transactionID int64) *TransactionSyncMessage {
	return newMessage(OpDelete, userID, transactionID)
}

func newMessage(op, userID string, transactionID int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		MessageID:     uuid.NewString(),
		Op:            op,
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionSyncMessage) Validate() error {
	if m.Op != OpUpsert && m.Op != OpDelete {
		return fmt.Errorf("unknown op %q", m.Op)
	}
	if m.UserID == "" {
		return fmt.Errorf("missing user id")
	}
	if m.TransactionID <= 0 {
		return fmt.Errorf("invalid transaction id %d", m.TransactionID)
	}
	return nil
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
