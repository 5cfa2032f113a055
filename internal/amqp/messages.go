package amqp

import (
	"encoding/json"
	"time"
)

// BackupRequestMessage asks the worker to snapshot one profesor's data.
// It carries only the tenant id; the worker reads the full dataset from
// the database when it processes the message.
type BackupRequestMessage struct {
	ProfesorID string    `json:"profesor_id"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBackupRequestMessage(profesorID, reason string) *BackupRequestMessage {
	return &BackupRequestMessage{
		ProfesorID: profesorID,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

func (m *BackupRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BackupRequestMessageFromJSON(data []byte) (*BackupRequestMessage, error) {
	var msg BackupRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
