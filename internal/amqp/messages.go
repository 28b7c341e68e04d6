package amqp

import (
	"encoding/json"
	"time"
)

// ExportRequestMessage asks the export worker to rebuild the spreadsheet
// export. It carries only the reason; the worker reads the current book
// from storage, so stale requests collapse into the latest state.
type ExportRequestMessage struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportRequest(reason string) *ExportRequestMessage {
	return &ExportRequestMessage{
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportRequestFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
