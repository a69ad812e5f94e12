package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names (должны совпадать с downstream-потребителями)
const (
	StreamPlacesImported = "stream:places:imported"
)

// ImportCompletedEvent - событие об успешном bulk-импорте мест
type ImportCompletedEvent struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Count      int       `json:"count"`
	ImportedAt time.Time `json:"imported_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
