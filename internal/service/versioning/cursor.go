package versioning

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"tailor/internal/domain"
	"tailor/internal/domain/repositories"
)

// cursorPayload is the wire form of a history cursor. Clients treat the
// encoded string as opaque.
type cursorPayload struct {
	CreatedAt time.Time `json:"t"`
	ID        string    `json:"id"`
}

// encodeCursor encodes a (createdAt, id) position as an opaque token.
func encodeCursor(c repositories.HistoryCursor) string {
	data, _ := json.Marshal(cursorPayload{CreatedAt: c.CreatedAt, ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCursor decodes an opaque cursor token. Malformed tokens are a
// validation error, not a server fault.
func decodeCursor(token string) (*repositories.HistoryCursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}

	var payload cursorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}
	if payload.ID == "" || payload.CreatedAt.IsZero() {
		return nil, fmt.Errorf("malformed cursor: %w", domain.ErrValidation)
	}

	return &repositories.HistoryCursor{CreatedAt: payload.CreatedAt, ID: payload.ID}, nil
}
