package chat

import (
    "time"

    "github.com/google/uuid"
)

// Channel is the conversation shell created for a mutual match. Message
// storage and delivery live in a separate service; matching only needs the
// channel to exist and to hand its ID back to the clients.
type Channel struct {
    ID        uuid.UUID `json:"id" db:"id"`
    UserA     uuid.UUID `json:"user_a" db:"user_a"`
    UserB     uuid.UUID `json:"user_b" db:"user_b"`
    CreatedAt time.Time `json:"created_at" db:"created_at"`
}
