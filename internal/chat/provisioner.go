package chat

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
)

// Provisioner creates chat channels for mutual matches. ProvisionChannel is
// idempotent: calling it twice for the same pair returns the same channel,
// so a retried mutual-match transition cannot create duplicates.
type Provisioner interface {
    ProvisionChannel(ctx context.Context, userA, userB uuid.UUID) (*Channel, error)
}

type postgresProvisioner struct {
    db *sqlx.DB
}

func NewPostgresProvisioner(db *sqlx.DB) Provisioner {
    return &postgresProvisioner{db: db}
}

func (p *postgresProvisioner) ProvisionChannel(ctx context.Context, userA, userB uuid.UUID) (*Channel, error) {
    // Store the pair in canonical order so the unique constraint holds
    // regardless of which side triggered the match.
    if userB.String() < userA.String() {
        userA, userB = userB, userA
    }

    channel := &Channel{ID: uuid.New(), UserA: userA, UserB: userB}

    insert := `
        INSERT INTO chat_channels (id, user_a, user_b)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_a, user_b) DO NOTHING
        RETURNING id, created_at
    `

    err := p.db.QueryRowxContext(ctx, insert, channel.ID, userA, userB).
        Scan(&channel.ID, &channel.CreatedAt)
    if err == nil {
        return channel, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return nil, fmt.Errorf("failed to create chat channel: %w", err)
    }

    // Conflict: the channel already exists, return it
    query := `
        SELECT id, user_a, user_b, created_at
        FROM chat_channels
        WHERE user_a = $1 AND user_b = $2
    `

    var existing Channel
    if err := p.db.GetContext(ctx, &existing, query, userA, userB); err != nil {
        return nil, fmt.Errorf("failed to load existing chat channel: %w", err)
    }
    return &existing, nil
}
