package profile

import (
    "context"
    "database/sql"
    "errors"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
    "github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

// Store is the read-only profile access the matching engine depends on
type Store interface {
    GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
    ListActiveProfiles(ctx context.Context, excludeID uuid.UUID) ([]*Profile, error)
}

type postgresStore struct {
    db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
    return &postgresStore{db: db}
}

// "values" is a reserved word in Postgres, hence the quoting.
const profileColumns = `id, display_name, "values", interests, city, age, active, created_at, updated_at`

func (s *postgresStore) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
    query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

    row := s.db.QueryRowxContext(ctx, query, id)
    p, err := scanProfile(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrProfileNotFound
    }
    return p, err
}

func (s *postgresStore) ListActiveProfiles(ctx context.Context, excludeID uuid.UUID) ([]*Profile, error) {
    query := `SELECT ` + profileColumns + ` FROM profiles WHERE active = TRUE AND id <> $1`

    rows, err := s.db.QueryxContext(ctx, query, excludeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var profiles []*Profile
    for rows.Next() {
        p, err := scanProfile(rows)
        if err != nil {
            return nil, err
        }
        profiles = append(profiles, p)
    }

    return profiles, rows.Err()
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanProfile reads one profile row; the string-array columns need pq.Array
// so they cannot go through StructScan.
func scanProfile(row rowScanner) (*Profile, error) {
    var p Profile
    err := row.Scan(
        &p.ID, &p.DisplayName,
        pq.Array(&p.Values), pq.Array(&p.Interests),
        &p.City, &p.Age, &p.Active,
        &p.CreatedAt, &p.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &p, nil
}
