package matching

import (
    "context"
    "database/sql"
    "errors"

    "github.com/google/uuid"
    "github.com/jmoiron/sqlx"
)

// ErrRecordNotFound is the repository-level miss; the service wraps it
// into ErrNotFound for callers.
var ErrRecordNotFound = errors.New("match record not found")

// Repository persists match records. Decision and mutual updates are
// conditional writes so concurrent calls cannot overwrite each other; the
// boolean results report whether this call performed the transition.
type Repository interface {
    FindRecordsForUserAndDay(ctx context.Context, userID uuid.UUID, day string) ([]*MatchRecord, error)
    InsertBatch(ctx context.Context, records []*MatchRecord) error
    GetRecord(ctx context.Context, id uuid.UUID) (*MatchRecord, error)
    SetInterest(ctx context.Context, recordID uuid.UUID, sideA bool, interested bool) (bool, error)
    MarkMutual(ctx context.Context, recordID uuid.UUID) (bool, error)
    ListPairedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type postgresRepository struct {
    db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
    return &postgresRepository{db: db}
}

const recordColumns = `id, user_a, user_b, to_char(match_date, 'YYYY-MM-DD') AS match_date, score, interest_a, interest_b, mutual, created_at`

func (r *postgresRepository) FindRecordsForUserAndDay(ctx context.Context, userID uuid.UUID, day string) ([]*MatchRecord, error) {
    query := `
        SELECT ` + recordColumns + `
        FROM match_records
        WHERE (user_a = $1 OR user_b = $1) AND match_date = $2::date
        ORDER BY score DESC, id ASC
    `

    var records []*MatchRecord
    if err := r.db.SelectContext(ctx, &records, query, userID, day); err != nil {
        return nil, err
    }
    return records, nil
}

// InsertBatch writes a daily batch in a single transaction so a failure
// cannot leave a half-written batch behind. The (pair, day) unique index
// rejects the whole batch if a concurrent generation got there first.
func (r *postgresRepository) InsertBatch(ctx context.Context, records []*MatchRecord) error {
    if len(records) == 0 {
        return nil
    }

    tx, err := r.db.BeginTxx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    insert := `
        INSERT INTO match_records (id, user_a, user_b, match_date, score)
        VALUES ($1, $2, $3, $4::date, $5)
        RETURNING created_at
    `

    for _, rec := range records {
        err := tx.QueryRowxContext(ctx, insert,
            rec.ID, rec.UserA, rec.UserB, rec.MatchDate, rec.Score,
        ).Scan(&rec.CreatedAt)
        if err != nil {
            return err
        }
    }

    return tx.Commit()
}

func (r *postgresRepository) GetRecord(ctx context.Context, id uuid.UUID) (*MatchRecord, error) {
    query := `SELECT ` + recordColumns + ` FROM match_records WHERE id = $1`

    var rec MatchRecord
    err := r.db.GetContext(ctx, &rec, query, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrRecordNotFound
    }
    if err != nil {
        return nil, err
    }
    return &rec, nil
}

// SetInterest records one side's decision. The IS NULL guard makes the
// first decision sticky: a second write from the same side changes nothing
// and returns false.
func (r *postgresRepository) SetInterest(ctx context.Context, recordID uuid.UUID, sideA bool, interested bool) (bool, error) {
    column := "interest_b"
    if sideA {
        column = "interest_a"
    }

    query := `
        UPDATE match_records
        SET ` + column + ` = $2
        WHERE id = $1 AND ` + column + ` IS NULL
    `

    result, err := r.db.ExecContext(ctx, query, recordID, interested)
    if err != nil {
        return false, err
    }

    rows, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return rows > 0, nil
}

// MarkMutual flips the mutual flag once both interests are positive. The
// mutual = FALSE guard means exactly one of two racing decision writes
// observes the transition.
func (r *postgresRepository) MarkMutual(ctx context.Context, recordID uuid.UUID) (bool, error) {
    query := `
        UPDATE match_records
        SET mutual = TRUE
        WHERE id = $1 AND mutual = FALSE
              AND interest_a = TRUE AND interest_b = TRUE
    `

    result, err := r.db.ExecContext(ctx, query, recordID)
    if err != nil {
        return false, err
    }

    rows, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return rows > 0, nil
}

// ListPairedUserIDs returns everyone who has ever shared a match record
// with the user, on any day. Used to keep prior pairs out of new batches.
func (r *postgresRepository) ListPairedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
    query := `
        SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END
        FROM match_records
        WHERE user_a = $1 OR user_b = $1
    `

    var ids []uuid.UUID
    if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
        return nil, err
    }
    return ids, nil
}
