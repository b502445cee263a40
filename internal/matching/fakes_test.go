package matching_test

import (
    "context"
    "errors"
    "fmt"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/nurapp/nur-backend/internal/chat"
    "github.com/nurapp/nur-backend/internal/matching"
    "github.com/nurapp/nur-backend/internal/profile"
)

var errStoreDown = errors.New("store down")

// uid builds a deterministic UUID so tests can rely on tie-break ordering
func uid(n byte) uuid.UUID {
    return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-0000000000%02x", n))
}

func mkProfile(n byte, values []string, city string, age int) *profile.Profile {
    return &profile.Profile{
        ID:          uid(n),
        DisplayName: fmt.Sprintf("user-%d", n),
        Values:      values,
        City:        city,
        Age:         age,
        Active:      true,
    }
}

// fakeClock pins the calendar day

type fakeClock struct {
    day string
}

func (c *fakeClock) Now() time.Time { return time.Now() }
func (c *fakeClock) Today() string  { return c.day }

// fakeProfiles is an in-memory profile store

type fakeProfiles struct {
    profiles map[uuid.UUID]*profile.Profile
    err      error
}

func newFakeProfiles(profiles ...*profile.Profile) *fakeProfiles {
    s := &fakeProfiles{profiles: make(map[uuid.UUID]*profile.Profile)}
    for _, p := range profiles {
        s.profiles[p.ID] = p
    }
    return s
}

func (s *fakeProfiles) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
    if s.err != nil {
        return nil, s.err
    }
    p, ok := s.profiles[id]
    if !ok {
        return nil, profile.ErrProfileNotFound
    }
    return p, nil
}

func (s *fakeProfiles) ListActiveProfiles(ctx context.Context, excludeID uuid.UUID) ([]*profile.Profile, error) {
    if s.err != nil {
        return nil, s.err
    }
    var out []*profile.Profile
    for _, p := range s.profiles {
        if p.ID != excludeID && p.Active {
            out = append(out, p)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
    return out, nil
}

// fakeRepo is an in-memory match record store with the same conditional
// write semantics as the Postgres repository

type fakeRepo struct {
    mu      sync.Mutex
    records map[uuid.UUID]*matching.MatchRecord
    inserts int
    err     error
}

func newFakeRepo() *fakeRepo {
    return &fakeRepo{records: make(map[uuid.UUID]*matching.MatchRecord)}
}

func copyRecord(r *matching.MatchRecord) *matching.MatchRecord {
    c := *r
    if r.InterestA != nil {
        v := *r.InterestA
        c.InterestA = &v
    }
    if r.InterestB != nil {
        v := *r.InterestB
        c.InterestB = &v
    }
    c.Candidate = nil
    return &c
}

func (r *fakeRepo) FindRecordsForUserAndDay(ctx context.Context, userID uuid.UUID, day string) ([]*matching.MatchRecord, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return nil, r.err
    }
    var out []*matching.MatchRecord
    for _, rec := range r.records {
        if rec.MatchDate == day && rec.IsParty(userID) {
            out = append(out, copyRecord(rec))
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].Score != out[j].Score {
            return out[i].Score > out[j].Score
        }
        return out[i].ID.String() < out[j].ID.String()
    })
    return out, nil
}

func (r *fakeRepo) InsertBatch(ctx context.Context, records []*matching.MatchRecord) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return r.err
    }
    for _, rec := range records {
        for _, existing := range r.records {
            if existing.UserA == rec.UserA && existing.UserB == rec.UserB && existing.MatchDate == rec.MatchDate {
                return fmt.Errorf("duplicate pair %s/%s on %s", rec.UserA, rec.UserB, rec.MatchDate)
            }
        }
    }
    for _, rec := range records {
        rec.CreatedAt = time.Now()
        r.records[rec.ID] = copyRecord(rec)
    }
    r.inserts++
    return nil
}

func (r *fakeRepo) GetRecord(ctx context.Context, id uuid.UUID) (*matching.MatchRecord, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return nil, r.err
    }
    rec, ok := r.records[id]
    if !ok {
        return nil, matching.ErrRecordNotFound
    }
    return copyRecord(rec), nil
}

func (r *fakeRepo) SetInterest(ctx context.Context, recordID uuid.UUID, sideA bool, interested bool) (bool, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return false, r.err
    }
    rec, ok := r.records[recordID]
    if !ok {
        return false, nil
    }
    if sideA {
        if rec.InterestA != nil {
            return false, nil
        }
        rec.InterestA = &interested
    } else {
        if rec.InterestB != nil {
            return false, nil
        }
        rec.InterestB = &interested
    }
    return true, nil
}

func (r *fakeRepo) MarkMutual(ctx context.Context, recordID uuid.UUID) (bool, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return false, r.err
    }
    rec, ok := r.records[recordID]
    if !ok || rec.Mutual {
        return false, nil
    }
    if rec.InterestA == nil || !*rec.InterestA || rec.InterestB == nil || !*rec.InterestB {
        return false, nil
    }
    rec.Mutual = true
    return true, nil
}

func (r *fakeRepo) ListPairedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.err != nil {
        return nil, r.err
    }
    var out []uuid.UUID
    for _, rec := range r.records {
        if rec.IsParty(userID) {
            out = append(out, rec.OtherUser(userID))
        }
    }
    return out, nil
}

// fakeProvisioner counts channel creations

type fakeProvisioner struct {
    mu    sync.Mutex
    calls int
    err   error
}

func (p *fakeProvisioner) ProvisionChannel(ctx context.Context, userA, userB uuid.UUID) (*chat.Channel, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.err != nil {
        return nil, p.err
    }
    p.calls++
    return &chat.Channel{ID: uuid.New(), UserA: userA, UserB: userB, CreatedAt: time.Now()}, nil
}
