package matching

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"
    "github.com/lib/pq"

    "github.com/nurapp/nur-backend/internal/chat"
    "github.com/nurapp/nur-backend/internal/profile"
)

var (
    // ErrDependency wraps store or provisioning failures; callers may retry.
    ErrDependency = errors.New("matching dependency unavailable")
    // ErrNotFound covers unknown match records and unknown users.
    ErrNotFound = errors.New("not found")
    // ErrUnauthorized is returned when the decider is not a party to the record.
    ErrUnauthorized = errors.New("not a party to this match")
    // ErrAlreadyDecided enforces the sticky-decision rule: the first stored
    // decision per side is final.
    ErrAlreadyDecided = errors.New("decision already recorded")
)

// Config carries the tunables of the matching engine
type Config struct {
    Scoring      ScoringConfig
    Selection    SelectorConfig
    AllowRematch bool // true: a pair may be suggested again on a later day
    StoreTimeout time.Duration
}

func DefaultConfig() Config {
    return Config{
        Scoring:      DefaultScoringConfig(),
        Selection:    DefaultSelectorConfig(),
        AllowRematch: false,
        StoreTimeout: 5 * time.Second,
    }
}

// TodayMatch is one entry of a user's daily batch, joined with fresh
// candidate profile data for display. The score is the one persisted at
// generation time and is never recomputed.
type TodayMatch struct {
    Record       *MatchRecord
    Candidate    *profile.Summary
    SharedValues []string
}

// DecisionResult is the outcome of recording one side's decision
type DecisionResult struct {
    Record      *MatchRecord
    NewlyMutual bool
    ChatChannel *chat.Channel
}

type Service interface {
    // GetTodaysMatches returns the user's batch for the current day,
    // generating and persisting it on first access.
    GetTodaysMatches(ctx context.Context, userID uuid.UUID) ([]*TodayMatch, error)
    // RecordDecision stores one side's interest or pass and performs the
    // mutual-match transition when both sides are interested.
    RecordDecision(ctx context.Context, recordID, userID uuid.UUID, decision Decision) (*DecisionResult, error)
    // GenerateDailyBatches pre-generates today's batch for every active
    // profile. Purely an optimization for the scheduled job; lazy
    // generation behaves identically without it.
    GenerateDailyBatches(ctx context.Context) error
}

type service struct {
    repo        Repository
    profiles    profile.Store
    provisioner chat.Provisioner
    locker      GenerationLocker
    selector    *Selector
    clock       Clock
    cfg         Config
}

func NewService(repo Repository, profiles profile.Store, provisioner chat.Provisioner, locker GenerationLocker, clock Clock, cfg Config) Service {
    if locker == nil {
        locker = NewNoopLocker()
    }
    return &service{
        repo:        repo,
        profiles:    profiles,
        provisioner: provisioner,
        locker:      locker,
        selector:    NewSelector(NewScorer(cfg.Scoring), cfg.Selection),
        clock:       clock,
        cfg:         cfg,
    }
}

func (s *service) GetTodaysMatches(ctx context.Context, userID uuid.UUID) ([]*TodayMatch, error) {
    ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
    defer cancel()

    day := s.clock.Today()

    user, err := s.profiles.GetProfile(ctx, userID)
    if errors.Is(err, profile.ErrProfileNotFound) {
        return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
    }
    if err != nil {
        return nil, dependency("load profile", err)
    }

    records, err := s.repo.FindRecordsForUserAndDay(ctx, userID, day)
    if err != nil {
        return nil, dependency("read match records", err)
    }
    if len(records) > 0 {
        return s.joinCandidates(ctx, user, records)
    }

    // An inactive user gets no batch; the day stays empty for them
    if !user.Active {
        return []*TodayMatch{}, nil
    }

    acquired, err := s.locker.Acquire(ctx, userID, day)
    if err != nil {
        return nil, dependency("acquire generation lock", err)
    }
    if !acquired {
        // Another request is generating right now; return whatever it has
        // persisted so far (possibly nothing, the client will refetch).
        records, err := s.repo.FindRecordsForUserAndDay(ctx, userID, day)
        if err != nil {
            return nil, dependency("read match records", err)
        }
        return s.joinCandidates(ctx, user, records)
    }
    defer s.locker.Release(ctx, userID, day)

    records, err = s.generateBatch(ctx, user, day)
    if err != nil {
        return nil, err
    }
    return s.joinCandidates(ctx, user, records)
}

// generateBatch performs the Uninitialized -> Generated transition for
// (user, day): score the pool, keep the top of the ranking and persist the
// whole batch in one transaction.
func (s *service) generateBatch(ctx context.Context, user *profile.Profile, day string) ([]*MatchRecord, error) {
    pool, err := s.profiles.ListActiveProfiles(ctx, user.ID)
    if err != nil {
        return nil, dependency("list active profiles", err)
    }

    exclude := make(map[uuid.UUID]bool)
    if !s.cfg.AllowRematch {
        // Default policy: anyone this user has ever been paired with stays
        // excluded, so a pass (or an ignored match) is final across days.
        paired, err := s.repo.ListPairedUserIDs(ctx, user.ID)
        if err != nil {
            return nil, dependency("list prior pairs", err)
        }
        for _, id := range paired {
            exclude[id] = true
        }
    }

    selected := s.selector.SelectCandidates(user, pool, exclude)
    if len(selected) == 0 {
        // Valid terminal state for the day, nothing is written
        return nil, nil
    }

    records := make([]*MatchRecord, 0, len(selected))
    for _, candidate := range selected {
        rec := NewMatchRecord(user.ID, candidate.Profile.ID, day, candidate.Score)
        rec.Candidate = candidate.Profile.Summarize()
        records = append(records, rec)
        RecordCompatibilityScore(candidate.Score)
    }

    if err := s.repo.InsertBatch(ctx, records); err != nil {
        if isUniqueViolation(err) {
            // A concurrent generation won the race; its batch is the batch.
            existing, err := s.repo.FindRecordsForUserAndDay(ctx, user.ID, day)
            if err != nil {
                return nil, dependency("read match records", err)
            }
            return existing, nil
        }
        return nil, dependency("persist match batch", err)
    }

    RecordBatchGenerated(len(records))
    return records, nil
}

func (s *service) RecordDecision(ctx context.Context, recordID, userID uuid.UUID, decision Decision) (*DecisionResult, error) {
    ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
    defer cancel()

    record, err := s.repo.GetRecord(ctx, recordID)
    if errors.Is(err, ErrRecordNotFound) {
        return nil, fmt.Errorf("%w: match record %s", ErrNotFound, recordID)
    }
    if err != nil {
        return nil, dependency("read match record", err)
    }

    if !record.IsParty(userID) {
        return nil, ErrUnauthorized
    }

    interested := decision == DecisionInterested
    applied, err := s.repo.SetInterest(ctx, recordID, record.UserA == userID, interested)
    if err != nil {
        return nil, dependency("store decision", err)
    }
    if !applied {
        return nil, ErrAlreadyDecided
    }
    RecordDecision(decision)

    // Re-read so the mutual check sees the other side's latest write even
    // when both decisions land at the same time.
    record, err = s.repo.GetRecord(ctx, recordID)
    if err != nil {
        return nil, dependency("re-read match record", err)
    }

    result := &DecisionResult{Record: record}

    if bothInterested(record) {
        transitioned, err := s.repo.MarkMutual(ctx, recordID)
        if err != nil {
            return nil, dependency("mark mutual", err)
        }
        record.Mutual = true
        if transitioned {
            result.NewlyMutual = true
            RecordMutualMatch()

            channel, err := s.provisioner.ProvisionChannel(ctx, record.UserA, record.UserB)
            if err != nil {
                // The mutual flag is durable; provisioning is idempotent
                // and can be retried by the caller.
                return nil, dependency("provision chat channel", err)
            }
            result.ChatChannel = channel
        }
    }

    return result, nil
}

func (s *service) GenerateDailyBatches(ctx context.Context) error {
    active, err := s.profiles.ListActiveProfiles(ctx, uuid.Nil)
    if err != nil {
        return dependency("list active profiles", err)
    }

    for _, p := range active {
        if _, err := s.GetTodaysMatches(ctx, p.ID); err != nil {
            log.Printf("batch pre-generation failed for user %s: %v", p.ID, err)
        }
    }

    return nil
}

// joinCandidates attaches fresh profile summaries and shared values to the
// stored records. A candidate whose profile has since disappeared is kept
// without display data rather than dropped from the audit trail.
func (s *service) joinCandidates(ctx context.Context, user *profile.Profile, records []*MatchRecord) ([]*TodayMatch, error) {
    matches := make([]*TodayMatch, 0, len(records))
    for _, rec := range records {
        match := &TodayMatch{Record: rec}

        other, err := s.profiles.GetProfile(ctx, rec.OtherUser(user.ID))
        if err == nil {
            match.Candidate = other.Summarize()
            match.SharedValues = SharedValues(user, other)
        } else if !errors.Is(err, profile.ErrProfileNotFound) {
            return nil, dependency("load candidate profile", err)
        }

        matches = append(matches, match)
    }
    return matches, nil
}

func bothInterested(r *MatchRecord) bool {
    return r.InterestA != nil && *r.InterestA && r.InterestB != nil && *r.InterestB
}

func dependency(op string, err error) error {
    return fmt.Errorf("%w: %s: %v", ErrDependency, op, err)
}

func isUniqueViolation(err error) bool {
    var pqErr *pq.Error
    return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
