package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/internal/orderstate"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
	"github.com/opticore/lenscard-backend/pkg/metrics"
)

// RecordLoader fetches a persisted record and normalizes it. The fetch is the
// only suspending operation in a session's lifetime.
type RecordLoader interface {
	LoadCanonical(ctx context.Context, prescriptionNo string) (*normalize.CanonicalRecord, error)
}

// Snapshot is the read view of one session handed to callers.
type Snapshot struct {
	ID         uuid.UUID
	Loading    bool
	State      orderstate.State
	Record     *normalize.CanonicalRecord
	LastActive time.Time
}

// Service owns the in-memory order sessions. Each session's state is guarded
// by its own mutex; events apply atomically, one at a time.
type Service interface {
	Open(ctx context.Context) (Snapshot, error)
	Load(ctx context.Context, id uuid.UUID, prescriptionNo string) (Snapshot, error)
	Apply(ctx context.Context, id uuid.UUID, ev orderstate.Event) (Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Sweep(ctx context.Context) int
}

type session struct {
	id         uuid.UUID
	mu         sync.Mutex
	state      orderstate.State
	loading    bool
	record     *normalize.CanonicalRecord
	lastActive time.Time
}

type service struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	loader  RecordLoader
	logg    *logger.Logger
	recalcs *metrics.RecalcMetrics
	idleTTL time.Duration
	now     func() time.Time
}

// NewService builds the session registry.
func NewService(loader RecordLoader, logg *logger.Logger, recalcs *metrics.RecalcMetrics, idleTTL time.Duration) (Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("record loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if idleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	return &service{
		sessions: make(map[uuid.UUID]*session),
		loader:   loader,
		logg:     logg,
		recalcs:  recalcs,
		idleTTL:  idleTTL,
		now:      time.Now,
	}, nil
}

func (s *service) Open(ctx context.Context) (Snapshot, error) {
	sess := &session{
		id:         uuid.New(),
		state:      orderstate.NewState(),
		lastActive: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logg.Info(s.logg.WithSessionID(ctx, sess.id.String()), "order session opened")
	return snapshotOf(sess), nil
}

// Load hydrates a session from storage. The loading flag is set before the
// fetch and cleared on every exit path; while it is up, every event against
// this session is refused.
func (s *service) Load(ctx context.Context, id uuid.UUID, prescriptionNo string) (Snapshot, error) {
	sess, err := s.find(id)
	if err != nil {
		return Snapshot{}, err
	}
	if prescriptionNo == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "prescription number is required")
	}

	sess.mu.Lock()
	if sess.loading {
		sess.mu.Unlock()
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeConflict, "a record load is already in progress")
	}
	sess.loading = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.loading = false
		sess.mu.Unlock()
	}()

	ctx = s.logg.WithSessionID(ctx, sess.id.String())
	ctx = s.logg.WithPrescriptionNo(ctx, prescriptionNo)

	record, err := s.loader.LoadCanonical(ctx, prescriptionNo)
	if err != nil {
		s.logg.Error(ctx, "record load failed", err)
		return Snapshot{}, err
	}

	withIPD := *record
	withIPD.Prescription.IPD = deriveRecordIPD(withIPD)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, _, err := orderstate.Reduce(sess.state, orderstate.RecordLoaded{Record: withIPD}, false)
	if err != nil {
		return Snapshot{}, err
	}
	sess.state = next
	sess.record = &withIPD
	sess.lastActive = s.now()

	s.logg.Info(ctx, "record loaded into session")
	return snapshotOf(sess), nil
}

// Apply runs one event through the reducer. The recalculation decision is
// counted whether or not the event succeeded.
func (s *service) Apply(ctx context.Context, id uuid.UUID, ev orderstate.Event) (Snapshot, error) {
	sess, err := s.find(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, decision, err := orderstate.Reduce(sess.state, ev, sess.loading)
	s.recalcs.IncDecision(string(decision))
	if err != nil {
		return Snapshot{}, err
	}

	sess.state = next
	if _, cleared := ev.(orderstate.Cleared); cleared {
		sess.record = nil
	}
	sess.lastActive = s.now()

	ctx = s.logg.WithSessionID(ctx, sess.id.String())
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"event":    orderstate.Name(ev),
		"decision": string(decision),
	}), "session event applied")
	return snapshotOf(sess), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	sess, err := s.find(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(sess), nil
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (s *service) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := !sess.loading && sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logg.Info(ctx, fmt.Sprintf("swept %d idle order sessions", removed))
	}
	return removed
}

// StartJanitor sweeps idle sessions in the background until ctx is done.
func StartJanitor(ctx context.Context, svc Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				svc.Sweep(ctx)
			}
		}
	}()
}

func (s *service) find(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return sess, nil
}

func snapshotOf(sess *session) Snapshot {
	return Snapshot{
		ID:         sess.id,
		Loading:    sess.loading,
		State:      sess.state,
		Record:     sess.record,
		LastActive: sess.lastActive,
	}
}

// deriveRecordIPD pulls the first right and left half-distances out of the
// eye records and combines them.
func deriveRecordIPD(record normalize.CanonicalRecord) string {
	var rpd, lpd string
	for _, eye := range record.Eyes {
		if rpd == "" && eye.Rpd != "" {
			rpd = eye.Rpd
		}
		if lpd == "" && eye.Lpd != "" {
			lpd = eye.Lpd
		}
	}
	return orderstate.DeriveIPD(rpd, lpd, record.Prescription.IPD)
}
