package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angushq/prospect-sync/internal/entity"
)

// OperatorAssigner maps a prospect's auto number to one operator from the
// roster. Round-robin keyed on the allocation sequence: given a frozen
// roster the choice is a pure function of the auto number. The roster is
// externally edited, so drift between assignments is accepted best-effort.
type OperatorAssigner struct {
	store RecordStore
	ttl   time.Duration

	mu        sync.Mutex
	roster    []entity.Operator
	fetchedAt time.Time
}

func NewOperatorAssigner(store RecordStore, rosterTTL time.Duration) *OperatorAssigner {
	return &OperatorAssigner{store: store, ttl: rosterTTL}
}

// ChooseOperator picks roster[(autoNumber-1) mod len(roster)] over the
// roster sorted by operator legacy code. An empty roster yields (nil, nil):
// assignment is best-effort, not an error.
func (a *OperatorAssigner) ChooseOperator(ctx context.Context, autoNumber int) (*entity.Operator, error) {
	roster, err := a.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, nil
	}

	idx := (autoNumber - 1) % len(roster)
	if idx < 0 {
		idx += len(roster)
	}

	op := roster[idx]
	return &op, nil
}

// loadRoster returns a sorted snapshot, reusing the last read within the
// TTL. The store gives no ordering guarantee, so sorting by operator legacy
// code is what makes the index stable.
func (a *OperatorAssigner) loadRoster(ctx context.Context) ([]entity.Operator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.roster != nil && a.ttl > 0 && time.Since(a.fetchedAt) < a.ttl {
		return a.roster, nil
	}

	roster, err := a.store.ListOperators(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(roster, func(i, j int) bool {
		return roster[i].LegacyCode < roster[j].LegacyCode
	})

	a.roster = roster
	a.fetchedAt = time.Now()
	return roster, nil
}
