package memory

import (
	"time"

	"ai-therapy-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// TurnState is the cached conversational snapshot for an active chat
// session, used to seed progress metadata on the next turn without a
// database round trip.
type TurnState struct {
	SessionID      string
	LastAnalysis   *entity.Analysis
	MessageCount   int
	LastActivityAt time.Time
}

type TurnStateRepository struct {
	cache *cache.Cache
}

func NewTurnStateRepository() *TurnStateRepository {
	// Default expiration of 1 hour, purging expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TurnStateRepository{
		cache: c,
	}
}

func (r *TurnStateRepository) Save(state *TurnState) {
	r.cache.Set(state.SessionID, state, cache.DefaultExpiration)
}

func (r *TurnStateRepository) Get(sessionID string) (*TurnState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*TurnState), true
	}
	return nil, false
}

func (r *TurnStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
