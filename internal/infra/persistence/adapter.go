package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/reward"
	"cart-engine/internal/infra"
	"cart-engine/internal/infra/kv"
	"cart-engine/internal/usecase"
)

const (
	linesSuffix   = "lines"
	rewardSuffix  = "reward"
	fetchedSuffix = "fetched"

	fetchedValue = "true"
)

// Adapter stores a session's cart under three keys:
//
//	<prefix>:<session>:lines    JSON array of lines
//	<prefix>:<session>:reward   JSON {applied, value}
//	<prefix>:<session>:fetched  "true" once the account cart was merged
//
// The prefix carries the schema version, so data written by another version
// is simply not found.
type Adapter struct {
	store  kv.Store
	prefix string
	logger *slog.Logger
}

func NewAdapter(store kv.Store, prefix string, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		prefix: strings.TrimSuffix(prefix, ":"),
		logger: logger,
	}
}

var _ usecase.CartPersistence = (*Adapter)(nil)

func (a *Adapter) key(sessionID, suffix string) string {
	return a.prefix + ":" + sessionID + ":" + suffix
}

// Load reports false when nothing usable is stored. Unreadable data is
// logged and treated as absent.
func (a *Adapter) Load(ctx context.Context, sessionID string) (cart.Snapshot, bool) {
	linesKey, rewardKey := a.key(sessionID, linesSuffix), a.key(sessionID, rewardSuffix)

	values, err := a.store.MGet(ctx, linesKey, rewardKey)
	if err != nil {
		a.logger.Warn("failed to read persisted cart", "session_id", sessionID, "error", err.Error())
		return cart.Snapshot{}, false
	}

	rawLines, hasLines := values[linesKey]
	rawReward, hasReward := values[rewardKey]
	if !hasLines && !hasReward {
		return cart.Snapshot{}, false
	}

	var snapshot cart.Snapshot
	if hasLines {
		snapshot.Lines = a.decodeLines(sessionID, rawLines)
	}
	if hasReward {
		snapshot.Reward = a.decodeReward(sessionID, rawReward)
	}
	if len(snapshot.Lines) == 0 && !snapshot.Reward.Applied {
		return cart.Snapshot{}, false
	}
	return snapshot, true
}

func (a *Adapter) decodeLines(sessionID, raw string) []cart.Line {
	var lines []cart.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		a.logger.Warn("discarding unreadable cart lines", "session_id", sessionID, "error", err.Error())
		return nil
	}

	normalized := cart.Normalize(lines)
	if dropped := len(lines) - len(normalized); dropped > 0 {
		a.logger.Warn("dropped invalid or duplicate cart lines", "session_id", sessionID, "dropped", dropped)
	}
	return normalized
}

func (a *Adapter) decodeReward(sessionID, raw string) reward.State {
	var state reward.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		a.logger.Warn("discarding unreadable reward", "session_id", sessionID, "error", err.Error())
		return reward.State{}
	}
	if state.Value.IsNegative() {
		a.logger.Warn("discarding negative reward", "session_id", sessionID)
		return reward.State{}
	}
	return state
}

// Save replaces the lines and reward in one atomic write.
func (a *Adapter) Save(ctx context.Context, sessionID string, snapshot cart.Snapshot) error {
	lines := snapshot.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	rawLines, err := json.Marshal(lines)
	if err != nil {
		return infra.WrapRepoErr(a.logger, infra.KindStorageFailure, "encode cart lines", err)
	}
	rawReward, err := json.Marshal(snapshot.Reward)
	if err != nil {
		return infra.WrapRepoErr(a.logger, infra.KindStorageFailure, "encode reward", err)
	}

	err = a.store.Apply(ctx,
		kv.Set(a.key(sessionID, linesSuffix), string(rawLines)),
		kv.Set(a.key(sessionID, rewardSuffix), string(rawReward)),
	)
	if err != nil {
		return infra.WrapRepoErr(a.logger, infra.KindStorageFailure, "save cart", err)
	}
	return nil
}

func (a *Adapter) Clear(ctx context.Context, sessionID string) error {
	err := a.store.Apply(ctx,
		kv.Del(a.key(sessionID, linesSuffix)),
		kv.Del(a.key(sessionID, rewardSuffix)),
		kv.Del(a.key(sessionID, fetchedSuffix)),
	)
	if err != nil {
		return infra.WrapRepoErr(a.logger, infra.KindStorageFailure, "clear cart", err)
	}
	return nil
}

func (a *Adapter) MarkFetched(ctx context.Context, sessionID string) error {
	if err := a.store.Apply(ctx, kv.Set(a.key(sessionID, fetchedSuffix), fetchedValue)); err != nil {
		return infra.WrapRepoErr(a.logger, infra.KindStorageFailure, "mark cart fetched", err)
	}
	return nil
}

func (a *Adapter) Fetched(ctx context.Context, sessionID string) bool {
	key := a.key(sessionID, fetchedSuffix)
	values, err := a.store.MGet(ctx, key)
	if err != nil {
		a.logger.Warn("failed to read fetched marker", "session_id", sessionID, "error", err.Error())
		return false
	}
	return values[key] == fetchedValue
}
