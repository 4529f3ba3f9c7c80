package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/gamerec/core"
)

// MemoryCatalog 是内存实现的 CatalogStore，用于测试/开发/原型。
// 真实部署中由业务方基于自己的数据库实现 core.CatalogStore。
type MemoryCatalog struct {
	mu           sync.RWMutex
	games        map[int64]*core.Game
	ratings      map[int64]map[int64]*core.GameRating // userID -> gameID -> rating
	interactions []*core.Interaction
	preferences  map[int64]*core.Preference
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		games:       make(map[int64]*core.Game),
		ratings:     make(map[int64]map[int64]*core.GameRating),
		preferences: make(map[int64]*core.Preference),
	}
}

var _ core.CatalogStore = (*MemoryCatalog)(nil)

func (c *MemoryCatalog) Name() string { return "memory-catalog" }

// AddGame 写入目录条目（测试/导入用，不属于 CatalogStore 接口）。
func (c *MemoryCatalog) AddGame(g *core.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[g.ID] = g
}

func (c *MemoryCatalog) GetGame(ctx context.Context, id int64) (*core.Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.games[id]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return g, nil
}

func (c *MemoryCatalog) ListGames(ctx context.Context, filter *core.GameFilter) ([]*core.Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Game, 0, len(c.games))
	for _, g := range c.games {
		if filter != nil && !matchFilter(g, filter) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func matchFilter(g *core.Game, f *core.GameFilter) bool {
	if len(f.Genres) > 0 && !intersects(g.Genres, f.Genres) {
		return false
	}
	if len(f.Platforms) > 0 && !intersects(g.Platforms, f.Platforms) {
		return false
	}
	if f.MinRating != 0 || f.MaxRating != 0 {
		if !g.HasRating() {
			return false
		}
		if g.Rating < f.MinRating || g.Rating > f.MaxRating {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func (c *MemoryCatalog) CountGames(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games), nil
}

func (c *MemoryCatalog) GetRatings(ctx context.Context, userID int64) ([]*core.GameRating, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	user := c.ratings[userID]
	out := make([]*core.GameRating, 0, len(user))
	for _, r := range user {
		out = append(out, r)
	}
	return out, nil
}

func (c *MemoryCatalog) AllRatings(ctx context.Context) ([]*core.GameRating, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.GameRating, 0)
	for _, user := range c.ratings {
		for _, r := range user {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *MemoryCatalog) UpsertRating(ctx context.Context, r *core.GameRating) error {
	if err := core.ValidateRatingScore(r.Score); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	user, ok := c.ratings[r.UserID]
	if !ok {
		user = make(map[int64]*core.GameRating)
		c.ratings[r.UserID] = user
	}
	if old, ok := user[r.GameID]; ok {
		old.Score = r.Score
		old.UpdatedAt = now
		return nil
	}
	stored := *r
	stored.CreatedAt = now
	stored.UpdatedAt = now
	user[r.GameID] = &stored

	if g, ok := c.games[r.GameID]; ok {
		g.RatingCount++
	}
	return nil
}

func (c *MemoryCatalog) GetInteractions(ctx context.Context, userID int64, kind core.InteractionKind) ([]*core.Interaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Interaction, 0)
	for _, in := range c.interactions {
		if in.UserID != userID {
			continue
		}
		if kind != "" && in.Kind != kind {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (c *MemoryCatalog) AllInteractions(ctx context.Context) ([]*core.Interaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Interaction, len(c.interactions))
	copy(out, c.interactions)
	return out, nil
}

func (c *MemoryCatalog) AppendInteraction(ctx context.Context, in *core.Interaction) error {
	if !in.Kind.Valid() {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"interaction kind not recognized: "+string(in.Kind))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *in
	if stored.Weight == 0 {
		stored.Weight = in.Kind.Weight()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}
	c.interactions = append(c.interactions, &stored)
	return nil
}

func (c *MemoryCatalog) GetPreference(ctx context.Context, userID int64) (*core.Preference, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.preferences[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return p, nil
}

func (c *MemoryCatalog) UpsertPreference(ctx context.Context, p *core.Preference) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferences[p.UserID] = p
	return nil
}

func (c *MemoryCatalog) UpdateGamePopularity(ctx context.Context, gameID int64, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.games[gameID]
	if !ok {
		return core.ErrStoreNotFound
	}
	g.PopularityScore = score
	return nil
}
