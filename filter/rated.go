package filter

import (
	"context"
	"sync"

	"github.com/rushteam/gamerec/core"
)

// RatedFilter 过滤掉用户已经评过分的游戏。
// 个性化策略（content / collaborative / hybrid）的结果不允许
// 出现用户已评分的条目，此过滤器是该不变量的统一执行点。
type RatedFilter struct {
	Catalog core.CatalogStore

	// 同一次请求内只查一次评分，结果缓存在节点里。
	mu    sync.Mutex
	cache map[int64]map[int64]struct{} // userID -> 已评分 gameID 集合
}

func NewRatedFilter(catalog core.CatalogStore) *RatedFilter {
	return &RatedFilter{
		Catalog: catalog,
		cache:   make(map[int64]map[int64]struct{}),
	}
}

func (f *RatedFilter) Name() string {
	return "filter.rated"
}

func (f *RatedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Catalog == nil || rctx == nil || !rctx.Authenticated() {
		return false, nil
	}

	rated, err := f.ratedSet(ctx, rctx.UserID)
	if err != nil {
		return false, err
	}
	_, ok := rated[item.ID]
	return ok, nil
}

func (f *RatedFilter) ratedSet(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	f.mu.Lock()
	if set, ok := f.cache[userID]; ok {
		f.mu.Unlock()
		return set, nil
	}
	f.mu.Unlock()

	ratings, err := f.Catalog.GetRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ratings))
	for _, r := range ratings {
		set[r.GameID] = struct{}{}
	}

	f.mu.Lock()
	f.cache[userID] = set
	f.mu.Unlock()
	return set, nil
}

// Invalidate 清除某用户的评分集缓存（评分变更后调用）。
func (f *RatedFilter) Invalidate(userID int64) {
	f.mu.Lock()
	delete(f.cache, userID)
	f.mu.Unlock()
}
