package recall

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

// PopularKey 是热门榜单在 KeyValueStore 中的有序集合 key。
const PopularKey = "hot:games"

// Popular 是热门召回源，也是所有策略的最终兜底。
//
// 排序规则：评分降序，评分条数降序，ID 升序保证确定性。
// 已登录用户会剔除自己评过分的游戏；匿名请求返回全量榜单。
//
// 如果配置了 KeyValueStore，优先从有序集合读取离线批任务
// 维护的榜单（ZRange 按热度分降序）；读取失败时回退到目录实时计算。
type Popular struct {
	Catalog core.CatalogStore

	// KV 可选，存放离线热度榜单（见 engine.UpdatePopularity）。
	KV core.KeyValueStore
}

func (r *Popular) Name() string { return "recall.popular" }

func (r *Popular) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rated := make(map[int64]struct{})
	if rctx != nil && rctx.Authenticated() {
		ratings, err := r.Catalog.GetRatings(ctx, rctx.UserID)
		if err != nil {
			return nil, err
		}
		for _, rt := range ratings {
			rated[rt.GameID] = struct{}{}
		}
	}

	// 优先从离线榜单读取
	if items := r.fromLeaderboard(ctx, rated, limit); len(items) >= limit {
		return items, nil
	}

	games, err := r.Catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}

	candidates := make([]*core.Game, 0, len(games))
	for _, g := range games {
		if !g.HasRating() {
			continue
		}
		if _, ok := rated[g.ID]; ok {
			continue
		}
		candidates = append(candidates, g)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.ID < b.ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, g := range candidates {
		it := core.NewItem(g.ID)
		it.Game = g
		it.Score = g.Rating
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// fromLeaderboard 从有序集合读取离线热门榜单，剔除已评分后不足 limit 时返回 nil 长度结果，
// 由调用方回退到实时计算。
func (r *Popular) fromLeaderboard(ctx context.Context, rated map[int64]struct{}, limit int) []*core.Item {
	if r.KV == nil {
		return nil
	}
	members, err := r.KV.ZRange(ctx, PopularKey, 0, int64(limit+len(rated)))
	if err != nil || len(members) == 0 {
		return nil
	}

	out := make([]*core.Item, 0, limit)
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := rated[id]; ok {
			continue
		}
		g, err := r.Catalog.GetGame(ctx, id)
		if err != nil {
			continue
		}
		it := core.NewItem(id)
		it.Game = g
		it.Score = g.PopularityScore
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		it.PutLabel("popular_origin", utils.Label{Value: "leaderboard", Source: "recall"})
		out = append(out, it)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Trending 是趋势召回源：近期发售的游戏按评分排序。
// 对应目录探索页的"新游推荐"位，与 Popular 共用兜底语义。
type Trending struct {
	Catalog core.CatalogStore

	// RecentDays 是"近期"窗口天数，<=0 时取 180。
	RecentDays int
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	days := r.RecentDays
	if days <= 0 {
		days = 180
	}

	games, err := r.Catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -days)
	candidates := make([]*core.Game, 0)
	for _, g := range games {
		if g.Released.IsZero() || g.Released.Before(cutoff) || g.Released.After(now) {
			continue
		}
		candidates = append(candidates, g)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Released.After(b.Released)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, g := range candidates {
		it := core.NewItem(g.ID)
		it.Game = g
		it.Score = g.Rating
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
