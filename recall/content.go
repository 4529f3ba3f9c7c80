package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

// 内容打分的固定权重（不做学习，直接由产品定义）。
const (
	genreWeight      = 0.3
	platformWeight   = 0.2
	publisherWeight  = 0.1
	tagWeight        = 0.2
	ratingWeight     = 0.1
	metacriticWeight = 0.1

	// 邻近度归一化常量：max(0, 1 - |Δ| / NORM)
	ratingNorm     = 5.0
	metacriticNorm = 100.0
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些属性的游戏，推荐属性重合度高的其他游戏"
//
// 算法流程：
//  1. 从用户评分历史聚合偏好画像（core.BuildPreference）
//  2. 对每个未评分的游戏计算内容匹配分
//  3. 按分数降序取 TopN
//
// 冷启动：没有任何评分的用户走热门兜底；如果行为日志里有浏览/点击记录，
// 兜底会限定在行为涉及的 genre 内。
//
// 匹配分是相对排序信号，各项加权求和，不归一到固定区间。
type Content struct {
	Catalog core.CatalogStore

	// Popular 是冷启动兜底，为 nil 时自动用同一个 Catalog 构建。
	Popular *Popular
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || !rctx.Authenticated() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ratings, err := r.Catalog.GetRatings(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	if len(ratings) == 0 {
		// 新用户：热门兜底，尽量限定在行为涉及的 genre
		return r.popularForNewUser(ctx, rctx, limit)
	}

	rated := make(map[int64]struct{}, len(ratings))
	pairs := make([]core.RatedGame, 0, len(ratings))
	for _, rt := range ratings {
		rated[rt.GameID] = struct{}{}
		g, err := r.Catalog.GetGame(ctx, rt.GameID)
		if err != nil {
			continue
		}
		pairs = append(pairs, core.RatedGame{Game: g, Score: rt.Score})
	}
	pref := core.BuildPreference(rctx.UserID, pairs)

	games, err := r.Catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}

	type scored struct {
		game  *core.Game
		score float64
	}
	scores := make([]scored, 0, len(games))
	for _, g := range games {
		if _, ok := rated[g.ID]; ok {
			continue
		}
		scores = append(scores, scored{game: g, score: ScoreContent(g, pref)})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.game.ID)
		it.Game = s.game
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// ScoreContent 计算候选游戏与偏好画像的内容匹配分。
// 分类属性按画像权重累加，数值属性按邻近度贡献；
// 邻近度 = max(0, 1 - |Δ|/NORM)，任一侧缺失时该项贡献 0。
func ScoreContent(g *core.Game, pref *core.Preference) float64 {
	if g == nil || pref == nil {
		return 0
	}

	var score float64
	for _, genre := range g.Genres {
		score += pref.Genres[genre] * genreWeight
	}
	for _, platform := range g.Platforms {
		score += pref.Platforms[platform] * platformWeight
	}
	for _, publisher := range g.Publishers {
		score += pref.Publishers[publisher] * publisherWeight
	}
	for _, tag := range g.Tags {
		score += pref.Tags[tag] * tagWeight
	}

	if g.HasRating() && pref.AvgRating > 0 {
		proximity := math.Max(0, 1-math.Abs(g.Rating-pref.AvgRating)/ratingNorm)
		score += proximity * ratingWeight
	}
	if g.HasMetacritic() && pref.AvgMetacritic > 0 {
		proximity := math.Max(0, 1-math.Abs(float64(g.Metacritic)-pref.AvgMetacritic)/metacriticNorm)
		score += proximity * metacriticWeight
	}
	return score
}

// popularForNewUser 是零评分用户的兜底：
// 行为日志非空时取行为涉及游戏的 genre 并在该范围内按评分/媒体分排序，
// 否则退回全局热门。
func (r *Content) popularForNewUser(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	interactions, err := r.Catalog.GetInteractions(ctx, rctx.UserID, "")
	if err != nil {
		return nil, err
	}

	if len(interactions) > 0 {
		genres := make(map[string]struct{})
		for _, in := range interactions {
			g, err := r.Catalog.GetGame(ctx, in.GameID)
			if err != nil {
				continue
			}
			for _, genre := range g.Genres {
				genres[genre] = struct{}{}
			}
		}

		if len(genres) > 0 {
			filter := &core.GameFilter{Genres: make([]string, 0, len(genres))}
			for genre := range genres {
				filter.Genres = append(filter.Genres, genre)
			}
			sort.Strings(filter.Genres)

			games, err := r.Catalog.ListGames(ctx, filter)
			if err != nil {
				return nil, err
			}
			sort.Slice(games, func(i, j int) bool {
				a, b := games[i], games[j]
				if a.Rating != b.Rating {
					return a.Rating > b.Rating
				}
				if a.Metacritic != b.Metacritic {
					return a.Metacritic > b.Metacritic
				}
				return a.ID < b.ID
			})
			if len(games) > limit {
				games = games[:limit]
			}

			out := make([]*core.Item, 0, len(games))
			for _, g := range games {
				it := core.NewItem(g.ID)
				it.Game = g
				it.Score = g.Rating
				it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
				it.PutLabel("fallback_reason", utils.Label{Value: "cold_start_genres", Source: "recall"})
				out = append(out, it)
			}
			return out, nil
		}
	}

	popular := r.Popular
	if popular == nil {
		popular = &Popular{Catalog: r.Catalog}
	}
	items, err := popular.Recall(ctx, rctx, limit)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("fallback_reason", utils.Label{Value: "cold_start", Source: "recall"})
	}
	return items, nil
}
