// Package engine 编排完整的推荐链路：缓存 → 策略分发 → 过滤 → 截断，
// 以及行为记录、画像重建触发和离线批任务。
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/gamerec/cache"
	"github.com/rushteam/gamerec/cluster"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
	"github.com/rushteam/gamerec/profile"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/rerank"
)

// 每第 N 次行为记录触发一次画像重建。
const rebuildEveryNInteractions = 10

// Engine 是推荐引擎的对外入口。
//
// 所有操作同步执行、请求间无共享状态——共享可变状态只有
// 偏好画像与推荐缓存，两者都按用户分键、整体覆盖写入，
// 并发重复计算是可接受的冗余而不是正确性问题（last writer wins）。
type Engine struct {
	Catalog core.CatalogStore

	// Store 是推荐缓存后端，nil 时不启用缓存。
	Store core.Store

	// KV 可选，存放离线热门榜单与相似度预计算结果。
	KV core.KeyValueStore

	// Cluster 可选，聚类推荐路径。
	Cluster *cluster.Engine

	// RecallTimeout 是混合召回单路超时，0 表示不限制。
	RecallTimeout time.Duration

	// 协同过滤可调参数，零值取各自默认。
	MinRatings       int
	TopKSimilarUsers int
	ScoreThreshold   float64

	// TrendingRecentDays 是趋势召回的发售时间窗口（天），零值取默认。
	TrendingRecentDays int

	once          sync.Once
	cache         *cache.RecommendationCache
	builder       *profile.Builder
	content       *recall.Content
	collaborative *recall.Collaborative
	popular       *recall.Popular
	trending      *recall.Trending
	hybrid        *recall.Hybrid
	similar       *recall.Similar
}

// ensure 惰性装配内部组件，零值 Engine 配好 Catalog 即可用。
func (e *Engine) ensure() {
	e.once.Do(func() {
		if e.Store != nil {
			e.cache = cache.New(e.Store)
		}
		e.builder = &profile.Builder{Catalog: e.Catalog, Cache: e.cache}
		e.popular = &recall.Popular{Catalog: e.Catalog, KV: e.KV}
		e.trending = &recall.Trending{Catalog: e.Catalog, RecentDays: e.TrendingRecentDays}
		e.content = &recall.Content{Catalog: e.Catalog, Popular: e.popular}
		e.collaborative = &recall.Collaborative{
			Catalog:          e.Catalog,
			MinRatings:       e.MinRatings,
			TopKSimilarUsers: e.TopKSimilarUsers,
			ScoreThreshold:   e.ScoreThreshold,
			Content:          e.content,
		}
		e.hybrid = &recall.Hybrid{
			Content:       e.content,
			Collaborative: e.collaborative,
			Popular:       e.popular,
			Timeout:       e.RecallTimeout,
		}
		e.similar = &recall.Similar{Catalog: e.Catalog}
	})
}

// GetRecommendations 返回某用户在指定策略下的 TopN 推荐。
//
// 链路：缓存命中直接返回；未命中走策略分发，结果经过
// 已评分过滤 + TopN 截断后写回缓存。策略内部出错不会让请求失败，
// 而是降级到热门并在 Result 里标明（见 Result.Degraded）。
func (e *Engine) GetRecommendations(ctx context.Context, rctx *core.RecommendContext, strategy core.Strategy) (*Result, error) {
	e.ensure()

	if rctx == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"recommend context required")
	}
	if !strategy.Valid() {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"unknown recommendation strategy: "+strategy.String())
	}
	count := rctx.Count
	if count <= 0 {
		count = 10
	}

	// 匿名请求只允许热门
	served := strategy
	if !rctx.Authenticated() {
		served = core.StrategyPopular
	}

	// 缓存在最前面，命中即短路整条计算链路
	if e.cache != nil && rctx.Authenticated() {
		if entry, ok := e.cache.Get(ctx, rctx.UserID, served); ok {
			items := e.resolveCached(ctx, entry)
			if len(items) > 0 {
				return &Result{Items: items, Strategy: strategy, Served: served, Cached: true}, nil
			}
		}
	}

	items, err := e.dispatch(ctx, rctx, served, count)
	if err != nil {
		// 策略内部错误：降级到热门，绝不让请求整体失败
		fallback, ferr := e.popular.Recall(ctx, rctx, count)
		if ferr != nil {
			fallback = nil
		}
		for _, it := range fallback {
			it.PutLabel("fallback_reason", utils.Label{Value: "internal_error", Source: "engine"})
		}
		fallback, perr := e.postProcess(ctx, rctx, served, fallback, count)
		if perr != nil {
			fallback = nil
		}
		return &Result{
			Items:    fallback,
			Strategy: strategy,
			Served:   core.StrategyPopular,
			Degraded: true,
			Cause:    err,
		}, nil
	}

	items, err = e.postProcess(ctx, rctx, served, items, count)
	if err != nil {
		return nil, err
	}

	// 降级路径不写缓存；正常结果按实际服务的策略缓存
	if e.cache != nil && rctx.Authenticated() && len(items) > 0 {
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		_ = e.cache.Put(ctx, rctx.UserID, served, ids)
	}

	return &Result{Items: items, Strategy: strategy, Served: served}, nil
}

// dispatch 是策略到召回源的封闭分发。
func (e *Engine) dispatch(ctx context.Context, rctx *core.RecommendContext, strategy core.Strategy, count int) ([]*core.Item, error) {
	switch strategy {
	case core.StrategyContent:
		return e.content.Recall(ctx, rctx, count)
	case core.StrategyCollaborative:
		return e.collaborative.Recall(ctx, rctx, count)
	case core.StrategyHybrid:
		return e.hybrid.Recall(ctx, rctx, count)
	case core.StrategyPopular:
		return e.popular.Recall(ctx, rctx, count)
	case core.StrategyTrending:
		return e.trending.Recall(ctx, rctx, count)
	default:
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"unknown recommendation strategy: "+strategy.String())
	}
}

// postProcess 把召回结果送入过滤/截断管线并回填 Game。
// 个性化策略的结果不允许出现用户已评分的游戏，由 RatedFilter 统一保证。
func (e *Engine) postProcess(ctx context.Context, rctx *core.RecommendContext, strategy core.Strategy, items []*core.Item, count int) ([]*core.Item, error) {
	nodes := make([]pipeline.Node, 0, 2)
	switch strategy {
	case core.StrategyContent, core.StrategyCollaborative, core.StrategyHybrid:
		nodes = append(nodes, &filter.FilterNode{
			Filters: []filter.Filter{filter.NewRatedFilter(e.Catalog)},
		})
	}
	nodes = append(nodes, &rerank.TopNNode{N: count})

	p := &pipeline.Pipeline{Nodes: nodes}
	out, err := p.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	// 回填 Game，顺序保持不变
	resolved := make([]*core.Item, 0, len(out))
	for _, it := range out {
		if it == nil {
			continue
		}
		if it.Game == nil {
			g, err := e.Catalog.GetGame(ctx, it.ID)
			if err != nil {
				continue
			}
			it.Game = g
		}
		resolved = append(resolved, it)
	}
	return resolved, nil
}

// resolveCached 把缓存里的 id 列表按原顺序回填为 Item。
func (e *Engine) resolveCached(ctx context.Context, entry *cache.Entry) []*core.Item {
	items := make([]*core.Item, 0, len(entry.Games))
	for _, cg := range entry.Games {
		g, err := e.Catalog.GetGame(ctx, cg.GameID)
		if err != nil {
			continue
		}
		it := core.NewItem(cg.GameID)
		it.Game = g
		it.Score = cg.Score
		it.PutLabel("served_from", utils.Label{Value: "cache", Source: "engine"})
		items = append(items, it)
	}
	return items
}

// RecordInteraction 记录一条隐式反馈（fire-and-forget 语义由调用方决定）。
// 每第 10 次行为记录触发一次该用户的画像重建（重建会顺带失效缓存）。
func (e *Engine) RecordInteraction(ctx context.Context, userID, gameID int64, kind core.InteractionKind, sessionID string) error {
	e.ensure()

	if !kind.Valid() {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"interaction kind not recognized: "+string(kind))
	}

	if err := e.Catalog.AppendInteraction(ctx, &core.Interaction{
		UserID:    userID,
		GameID:    gameID,
		Kind:      kind,
		Weight:    kind.Weight(),
		SessionID: sessionID,
		Timestamp: time.Now(),
	}); err != nil {
		return err
	}

	interactions, err := e.Catalog.GetInteractions(ctx, userID, "")
	if err != nil {
		return err
	}
	if len(interactions)%rebuildEveryNInteractions == 0 {
		if _, err := e.builder.Rebuild(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// RateGame 写入/覆盖一条显式评分，并立刻重建画像。
// 评分区间在任何状态变更之前校验。
func (e *Engine) RateGame(ctx context.Context, userID, gameID int64, score float64) error {
	e.ensure()

	if err := core.ValidateRatingScore(score); err != nil {
		return err
	}
	if _, err := e.Catalog.GetGame(ctx, gameID); err != nil {
		return err
	}

	if err := e.Catalog.UpsertRating(ctx, &core.GameRating{
		UserID: userID,
		GameID: gameID,
		Score:  score,
	}); err != nil {
		return err
	}

	_, err := e.builder.Rebuild(ctx, userID)
	return err
}

// RebuildPreference 显式触发画像重建（管理后台/运维入口）。
func (e *Engine) RebuildPreference(ctx context.Context, userID int64) (*core.Preference, error) {
	e.ensure()
	return e.builder.Rebuild(ctx, userID)
}

// GetSimilarGames 返回与种子游戏相似的 n 个游戏（详情页入口，与用户无关）。
// 选择器出错时降级为"全局评分最高、剔除种子"。
func (e *Engine) GetSimilarGames(ctx context.Context, gameID int64, n int) ([]*core.Game, error) {
	e.ensure()

	seed, err := e.Catalog.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	games, err := e.similar.Similar(ctx, seed, n)
	if err == nil {
		return games, nil
	}

	// 降级：全局评分最高，剔除种子
	rctx := &core.RecommendContext{Anonymous: true}
	items, perr := e.popular.Recall(ctx, rctx, n+1)
	if perr != nil {
		return nil, err
	}
	out := make([]*core.Game, 0, n)
	for _, it := range items {
		if it.ID == gameID || it.Game == nil {
			continue
		}
		out = append(out, it.Game)
		if len(out) >= n {
			break
		}
	}
	return out, nil
}

// FitClusters 对全量目录做一次整批聚类，返回 游戏ID→簇 与轮廓系数。
func (e *Engine) FitClusters(ctx context.Context, k int) (map[int64]int, float64, error) {
	e.ensure()
	if e.Cluster == nil {
		e.Cluster = &cluster.Engine{}
	}
	if k > 0 {
		e.Cluster.K = k
	}

	games, err := e.Catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	return e.Cluster.Fit(games)
}

// PredictCluster 预测单个游戏的簇；未 Fit 时返回 NOT_FITTED 硬错误。
func (e *Engine) PredictCluster(ctx context.Context, gameID int64) (int, error) {
	e.ensure()
	if e.Cluster == nil {
		return 0, cluster.ErrNotFitted
	}
	g, err := e.Catalog.GetGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return e.Cluster.Predict(g)
}

// GetClusterMates 返回与种子同簇的 n 个游戏，按评分降序。
func (e *Engine) GetClusterMates(ctx context.Context, gameID int64, n int) ([]*core.Game, error) {
	e.ensure()
	if e.Cluster == nil {
		return nil, cluster.ErrNotFitted
	}
	seed, err := e.Catalog.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return e.Cluster.ClusterMates(ctx, e.Catalog, seed, n)
}
