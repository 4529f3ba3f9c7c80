// Package cluster 提供基于特征向量的游戏聚类引擎，
// 作为个性化推荐之外的另一条目录探索路径。
package cluster

import (
	"context"
	"sort"
	"sync"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/feature"
)

// ErrNotFitted 表示在 Fit 之前调用了预测类操作，是对外的硬错误。
var ErrNotFitted = core.NewDomainError(core.ModuleCluster, core.ErrorCodeNotFitted,
	"cluster: model not fitted, call Fit first")

// Engine 是 k-means 聚类引擎。
//
// 特征向量布局（宽度在 Fit 时固定）：
//
//	[ z-scored rating | one-hot ESRB | multi-hot genres | multi-hot platforms ]
//
// z-score 的 μ/σ 在 Fit 时从批次本身计算；ESRB/genre/platform 词表
// 同样在 Fit 时冻结。预测阶段复用冻结的参数：未知 ESRB 编码为全零，
// 词表外的 genre/platform 被静默丢弃。
//
// 聚类结果是派生数据、不落盘：目录或拟合参数一变就整批重算，
// 没有增量更新路径。
type Engine struct {
	// K 是簇数，<=0 时取 4。
	K int
	// Restarts 是重启次数，取惯性最小的一次，<=0 时取 10。
	Restarts int
	// Seed 是随机种子，固定种子保证两次拟合结果一致。
	Seed int64

	mu          sync.RWMutex
	scaler      feature.ZScoreScaler
	esrb        feature.OneHotEncoder
	genres      feature.MultiHotEncoder
	platforms   feature.MultiHotEncoder
	centroids   [][]float64
	assignments map[int64]int
	silhouette  float64
	fitted      bool
}

// Fit 对一批游戏做整批聚类，返回 游戏ID→簇 的分配与轮廓系数。
func (e *Engine) Fit(games []*core.Game) (map[int64]int, float64, error) {
	if len(games) == 0 {
		return nil, 0, core.NewDomainError(core.ModuleCluster, core.ErrorCodeInvalidInput,
			"cluster: fit requires at least one game")
	}

	k := e.K
	if k <= 0 {
		k = 4
	}
	seed := e.Seed
	if seed == 0 {
		seed = 42
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// 冻结编码参数
	ratings := make([]float64, len(games))
	esrbs := make([]string, len(games))
	genreSets := make([][]string, len(games))
	platformSets := make([][]string, len(games))
	for i, g := range games {
		ratings[i] = g.Rating
		esrbs[i] = g.ESRB
		genreSets[i] = g.Genres
		platformSets[i] = g.Platforms
	}
	e.scaler.Fit(ratings)
	e.esrb.Fit(esrbs)
	e.genres.Fit(genreSets)
	e.platforms.Fit(platformSets)

	points := make([][]float64, len(games))
	for i, g := range games {
		points[i] = e.encode(g)
	}

	result := runKMeans(points, k, e.Restarts, seed, 0)
	e.centroids = result.centroids
	e.silhouette = silhouetteScore(points, result.labels, len(result.centroids))

	e.assignments = make(map[int64]int, len(games))
	for i, g := range games {
		e.assignments[g.ID] = result.labels[i]
	}
	e.fitted = true

	out := make(map[int64]int, len(e.assignments))
	for id, c := range e.assignments {
		out[id] = c
	}
	return out, e.silhouette, nil
}

// Predict 预测单个游戏的簇，未 Fit 时返回 ErrNotFitted。
func (e *Engine) Predict(g *core.Game) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.fitted {
		return 0, ErrNotFitted
	}
	if g == nil {
		return 0, core.NewDomainError(core.ModuleCluster, core.ErrorCodeInvalidInput,
			"cluster: predict requires a game")
	}
	return nearestCentroid(e.encode(g), e.centroids), nil
}

// Silhouette 返回上次 Fit 的轮廓系数。
func (e *Engine) Silhouette() (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.fitted {
		return 0, ErrNotFitted
	}
	return e.silhouette, nil
}

// ClusterMates 返回与种子同簇的游戏，按评分降序取前 n 个。
// 目录中的每个候选都用冻结的编码参数重新预测归属。
func (e *Engine) ClusterMates(ctx context.Context, catalog core.CatalogStore, seed *core.Game, n int) ([]*core.Game, error) {
	if n <= 0 {
		n = 5
	}

	seedCluster, err := e.Predict(seed)
	if err != nil {
		return nil, err
	}

	games, err := catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	mates := make([]*core.Game, 0)
	for _, g := range games {
		if g.ID == seed.ID {
			continue
		}
		if nearestCentroid(e.encode(g), e.centroids) == seedCluster {
			mates = append(mates, g)
		}
	}
	e.mu.RUnlock()

	sort.Slice(mates, func(i, j int) bool {
		if mates[i].Rating != mates[j].Rating {
			return mates[i].Rating > mates[j].Rating
		}
		return mates[i].ID < mates[j].ID
	})
	if len(mates) > n {
		mates = mates[:n]
	}
	return mates, nil
}

// encode 按冻结的参数把游戏编码为特征向量。调用方需持有锁。
func (e *Engine) encode(g *core.Game) []float64 {
	out := make([]float64, 0, 1+e.esrb.Width()+e.genres.Width()+e.platforms.Width())
	out = append(out, e.scaler.Transform(g.Rating))
	out = append(out, e.esrb.Transform(g.ESRB)...)
	out = append(out, e.genres.Transform(g.Genres)...)
	out = append(out, e.platforms.Transform(g.Platforms)...)
	return out
}
