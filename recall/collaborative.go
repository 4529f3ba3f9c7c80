package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

// Collaborative 是基于用户的协同过滤召回源（User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的游戏"
//
// 算法流程：
//  1. 全量评分构建用户×游戏稀疏矩阵（缺失项视为 0，见下）
//  2. 目标用户与其他每个用户算余弦相似度，只保留正相似度
//  3. 取 TopN 相似用户
//  4. 相似用户评过、目标用户未评的游戏：score = Σ(rating·sim) / Σsim
//  5. 过滤 score > 阈值，按分数降序返回
//
// 前置条件：目标用户评分数达到 MinRatings，否则整体委托给内容召回
// （这不是错误，是定义好的回退路径）。
//
// 两处有意保留的简化：
//   - 缺失评分按 0 参与余弦计算，会偏向评分数量相近的用户；
//   - 阈值作用在相似度归一化后的加权平均分上，相似度分布偏斜时
//     量纲并不严格一致。
//
// 两者都按原始行为保留，不做"纠正"。
type Collaborative struct {
	Catalog core.CatalogStore

	// MinRatings 是启用协同过滤所需的最少评分条数，<=0 时取 5。
	MinRatings int

	// TopKSimilarUsers 参与聚合的相似用户数，<=0 时取 10。
	TopKSimilarUsers int

	// ScoreThreshold 是候选进入结果的最低归一化分，0 时取 3.0。
	ScoreThreshold float64

	// Content 是评分不足时的回退召回源，为 nil 时自动构建。
	Content *Content
}

func (r *Collaborative) Name() string { return "recall.collaborative" }

func (r *Collaborative) Recall(
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

	minRatings := r.MinRatings
	if minRatings <= 0 {
		minRatings = 5
	}

	userRatings, err := r.Catalog.GetRatings(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(userRatings) < minRatings {
		// 数据不足：整体委托给内容召回，排序与直接调用内容召回完全一致
		return r.fallbackContent(ctx, rctx, limit)
	}

	matrix, err := r.buildMatrix(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := matrix[rctx.UserID]
	if !ok {
		return r.fallbackContent(ctx, rctx, limit)
	}

	similar := r.similarUsers(rctx.UserID, target, matrix)
	if len(similar) == 0 {
		// 没有相似用户：返回空，由上层继续兜底
		return nil, nil
	}

	// 加权聚合相似用户的评分
	scores := make(map[int64]float64)
	var totalSim float64
	for _, su := range similar {
		totalSim += su.sim
	}
	for _, su := range similar {
		for gameID, rating := range matrix[su.userID] {
			if _, rated := target[gameID]; rated {
				continue
			}
			scores[gameID] += rating * su.sim
		}
	}
	if totalSim > 0 {
		for gameID := range scores {
			scores[gameID] /= totalSim
		}
	}

	threshold := r.ScoreThreshold
	if threshold == 0 {
		threshold = 3.0
	}

	type scored struct {
		gameID int64
		score  float64
	}
	candidates := make([]scored, 0, len(scores))
	for gameID, score := range scores {
		if score > threshold {
			candidates = append(candidates, scored{gameID: gameID, score: score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].gameID < candidates[j].gameID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c.gameID)
		it.Score = c.score
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		it.PutLabel("cf_metric", utils.Label{Value: "cosine", Source: "recall"})
		out = append(out, it)
	}
	return resolveGames(ctx, r.Catalog, out), nil
}

func (r *Collaborative) fallbackContent(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	content := r.Content
	if content == nil {
		content = &Content{Catalog: r.Catalog}
	}
	return content.Recall(ctx, rctx, limit)
}

// buildMatrix 从全量评分构建用户×游戏稀疏矩阵。
func (r *Collaborative) buildMatrix(ctx context.Context) (map[int64]map[int64]float64, error) {
	all, err := r.Catalog.AllRatings(ctx)
	if err != nil {
		return nil, err
	}
	matrix := make(map[int64]map[int64]float64)
	for _, rt := range all {
		row, ok := matrix[rt.UserID]
		if !ok {
			row = make(map[int64]float64)
			matrix[rt.UserID] = row
		}
		row[rt.GameID] = rt.Score
	}
	return matrix, nil
}

type userSim struct {
	userID int64
	sim    float64
}

// similarUsers 返回与目标用户余弦相似度为正的 TopN 用户，降序。
func (r *Collaborative) similarUsers(
	targetID int64,
	target map[int64]float64,
	matrix map[int64]map[int64]float64,
) []userSim {
	topK := r.TopKSimilarUsers
	if topK <= 0 {
		topK = 10
	}

	var normTarget float64
	for _, v := range target {
		normTarget += v * v
	}
	normTarget = math.Sqrt(normTarget)
	if normTarget == 0 {
		return nil
	}

	sims := make([]userSim, 0)
	for userID, row := range matrix {
		if userID == targetID {
			continue // 跳过自己
		}

		var dot, normRow float64
		for gameID, v := range row {
			normRow += v * v
			if tv, ok := target[gameID]; ok {
				dot += tv * v
			}
		}
		if normRow == 0 {
			continue
		}
		sim := dot / (normTarget * math.Sqrt(normRow))
		if sim > 0 {
			sims = append(sims, userSim{userID: userID, sim: sim})
		}
	}

	sort.Slice(sims, func(i, j int) bool {
		if sims[i].sim != sims[j].sim {
			return sims[i].sim > sims[j].sim
		}
		return sims[i].userID < sims[j].userID
	})
	if len(sims) > topK {
		sims = sims[:topK]
	}
	return sims
}
