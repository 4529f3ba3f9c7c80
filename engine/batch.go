package engine

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/recall"
)

// 批任务分块大小，块间检查 ctx 取消。
const batchChunkSize = 500

// 热度公式各信号的权重与归一化参数。
const (
	popularityRatingWeight      = 0.4
	popularityRatingCountWeight = 0.3
	popularityInteractionWeight = 0.3

	popularityRatingCountNorm = 10.0
	popularityInteractionNorm = 50.0
	popularitySignalCap       = 5.0
)

// SimilarityKeyPrefix 是相似度预计算结果在 KeyValueStore 中的 Hash key 前缀，
// 完整 key 形如 "sim:games:<gameID>"，field 为相似游戏 id，value 为 JSON 数组。
const SimilarityKeyPrefix = "sim:games:"

// UpdatePopularity 全量重算游戏热度并回写目录与热门榜单。
//
// 热度 = 平均评分×0.4 + min(评分数/10, 5)×0.3 + min(行为数/50, 5)×0.3：
// 显式评分和隐式行为各占一路信号，分段截断后归一，
// 单一信号（比如刷出来的行为量）撑不起整个热度分。按块扫描，块间响应取消。
func (e *Engine) UpdatePopularity(ctx context.Context) (int, error) {
	e.ensure()

	games, err := e.Catalog.ListGames(ctx, nil)
	if err != nil {
		return 0, err
	}
	interactions, err := e.Catalog.AllInteractions(ctx)
	if err != nil {
		return 0, err
	}
	interactionCounts := make(map[int64]int, len(games))
	for _, in := range interactions {
		interactionCounts[in.GameID]++
	}

	updated := 0
	for i := 0; i < len(games); i += batchChunkSize {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		end := i + batchChunkSize
		if end > len(games) {
			end = len(games)
		}
		for _, g := range games[i:end] {
			score := g.Rating*popularityRatingWeight +
				math.Min(float64(g.RatingCount)/popularityRatingCountNorm, popularitySignalCap)*popularityRatingCountWeight +
				math.Min(float64(interactionCounts[g.ID])/popularityInteractionNorm, popularitySignalCap)*popularityInteractionWeight
			if err := e.Catalog.UpdateGamePopularity(ctx, g.ID, score); err != nil {
				return updated, err
			}
			if e.KV != nil {
				if err := e.KV.ZAdd(ctx, recall.PopularKey, score,
					strconv.FormatInt(g.ID, 10)); err != nil {
					return updated, err
				}
			}
			updated++
		}
	}
	return updated, nil
}

// similarEntry 是相似度预计算的单条结果。
type similarEntry struct {
	GameID int64   `json:"game_id"`
	Score  float64 `json:"score"`
}

// PrecomputeSimilarities 离线预计算每个游戏的 TopK 相似游戏，写入 KV Hash。
// O(n²) 的成对计算只在批任务里发生，在线路径只做 Hash 读取。
func (e *Engine) PrecomputeSimilarities(ctx context.Context, topK int) (int, error) {
	e.ensure()

	if e.KV == nil {
		return 0, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotSupported,
			"similarity precompute requires a key-value store")
	}
	if topK <= 0 {
		topK = 20
	}

	games, err := e.Catalog.ListGames(ctx, nil)
	if err != nil {
		return 0, err
	}

	written := 0
	for i, g := range games {
		if i%batchChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return written, err
			}
		}

		entries := make([]similarEntry, 0, len(games)-1)
		for _, other := range games {
			if other.ID == g.ID {
				continue
			}
			entries = append(entries, similarEntry{
				GameID: other.ID,
				Score:  recall.GameSimilarity(g, other),
			})
		}
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Score > entries[b].Score
		})
		if len(entries) > topK {
			entries = entries[:topK]
		}

		payload, err := json.Marshal(entries)
		if err != nil {
			return written, err
		}
		if err := e.KV.HSet(ctx, SimilarityKeyPrefix+strconv.FormatInt(g.ID, 10),
			"topk", payload); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
