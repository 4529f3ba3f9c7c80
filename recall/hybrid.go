package recall

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

// 混合召回各信号源的固定权重。
const (
	hybridContentWeight       = 0.4
	hybridCollaborativeWeight = 0.4
	hybridPopularityWeight    = 0.2
)

// Hybrid 是混合召回源：并发请求内容/协同过滤/热门三路信号，
// 再用位次加权分合并成一个列表。
//
// 合并规则：
//   - 内容与协同过滤各取 2×limit，热门取 1×limit
//   - 列表内第 i 位的位次分 = (len-i)/len，再乘以该路的固定权重
//   - 同一游戏在多路出现时分数相加——跨信号一致的游戏被有意奖励，
//     哪怕它在单路里的原始分更低
//   - 最终按累计分降序，平分按首次出现顺序（稳定排序）
//
// 任一路失败时 Recall 整体返回错误（带路名），不会悄悄用空结果顶替——
// 缺了一路的混合结果和正常结果对调用方必须是可区分的，降级由上层决定。
type Hybrid struct {
	Content       Source
	Collaborative Source
	Popular       Source

	// Timeout 是单路召回的超时时间，0 表示不限制。
	Timeout time.Duration
}

func (r *Hybrid) Name() string { return "recall.hybrid" }

func (r *Hybrid) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
	limit int,
) ([]*core.Item, error) {
	if limit <= 0 {
		limit = 10
	}

	type route struct {
		source Source
		limit  int
		weight float64
	}
	routes := []route{
		{source: r.Content, limit: limit * 2, weight: hybridContentWeight},
		{source: r.Collaborative, limit: limit * 2, weight: hybridCollaborativeWeight},
		{source: r.Popular, limit: limit, weight: hybridPopularityWeight},
	}

	// 并发 fan-out；合并必须按固定的路次序进行，结果先落到按路索引的槽位里
	results := make([][]*core.Item, len(routes))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, rt := range routes {
		if rt.source == nil {
			continue
		}
		i, rt := i, rt
		eg.Go(func() error {
			recallCtx := egCtx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, r.Timeout)
				defer cancel()
			}
			items, err := rt.source.Recall(recallCtx, rctx, rt.limit)
			if err != nil {
				return fmt.Errorf("hybrid route %s: %w", rt.source.Name(), err)
			}
			results[i] = items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 位次加权合并
	type merged struct {
		item  *core.Item
		score float64
	}
	accumulated := make(map[int64]*merged)
	order := make([]int64, 0) // 首次出现顺序，平分时的决胜依据

	for i, rt := range routes {
		items := results[i]
		n := len(items)
		for idx, it := range items {
			if it == nil {
				continue
			}
			positional := float64(n-idx) / float64(n) * rt.weight
			if m, ok := accumulated[it.ID]; ok {
				m.score += positional
				for k, v := range it.Labels {
					m.item.PutLabel(k, v)
				}
				continue
			}
			accumulated[it.ID] = &merged{item: it, score: positional}
			order = append(order, it.ID)
		}
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		m := accumulated[id]
		m.item.Score = m.score
		m.item.PutLabel("blend", utils.Label{Value: "hybrid", Source: "recall"})
		out = append(out, m.item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
