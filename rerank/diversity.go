package rerank

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// Diversity 是一个简单的多样性 ReRank 节点：按 genre 去重，
// 每个 genre 只保留首个出现的游戏，避免结果页被单一类型刷屏。
// 没有 genre 信息的条目直接保留。
type Diversity struct{}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Game == nil || len(it.Game.Genres) == 0 {
			out = append(out, it)
			continue
		}

		primary := it.Game.Genres[0]
		if seen[primary] {
			continue
		}
		seen[primary] = true
		out = append(out, it)
	}

	return out, nil
}
