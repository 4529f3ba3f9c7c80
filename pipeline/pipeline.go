package pipeline

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// Pipeline 是 gamerec 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 典型编排：召回源 → 已评分过滤 → TopN 截断。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
