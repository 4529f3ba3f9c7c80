package recall

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// SourceNode 把任意 Source 适配成 Pipeline 的召回节点。
// 召回是管线首个阶段：忽略输入 items，按 rctx.Count（或 Limit）生成候选。
type SourceNode struct {
	Source Source

	// Limit 覆盖 rctx.Count，0 表示跟随请求。
	Limit int
}

func (n *SourceNode) Name() string {
	return "recall." + n.Source.Name()
}

func (n *SourceNode) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (n *SourceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	limit := n.Limit
	if limit <= 0 {
		limit = rctx.Count
	}
	if limit <= 0 {
		limit = 20
	}
	return n.Source.Recall(ctx, rctx, limit)
}
