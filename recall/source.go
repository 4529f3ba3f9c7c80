package recall

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// Source 表示一个可复用的召回源（内容/协同过滤/热门/...）。
// limit 是本次期望的候选条数；混合召回会以不同的 limit 调用各个源。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext, limit int) ([]*core.Item, error)
}

// resolveGames 把 id 形式的结果按原顺序回填为 Game。
// 查找不可以改变顺序：缺失的 id 直接跳过，其余保持输入顺序。
func resolveGames(ctx context.Context, catalog core.CatalogStore, items []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Game == nil {
			g, err := catalog.GetGame(ctx, it.ID)
			if err != nil {
				continue
			}
			it.Game = g
		}
		out = append(out, it)
	}
	return out
}
