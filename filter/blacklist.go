package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的游戏
// （下架、地区限制等运营原因）。
type BlacklistFilter struct {
	// GameIDs 是内存中的黑名单游戏 ID 列表
	GameIDs []int64

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单游戏 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]int64, error)
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, id := range f.GameIDs {
		if item.ID == id {
			return true, nil
		}
	}

	// 从 Store 检查
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, id := range blacklist {
				if item.ID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
