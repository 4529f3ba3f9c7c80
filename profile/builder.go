// Package profile 负责从评分历史重建用户的偏好画像。
package profile

import (
	"context"

	"github.com/rushteam/gamerec/cache"
	"github.com/rushteam/gamerec/core"
)

// Builder 把一个用户的全量评分聚合成偏好画像并落盘。
//
// 重建永远是整体覆盖：画像不做增量修补，每次触发都从全量评分重算
// （聚合本身幂等、与顺序无关，见 core.BuildPreference）。
//
// 重建的触发点：
//   - 显式评分变更（立即）
//   - 每第 10 次行为记录（engine.RecordInteraction）
//
// 副作用：画像写回后，该用户所有策略的推荐缓存都会被删除——
// 画像是每条个性化链路的输入，输入变了缓存就全部失效。
type Builder struct {
	Catalog core.CatalogStore

	// Cache 可选；配置后重建会触发该用户的缓存失效。
	Cache *cache.RecommendationCache
}

// Rebuild 重建并持久化用户画像，返回新画像。
// 用户没有任何评分时写入默认空画像（bucket 为空、均值为 0）。
func (b *Builder) Rebuild(ctx context.Context, userID int64) (*core.Preference, error) {
	ratings, err := b.Catalog.GetRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	rated := make([]core.RatedGame, 0, len(ratings))
	for _, r := range ratings {
		g, err := b.Catalog.GetGame(ctx, r.GameID)
		if err != nil {
			continue
		}
		rated = append(rated, core.RatedGame{Game: g, Score: r.Score})
	}

	pref := core.BuildPreference(userID, rated)
	if err := b.Catalog.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}

	if b.Cache != nil {
		if err := b.Cache.InvalidateUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	return pref, nil
}
