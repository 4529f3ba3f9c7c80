// Package cache 实现按 (用户, 策略) 维度的推荐结果缓存。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/gamerec/core"
)

// TTL 约定：混合策略计算成本最高，缓存最久。
const (
	HybridTTL  = 24 * time.Hour
	DefaultTTL = time.Hour
)

// CachedGame 是缓存条目里的单个结果位。
type CachedGame struct {
	GameID int64   `json:"game_id"`
	Rank   int     `json:"rank"`
	Score  float64 `json:"score"`
}

// Entry 是一条缓存记录：有序结果列表 + 过期时间。
// (用户, 策略) 至多一条在世记录，写入永远整体覆盖，不做合并。
type Entry struct {
	UserID    int64         `json:"user_id"`
	Strategy  core.Strategy `json:"strategy"`
	Games     []CachedGame  `json:"games"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Expired 判断记录是否已过期。
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// RecommendationCache 把推荐结果缓存在任意 core.Store 后端
// （内存、Redis）。读到过期记录时先删除再按未命中处理——
// 过期数据永远不会被当作"旧但可用"返回。
type RecommendationCache struct {
	Store core.Store
}

func New(store core.Store) *RecommendationCache {
	return &RecommendationCache{Store: store}
}

func key(userID int64, strategy core.Strategy) string {
	return fmt.Sprintf("rec:%d:%s", userID, strategy)
}

// Get 读取缓存。命中且未过期时返回有序结果；
// 过期记录触发删除并按未命中处理。
func (c *RecommendationCache) Get(ctx context.Context, userID int64, strategy core.Strategy) (*Entry, bool) {
	if c == nil || c.Store == nil {
		return nil, false
	}

	data, err := c.Store.Get(ctx, key(userID, strategy))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// 损坏的记录当未命中处理，顺手清掉
		_ = c.Store.Delete(ctx, key(userID, strategy))
		return nil, false
	}

	if entry.Expired(time.Now()) {
		// 惰性过期：删除后按未命中返回
		_ = c.Store.Delete(ctx, key(userID, strategy))
		return nil, false
	}
	return &entry, true
}

// Put 整体覆盖写入 (用户, 策略) 的缓存记录。
// 第 i 位（从 0 起）的 rank = i+1，score = 1 - i/len。
func (c *RecommendationCache) Put(ctx context.Context, userID int64, strategy core.Strategy, gameIDs []int64) error {
	if c == nil || c.Store == nil {
		return nil
	}
	if len(gameIDs) == 0 {
		return nil
	}

	games := make([]CachedGame, len(gameIDs))
	for i, id := range gameIDs {
		games[i] = CachedGame{
			GameID: id,
			Rank:   i + 1,
			Score:  1.0 - float64(i)/float64(len(gameIDs)),
		}
	}

	ttl := DefaultTTL
	if strategy == core.StrategyHybrid {
		ttl = HybridTTL
	}
	now := time.Now()
	entry := Entry{
		UserID:    userID,
		Strategy:  strategy,
		Games:     games,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		return err
	}
	// Store 层 TTL 与记录内的过期时间保持一致，双保险
	return c.Store.Set(ctx, key(userID, strategy), data, int(ttl/time.Second))
}

// InvalidateUser 删除某用户全部策略的缓存记录。
// 偏好画像重建后必须调用：画像一变，所有后续计算的输入都变了。
func (c *RecommendationCache) InvalidateUser(ctx context.Context, userID int64) error {
	if c == nil || c.Store == nil {
		return nil
	}
	var firstErr error
	for _, strategy := range core.AllStrategies {
		if err := c.Store.Delete(ctx, key(userID, strategy)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Invalidate 删除某用户单个策略的缓存记录。
func (c *RecommendationCache) Invalidate(ctx context.Context, userID int64, strategy core.Strategy) error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Delete(ctx, key(userID, strategy))
}
