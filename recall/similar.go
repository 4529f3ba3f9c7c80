package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/gamerec/core"
)

// Similar 是"相似游戏"选择器：给定一个种子游戏，按固定配额
// 从四个来源装配一个多样化的候选集。与个性化链路无关，
// 详情页直接调用。
//
// 来源与配额（严格按序消费，去重不占用后续来源的预算）：
//  1. 同 genre：      ⌊0.4N⌋ + 2
//  2. 同 publisher：  ⌊0.2N⌋ + 1（种子有 publisher 时）
//  3. 同 platform：   ⌊0.2N⌋ + 1（种子有 platform 时）
//  4. 评分邻近：      ⌊0.2N⌋ + 1（种子有评分时，窗口 ±1 并夹在 [0,5]）
//
// 每个来源内部按评分降序。四轮之后不足 N 时，用全局评分最高的
// 剩余游戏补齐。genre 匹配被有意过度代表；只要目录足够大，
// 结果总是满额。
type Similar struct {
	Catalog core.CatalogStore
}

func (r *Similar) Name() string { return "recall.similar" }

// Similar 返回与种子最相似的 n 个游戏，不含种子、无重复。
func (r *Similar) Similar(ctx context.Context, seed *core.Game, n int) ([]*core.Game, error) {
	if r.Catalog == nil || seed == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 10
	}

	games, err := r.Catalog.ListGames(ctx, nil)
	if err != nil {
		return nil, err
	}

	picked := make([]*core.Game, 0, n)
	seen := map[int64]struct{}{seed.ID: {}}

	take := func(quota int, match func(*core.Game) bool) {
		if quota <= 0 {
			return
		}
		candidates := make([]*core.Game, 0)
		for _, g := range games {
			if _, ok := seen[g.ID]; ok {
				continue
			}
			if match(g) {
				candidates = append(candidates, g)
			}
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Rating != candidates[j].Rating {
				return candidates[i].Rating > candidates[j].Rating
			}
			return candidates[i].ID < candidates[j].ID
		})
		if len(candidates) > quota {
			candidates = candidates[:quota]
		}
		for _, g := range candidates {
			seen[g.ID] = struct{}{}
			picked = append(picked, g)
		}
	}

	// 1. 同 genre
	take(int(0.4*float64(n))+2, func(g *core.Game) bool {
		return sharesAny(g.Genres, seed.Genres)
	})

	// 2. 同 publisher
	if len(seed.Publishers) > 0 {
		take(int(0.2*float64(n))+1, func(g *core.Game) bool {
			return sharesAny(g.Publishers, seed.Publishers)
		})
	}

	// 3. 同 platform
	if len(seed.Platforms) > 0 {
		take(int(0.2*float64(n))+1, func(g *core.Game) bool {
			return sharesAny(g.Platforms, seed.Platforms)
		})
	}

	// 4. 评分邻近，窗口 ±1 夹在 [0,5]
	if seed.HasRating() {
		lo := math.Max(0, seed.Rating-1)
		hi := math.Min(5, seed.Rating+1)
		take(int(0.2*float64(n))+1, func(g *core.Game) bool {
			return g.HasRating() && g.Rating >= lo && g.Rating <= hi
		})
	}

	if len(picked) > n {
		picked = picked[:n]
	}

	// 不足 N：用全局评分最高的剩余游戏补齐，直到满额或目录耗尽
	if len(picked) < n {
		rest := make([]*core.Game, 0)
		for _, g := range games {
			if _, ok := seen[g.ID]; ok {
				continue
			}
			rest = append(rest, g)
		}
		sort.Slice(rest, func(i, j int) bool {
			if rest[i].Rating != rest[j].Rating {
				return rest[i].Rating > rest[j].Rating
			}
			return rest[i].ID < rest[j].ID
		})
		for _, g := range rest {
			if len(picked) >= n {
				break
			}
			seen[g.ID] = struct{}{}
			picked = append(picked, g)
		}
	}

	return picked, nil
}

func sharesAny(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
