package engine

import "github.com/rushteam/gamerec/core"

// Result 是一次推荐请求的完整产出。
//
// Degraded 与 Served 的组合让调用方能区分两种"返回了热门"：
//   - 用户/策略本来就该走热门（Degraded=false, Served=popular）
//   - 某条策略内部出错后降级到热门（Degraded=true, Cause 记录原因）
//
// 推荐请求永远不会因为策略内部错误而整体失败。
type Result struct {
	// Items 是最终有序结果，Game 字段已回填。
	Items []*core.Item

	// Strategy 是调用方请求的策略。
	Strategy core.Strategy

	// Served 是实际产出结果的策略（匿名强制热门、降级时与 Strategy 不同）。
	Served core.Strategy

	// Cached 表示结果来自缓存命中。
	Cached bool

	// Degraded 表示策略内部出错后降级到了热门。
	Degraded bool

	// Cause 是降级原因，Degraded 为 false 时为 nil。
	Cause error
}

// Games 按序返回结果中的 Game。
func (r *Result) Games() []*core.Game {
	out := make([]*core.Game, 0, len(r.Items))
	for _, it := range r.Items {
		if it != nil && it.Game != nil {
			out = append(out, it.Game)
		}
	}
	return out
}

// IDs 按序返回结果中的游戏 ID。
func (r *Result) IDs() []int64 {
	out := make([]int64, 0, len(r.Items))
	for _, it := range r.Items {
		if it != nil {
			out = append(out, it.ID)
		}
	}
	return out
}
