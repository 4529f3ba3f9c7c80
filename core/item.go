package core

import "github.com/rushteam/gamerec/pkg/utils"

// Item 是推荐链路中的统一承载结构：游戏 ID、分数、标签。
// Labels 用于解释与观测（召回来源、降级原因等）；Score 用于排序决策。
// Game 在出口处按 ID 回填，中间节点只操作轻量的 Item。
type Item struct {
	ID     int64
	Score  float64
	Game   *Game
	Labels map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
