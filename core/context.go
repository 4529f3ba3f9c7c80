package core

import "github.com/rushteam/gamerec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/会话信息，贯穿整个链路透传。
type RecommendContext struct {
	// UserID 为 0 或 Anonymous 为 true 时视为匿名请求，
	// 匿名请求只允许热门策略。
	UserID    int64
	Anonymous bool
	SessionID string

	// Count 是最终期望返回的条数。
	Count int

	// Labels 是请求级标签，可驱动降级/解释。
	Labels map[string]utils.Label

	// Params 是请求级上下文参数（query、device 等），按需取用。
	Params map[string]any
}

// Authenticated 判断是否为已登录用户的请求。
func (rctx *RecommendContext) Authenticated() bool {
	return rctx != nil && !rctx.Anonymous && rctx.UserID > 0
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
