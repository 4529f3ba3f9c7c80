package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述候选保留条件，表达式返回 false 的游戏被过滤。
// 典型用法是运营侧的目录过滤，例如：
//
//	&ExprFilter{Expr: `game.rating >= 3.0 && game.esrb != "M"`}
//
// 表达式编译失败或执行出错时保留该候选（宁可多给，不因配置错误清空结果）。
type ExprFilter struct {
	// Expr 是保留条件，空表达式不过滤任何候选。
	Expr string
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, nil
	}
	return !keep, nil
}
