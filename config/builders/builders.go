package builders

import (
	"fmt"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/conv"
	"github.com/rushteam/gamerec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 从配置构建组合过滤节点。
// 支持 blacklist（游戏 ID 列表）与 expr（CEL 保留表达式）两类子过滤器；
// rated 过滤器依赖 CatalogStore，需代码侧注入，不走配置构建。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filters := make([]filter.Filter, 0, 2)

	if ids := conv.SliceAnyToInt64(cfg["blacklist"]); len(ids) > 0 {
		filters = append(filters, &filter.BlacklistFilter{GameIDs: ids})
	}
	if expr := conv.ConfigGet(cfg, "expr", ""); expr != "" {
		filters = append(filters, &filter.ExprFilter{Expr: expr})
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("filter node requires at least one of: blacklist, expr")
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// BuildTopNNode 从配置构建 TopN 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

// BuildDiversityNode 从配置构建 genre 多样性节点。
func BuildDiversityNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{}, nil
}
