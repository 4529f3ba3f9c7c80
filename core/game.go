package core

import (
	"fmt"
	"time"
)

// Game 是推荐引擎视角下的目录条目（只读）。
// 引擎不拥有 Game 的写权限；目录由外部采集流程维护，
// 引擎仅在离线批任务中回写 PopularityScore。
type Game struct {
	ID       int64
	Name     string
	Released time.Time // 零值表示未知发售日期

	// Rating 是 0-5 的综合评分，0 表示缺失。
	Rating float64
	// Metacritic 是 0-100 的媒体评分，0 表示缺失。
	Metacritic int
	// ESRB 是内容分级（E / T / M / ...）。
	ESRB string

	// 集合型分类属性，值来自全局去重词表。
	Genres     []string
	Platforms  []string
	Publishers []string
	Tags       []string

	// PopularityScore 由离线批任务计算并回写。
	PopularityScore float64
	// RatingCount 是收到的用户评分条数，热门排序的次级排序键。
	RatingCount int
}

// HasRating 判断是否有有效的综合评分。
func (g *Game) HasRating() bool { return g != nil && g.Rating > 0 }

// HasMetacritic 判断是否有有效的媒体评分。
func (g *Game) HasMetacritic() bool { return g != nil && g.Metacritic > 0 }

// GameRating 是用户对游戏的显式评分，(user, game) 唯一。
type GameRating struct {
	UserID    int64
	GameID    int64
	Score     float64 // [1.0, 5.0]
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingMin / RatingMax 是显式评分的合法区间。
const (
	RatingMin = 1.0
	RatingMax = 5.0
)

// ValidateRatingScore 校验评分区间，失败时返回 INVALID_INPUT 错误。
// 校验发生在任何状态变更之前。
func ValidateRatingScore(score float64) error {
	if score < RatingMin || score > RatingMax {
		return NewDomainError(ModuleEngine, ErrorCodeInvalidInput,
			fmt.Sprintf("rating score %.2f out of range [%.1f, %.1f]", score, RatingMin, RatingMax))
	}
	return nil
}

// InteractionKind 是隐式反馈的行为类型。
type InteractionKind string

const (
	InteractionView     InteractionKind = "view"
	InteractionClick    InteractionKind = "click"
	InteractionSearch   InteractionKind = "search"
	InteractionLike     InteractionKind = "like"
	InteractionBookmark InteractionKind = "bookmark"
)

// interactionWeights 是各行为类型的固定权重。
var interactionWeights = map[InteractionKind]float64{
	InteractionView:     1.0,
	InteractionClick:    2.0,
	InteractionSearch:   1.5,
	InteractionLike:     3.0,
	InteractionBookmark: 4.0,
}

// Weight 返回行为类型的固定权重，未知类型返回 1.0。
func (k InteractionKind) Weight() float64 {
	if w, ok := interactionWeights[k]; ok {
		return w
	}
	return 1.0
}

// Valid 判断行为类型是否属于封闭集合。
func (k InteractionKind) Valid() bool {
	_, ok := interactionWeights[k]
	return ok
}

// Interaction 是一条隐式反馈记录，只追加、从不修改。
type Interaction struct {
	UserID    int64
	GameID    int64
	Kind      InteractionKind
	Weight    float64
	SessionID string
	Timestamp time.Time
}
