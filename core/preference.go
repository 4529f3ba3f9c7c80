package core

import "time"

// Preference 是用户的偏好画像，由评分历史整体重建。
//
// 一句话定义：偏好画像 = 内容召回的"用户侧特征 + 冷启动信号"
//
// 设计要点：
//
//	维度            作用
//	分类属性权重    内容召回核心（genre/platform/publisher/tag，权重 ∈ [0,1]）
//	标量偏好        评分/媒体分的加权均值，用于邻近度计算
//	整体重建        每次触发都从全量评分重算，不做增量更新
type Preference struct {
	UserID int64

	// 各维度的归一化权重，key 为属性名，value ∈ [0,1]。
	// 从未出现在用户已评分游戏中的属性不会出现在 map 里。
	Genres     map[string]float64
	Platforms  map[string]float64
	Publishers map[string]float64
	Tags       map[string]float64

	// AvgRating / AvgMetacritic 是偏好评分的加权均值，0 表示无评分历史。
	AvgRating     float64
	AvgMetacritic float64

	UpdatedAt time.Time
}

// NewPreference 创建一个空画像（新用户默认态）。
func NewPreference(userID int64) *Preference {
	return &Preference{
		UserID:     userID,
		Genres:     make(map[string]float64),
		Platforms:  make(map[string]float64),
		Publishers: make(map[string]float64),
		Tags:       make(map[string]float64),
		UpdatedAt:  time.Now(),
	}
}

// Empty 判断画像是否等价于"没有任何评分历史"。
func (p *Preference) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.Genres) == 0 && len(p.Platforms) == 0 &&
		len(p.Publishers) == 0 && len(p.Tags) == 0 &&
		p.AvgRating == 0 && p.AvgMetacritic == 0
}

// RatedGame 是偏好聚合的输入：一条评分及其对应的游戏。
type RatedGame struct {
	Game  *Game
	Score float64
}

// BuildPreference 从评分历史整体聚合出偏好画像。
// 纯聚合：结果幂等、与输入顺序无关。
//
// 算法：
//  1. 每条评分的权重 weight = score/5（线性归一到 [0,1]）
//  2. 游戏的每个分类属性值累加 weight 到对应 bucket
//  3. rating*weight / metacritic*weight 进入加权和
//  4. 所有 bucket 与两个加权和除以总权重
//
// 没有任何评分时返回空画像（bucket 为空、均值为 0）。
func BuildPreference(userID int64, rated []RatedGame) *Preference {
	p := NewPreference(userID)

	var totalWeight, ratingSum, metacriticSum float64
	for _, r := range rated {
		if r.Game == nil {
			continue
		}
		weight := r.Score / RatingMax
		totalWeight += weight

		for _, g := range r.Game.Genres {
			p.Genres[g] += weight
		}
		for _, pl := range r.Game.Platforms {
			p.Platforms[pl] += weight
		}
		for _, pub := range r.Game.Publishers {
			p.Publishers[pub] += weight
		}
		for _, t := range r.Game.Tags {
			p.Tags[t] += weight
		}

		if r.Game.HasRating() {
			ratingSum += r.Game.Rating * weight
		}
		if r.Game.HasMetacritic() {
			metacriticSum += float64(r.Game.Metacritic) * weight
		}
	}

	// 总权重为 0（无评分）时保持默认空画像
	if totalWeight > 0 {
		for k := range p.Genres {
			p.Genres[k] /= totalWeight
		}
		for k := range p.Platforms {
			p.Platforms[k] /= totalWeight
		}
		for k := range p.Publishers {
			p.Publishers[k] /= totalWeight
		}
		for k := range p.Tags {
			p.Tags[k] /= totalWeight
		}
		p.AvgRating = ratingSum / totalWeight
		p.AvgMetacritic = metacriticSum / totalWeight
	}

	return p
}

// GenreWeight 获取某个 genre 的权重，不存在时为 0。
func (p *Preference) GenreWeight(name string) float64 {
	if p == nil || p.Genres == nil {
		return 0
	}
	return p.Genres[name]
}
