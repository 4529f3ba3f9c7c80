package recall

import "github.com/rushteam/gamerec/core"

// GameSimilarity 计算两个游戏之间的内容相似度，
// 用于离线相似度预计算批任务（见 engine.PrecomputeSimilarities）。
//
// 分类属性用 Jaccard 系数，数值属性用邻近度，权重与内容打分一致：
// genre .3 / platform .2 / publisher .1 / tag .2 / rating .1 / metacritic .1。
func GameSimilarity(a, b *core.Game) float64 {
	if a == nil || b == nil {
		return 0
	}

	var score float64
	score += jaccard(a.Genres, b.Genres) * genreWeight
	score += jaccard(a.Platforms, b.Platforms) * platformWeight
	score += jaccard(a.Publishers, b.Publishers) * publisherWeight
	score += jaccard(a.Tags, b.Tags) * tagWeight

	if a.HasRating() && b.HasRating() {
		diff := a.Rating - b.Rating
		if diff < 0 {
			diff = -diff
		}
		if proximity := 1 - diff/ratingNorm; proximity > 0 {
			score += proximity * ratingWeight
		}
	}
	if a.HasMetacritic() && b.HasMetacritic() {
		diff := float64(a.Metacritic - b.Metacritic)
		if diff < 0 {
			diff = -diff
		}
		if proximity := 1 - diff/metacriticNorm; proximity > 0 {
			score += proximity * metacriticWeight
		}
	}
	return score
}

// jaccard 计算两个字符串集合的 Jaccard 系数，双方皆空时为 0。
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		union[s] = struct{}{}
	}
	var intersection int
	for _, s := range b {
		if _, ok := set[s]; ok {
			intersection++
		}
		union[s] = struct{}{}
	}
	return float64(intersection) / float64(len(union))
}
