package cluster

import (
	"math"
	"math/rand"
)

// kmeansResult 是一次完整 k-means 拟合的产出。
type kmeansResult struct {
	centroids [][]float64
	labels    []int
	inertia   float64
}

// runKMeans 以固定随机种子执行多次重启的 Lloyd 迭代，返回惯性最小的一次。
// 同一份数据 + 同一个种子 → 完全相同的划分（确定性是对外承诺的性质）。
func runKMeans(points [][]float64, k, restarts int, seed int64, maxIter int) *kmeansResult {
	if len(points) == 0 || k <= 0 {
		return &kmeansResult{}
	}
	if k > len(points) {
		k = len(points)
	}
	if restarts <= 0 {
		restarts = 10
	}
	if maxIter <= 0 {
		maxIter = 300
	}

	rng := rand.New(rand.NewSource(seed))
	var best *kmeansResult
	for r := 0; r < restarts; r++ {
		res := kmeansOnce(points, k, rng, maxIter)
		if best == nil || res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

func kmeansOnce(points [][]float64, k int, rng *rand.Rand, maxIter int) *kmeansResult {
	dim := len(points[0])

	// 随机选 k 个不同的样本作为初始质心
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// 分配阶段：每个点归属最近质心
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if labels[i] != nearest {
				labels[i] = nearest
				changed = true
			}
		}

		// 更新阶段：质心取簇内均值，空簇保持原位
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dim; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}
	return &kmeansResult{centroids: centroids, labels: labels, inertia: inertia}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// silhouetteScore 计算整个批次的平均轮廓系数，衡量划分质量。
// s(i) = (b-a) / max(a,b)；a 为簇内平均距离，b 为到最近其他簇的平均距离。
// 单点簇的 s(i) 记 0；只有一个簇时整体为 0。
func silhouetteScore(points [][]float64, labels []int, k int) float64 {
	if len(points) < 2 || k < 2 {
		return 0
	}

	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var total float64
	for i, p := range points {
		own := labels[i]
		if counts[own] <= 1 {
			continue // s(i) = 0
		}

		// 到各簇的距离和
		sums := make([]float64, k)
		for j, q := range points {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(squaredDistance(p, q))
		}

		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if mean := sums[c] / float64(counts[c]); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(len(points))
}
