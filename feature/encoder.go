package feature

import "sort"

// OneHotEncoder One-Hot 编码（独热编码）
// 将单值类别特征转换为二进制向量，每个类别对应一个维度。
// 词表在 Fit 时固定；预测时遇到未知类别输出全零向量，而不是报错。
type OneHotEncoder struct {
	classes []string
	index   map[string]int
}

// Fit 从训练批次收集词表（去重并排序，保证编码顺序稳定）。
func (e *OneHotEncoder) Fit(values []string) {
	seen := make(map[string]struct{}, len(values))
	e.classes = e.classes[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		e.classes = append(e.classes, v)
	}
	sort.Strings(e.classes)

	e.index = make(map[string]int, len(e.classes))
	for i, c := range e.classes {
		e.index[c] = i
	}
}

// Transform 编码单个值。未知类别映射为全零向量。
func (e *OneHotEncoder) Transform(value string) []float64 {
	out := make([]float64, len(e.classes))
	if i, ok := e.index[value]; ok {
		out[i] = 1.0
	}
	return out
}

// Width 返回编码后的维度数。
func (e *OneHotEncoder) Width() int { return len(e.classes) }

// Classes 返回 Fit 时固定的词表（升序）。
func (e *OneHotEncoder) Classes() []string { return e.classes }

// MultiHotEncoder Multi-Hot 编码（多热编码）
// 将集合型类别特征（genres / platforms）转换为 0/1 向量。
// 词表在 Fit 时固定；预测时未见过的值被静默丢弃，不扩展词表。
type MultiHotEncoder struct {
	classes []string
	index   map[string]int
}

// Fit 从训练批次的全部集合收集词表。
func (e *MultiHotEncoder) Fit(sets [][]string) {
	seen := make(map[string]struct{})
	e.classes = e.classes[:0]
	for _, set := range sets {
		for _, v := range set {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			e.classes = append(e.classes, v)
		}
	}
	sort.Strings(e.classes)

	e.index = make(map[string]int, len(e.classes))
	for i, c := range e.classes {
		e.index[c] = i
	}
}

// Transform 编码一个集合。词表外的值被跳过。
func (e *MultiHotEncoder) Transform(set []string) []float64 {
	out := make([]float64, len(e.classes))
	for _, v := range set {
		if i, ok := e.index[v]; ok {
			out[i] = 1.0
		}
	}
	return out
}

// Width 返回编码后的维度数。
func (e *MultiHotEncoder) Width() int { return len(e.classes) }

// Classes 返回 Fit 时固定的词表（升序）。
func (e *MultiHotEncoder) Classes() []string { return e.classes }
