// Package gamerec 是一个混合式游戏推荐引擎。
//
// 设计要点：
//   - Pipeline-first: 推荐链路通过 Node 串联（Recall → Filter → ReRank → PostProcess）
//   - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
//   - 策略封闭: 五种策略（content / collaborative / hybrid / popular / trending）
//     构成封闭集合，未知策略在入口处被拒绝而不是静默回退
package gamerec

import "github.com/rushteam/gamerec/pipeline"

// 轻量 facade：便于用户直接 import "gamerec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
