package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/gamerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("game", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选过滤表达式的解释器，使用 CEL (Common Expression Language) 实现。
// 用于把运营配置的目录过滤条件作用到候选集上。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：game.rating >= 4.0 / game.metacritic > 80
//   - 集合："RPG" in game.genres / "PC" in game.platforms
//   - 分级：game.esrb != "M"
//   - 标签：label.recall_source.value == "popular"
//   - 逻辑组合：game.rating >= 3.0 && "RPG" in game.genres
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的表达式解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 编译并执行表达式，返回布尔结果。
// 空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	game := map[string]interface{}{}
	item := map[string]interface{}{}
	rctx := map[string]interface{}{}

	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
		}
		item = map[string]interface{}{
			"id":    e.item.ID,
			"score": e.item.Score,
		}
		if g := e.item.Game; g != nil {
			game = map[string]interface{}{
				"id":         g.ID,
				"name":       g.Name,
				"rating":     g.Rating,
				"metacritic": g.Metacritic,
				"esrb":       g.ESRB,
				"genres":     g.Genres,
				"platforms":  g.Platforms,
				"publishers": g.Publishers,
				"tags":       g.Tags,
			}
		}
	}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id":   e.rctx.UserID,
			"anonymous": e.rctx.Anonymous,
		}
	}

	return map[string]interface{}{
		"item":  item,
		"game":  game,
		"label": labels,
		"rctx":  rctx,
	}
}
