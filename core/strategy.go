package core

// Strategy 是推荐策略的封闭枚举。
// 字符串形式只出现在解析边界；错拼的策略名是输入校验错误，
// 不会被静默当成某个默认策略。
type Strategy string

const (
	StrategyContent       Strategy = "content"       // 基于内容
	StrategyCollaborative Strategy = "collaborative" // 协同过滤
	StrategyHybrid        Strategy = "hybrid"        // 混合
	StrategyPopular       Strategy = "popular"       // 热门
	StrategyTrending      Strategy = "trending"      // 趋势（近期发售）
)

// AllStrategies 是全部合法策略，缓存失效等需要穷举的场景使用。
var AllStrategies = []Strategy{
	StrategyContent,
	StrategyCollaborative,
	StrategyHybrid,
	StrategyPopular,
	StrategyTrending,
}

// ParseStrategy 解析策略名，未知名字返回 INVALID_INPUT 错误。
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyContent, StrategyCollaborative, StrategyHybrid, StrategyPopular, StrategyTrending:
		return Strategy(s), nil
	default:
		return "", NewDomainError(ModuleEngine, ErrorCodeInvalidInput,
			"unknown recommendation strategy: "+s)
	}
}

func (s Strategy) String() string { return string(s) }

// Valid 判断策略是否属于封闭集合。
func (s Strategy) Valid() bool {
	_, err := ParseStrategy(string(s))
	return err == nil
}
