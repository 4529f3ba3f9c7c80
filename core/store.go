package core

import "context"

// Store 是 KV 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 推荐结果缓存（带 TTL）
//   - 热门榜单存储（配合 KeyValueStore 的有序集合）
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取（减少网络往返）
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持更丰富的 KV 操作。
//
// 扩展功能：
//   - 有序集合（SortedSet）：用于热门榜单
//   - 哈希表（Hash）：用于游戏元数据
//
// 如果后端不支持某些操作，可返回 ErrStoreNotSupported。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取有序集合成员（用于 TopN 热门）
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZScore 获取成员的分数
	ZScore(ctx context.Context, key string, member string) (float64, error)

	// HGet 读取 Hash 字段
	HGet(ctx context.Context, key, field string) ([]byte, error)

	// HSet 写入 Hash 字段
	HSet(ctx context.Context, key, field string, value []byte) error

	// HGetAll 读取整个 Hash
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// GameFilter 是 ListGames 的可选过滤条件，nil 字段表示不过滤。
type GameFilter struct {
	Genres    []string // 任一 genre 命中即保留
	Platforms []string
	// MinRating / MaxRating 构成评分窗口，两者同为 0 时不过滤。
	MinRating float64
	MaxRating float64
}

// CatalogStore 是目录/评分/行为数据的领域接口。
// 引擎只借用读权限；写回仅限偏好画像与离线热度分。
//
// 实现：
//   - store.MemoryCatalog（开发/测试）
//   - 业务方可基于自己的 DB 实现此接口
type CatalogStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetGame 按 ID 获取游戏
	GetGame(ctx context.Context, id int64) (*Game, error)

	// ListGames 列出游戏，filter 为 nil 时返回全量
	ListGames(ctx context.Context, filter *GameFilter) ([]*Game, error)

	// CountGames 返回目录条目数
	CountGames(ctx context.Context) (int, error)

	// GetRatings 获取某用户的全部评分
	GetRatings(ctx context.Context, userID int64) ([]*GameRating, error)

	// AllRatings 获取全量评分（协同过滤构建矩阵、离线批任务用）
	AllRatings(ctx context.Context) ([]*GameRating, error)

	// UpsertRating 写入/覆盖一条评分，(user, game) 唯一
	UpsertRating(ctx context.Context, r *GameRating) error

	// GetInteractions 获取某用户的行为记录，kind 为空表示全部
	GetInteractions(ctx context.Context, userID int64, kind InteractionKind) ([]*Interaction, error)

	// AllInteractions 获取全量行为记录（离线批任务统计热度用）
	AllInteractions(ctx context.Context) ([]*Interaction, error)

	// AppendInteraction 追加一条行为记录（只追加，从不修改）
	AppendInteraction(ctx context.Context, in *Interaction) error

	// GetPreference 获取偏好画像，不存在时返回 ErrStoreNotFound
	GetPreference(ctx context.Context, userID int64) (*Preference, error)

	// UpsertPreference 整体覆盖偏好画像
	UpsertPreference(ctx context.Context, p *Preference) error

	// UpdateGamePopularity 回写离线热度分（仅批任务调用）
	UpdateGamePopularity(ctx context.Context, gameID int64, score float64) error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
