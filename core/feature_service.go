package core

import "context"

// FeatureService 是特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（dataset / feast）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 获取用户静态画像特征：gender / age / occupation
//   - 获取电影特征：movie_year / genres 等
//
// 实现：
//   - dataset.SnapshotFeatures 基于本地快照实现此接口
//   - feast.Adapter 基于 Feast 在线特征库实现此接口
type FeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetUserFeatures 获取用户特征（单个用户）
	GetUserFeatures(ctx context.Context, userID int64) (map[string]float64, error)

	// BatchGetUserFeatures 批量获取用户特征
	BatchGetUserFeatures(ctx context.Context, userIDs []int64) (map[int64]map[string]float64, error)

	// GetItemFeatures 获取电影特征（单个电影）
	GetItemFeatures(ctx context.Context, movieID int64) (map[string]float64, error)

	// BatchGetItemFeatures 批量获取电影特征
	BatchGetItemFeatures(ctx context.Context, movieIDs []int64) (map[int64]map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}

// ErrFeatureNotFound 表示请求的用户/电影在特征源中不存在。
var ErrFeatureNotFound = NewDomainError(ModuleFeature, ErrorCodeNotFound, "feature: entity not found")
