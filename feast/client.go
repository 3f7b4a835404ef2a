// Package feast 提供基于 Feast Feature Store 的在线特征获取。
// feast.Adapter 实现 core.FeatureService，可替代本地快照画像源。
package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 的客户端接口。
//
// Feast 是一个开源的 Feature Store，提供：
//   - 在线特征存储（Online Store）：用于实时预测
//   - Feature Server：提供特征服务
//
// 本库只消费在线特征（推理路径），训练侧的历史特征/物化不在范围内。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时预测）
	//
	// 参数：
	//   - features: 特征名称列表，例如 ["user_profile:age", "user_profile:occupation"]
	//   - entityRows: 实体行，例如 [{"user_id": 1001}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["user_profile:age", "user_profile:occupation"]
	Features []string

	// EntityRows 实体行，例如 [{"user_id": 1001}, {"user_id": 1002}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，默认使用客户端配置的项目）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientConfig 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点，例如 "localhost:6565"
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 请求超时
	Timeout time.Duration

	// Auth 认证配置（可选）
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型："static"（静态 Token）
	Type string

	// Token 静态 Token
	Token string
}

// ClientOption 配置客户端的可选项
type ClientOption func(*ClientConfig)

// WithTimeout 设置请求超时
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithStaticToken 使用静态 Token 认证
func WithStaticToken(token string) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = &AuthConfig{Type: "static", Token: token}
	}
}
