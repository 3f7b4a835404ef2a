package feast

import (
	"context"
	"testing"
)

// fakeClient 返回预置的特征向量，用于离线测试 Adapter。
type fakeClient struct {
	resp *GetOnlineFeaturesResponse
	err  error

	lastReq *GetOnlineFeaturesRequest
}

func (c *fakeClient) GetOnlineFeatures(_ context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	c.lastReq = req
	return c.resp, c.err
}

func (c *fakeClient) Close() error { return nil }

func TestAdapter_GetUserFeatures(t *testing.T) {
	fake := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{
				{
					Values: map[string]interface{}{
						"user_profile:gender":     float64(1),
						"user_profile:age":        float64(25),
						"user_profile:occupation": float64(4),
					},
					EntityRow: map[string]interface{}{"user_id": int64(1001)},
				},
			},
		},
	}
	adapter := NewAdapter(fake)

	features, err := adapter.GetUserFeatures(context.Background(), 1001)
	if err != nil {
		t.Fatalf("获取用户特征失败: %v", err)
	}

	// 特征引用应被还原为短名，与快照特征源对齐
	for _, key := range []string{"gender", "age", "occupation"} {
		if _, ok := features[key]; !ok {
			t.Errorf("缺少特征 %q: %+v", key, features)
		}
	}
	if features["age"] != 25 {
		t.Errorf("age: 期望 25，实际 %v", features["age"])
	}

	if fake.lastReq.EntityRows[0]["user_id"] != int64(1001) {
		t.Errorf("实体行错误: %+v", fake.lastReq.EntityRows)
	}
}

func TestAdapter_GetUserFeatures_NotFound(t *testing.T) {
	fake := &fakeClient{
		resp: &GetOnlineFeaturesResponse{
			FeatureVectors: []FeatureVector{{Values: map[string]interface{}{}}},
		},
	}
	adapter := NewAdapter(fake)

	if _, err := adapter.GetUserFeatures(context.Background(), 999); err == nil {
		t.Fatal("期望返回 not found 错误")
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"user_profile:gender", "gender"},
		{"movie_meta:movie_year", "movie_year"},
		{"age", "age"},
	}
	for _, tt := range tests {
		if got := shortName(tt.ref); got != tt.expected {
			t.Errorf("shortName(%q) = %q, 期望 %q", tt.ref, got, tt.expected)
		}
	}
}

// TestGrpcClient_GetOnlineFeatures 需要连接真实的 Feast 服务器
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "movierec")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	adapter := NewAdapter(client)
	features, err := adapter.GetUserFeatures(ctx, 1)
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}
	t.Logf("用户特征: %+v", features)
}
