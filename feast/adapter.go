package feast

import (
	"context"
	"strings"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/conv"
)

// 默认的实体键与特征引用（与 Feast 仓库中的 feature view 定义对齐）。
var (
	DefaultUserEntityKey = "user_id"
	DefaultUserFeatures  = []string{
		"user_profile:gender",
		"user_profile:age",
		"user_profile:occupation",
	}

	DefaultItemEntityKey = "movie_id"
	DefaultItemFeatures  = []string{
		"movie_meta:movie_year",
	}
)

// Adapter 把 Feast 客户端适配为 core.FeatureService。
//
// 特征引用采用 Feast 的 "view:feature" 形式，写回领域层时
// 只保留冒号后的短名（gender / age / occupation / movie_year），
// 与本地快照特征源（dataset.SnapshotFeatures）的 key 对齐，
// 两种实现对 Assembler 完全可互换。
type Adapter struct {
	Client Client

	UserEntityKey string
	UserFeatures  []string
	ItemEntityKey string
	ItemFeatures  []string
}

// NewAdapter 创建使用默认实体键/特征引用的适配器。
func NewAdapter(client Client) *Adapter {
	return &Adapter{
		Client:        client,
		UserEntityKey: DefaultUserEntityKey,
		UserFeatures:  DefaultUserFeatures,
		ItemEntityKey: DefaultItemEntityKey,
		ItemFeatures:  DefaultItemFeatures,
	}
}

func (a *Adapter) Name() string { return "feature_service.feast" }

// GetUserFeatures 获取单个用户的画像特征。
func (a *Adapter) GetUserFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	all, err := a.BatchGetUserFeatures(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	features, ok := all[userID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return features, nil
}

// BatchGetUserFeatures 批量获取用户画像特征。
func (a *Adapter) BatchGetUserFeatures(ctx context.Context, userIDs []int64) (map[int64]map[string]float64, error) {
	return a.batchGet(ctx, a.UserEntityKey, a.UserFeatures, userIDs)
}

// GetItemFeatures 获取单部电影的特征。
func (a *Adapter) GetItemFeatures(ctx context.Context, movieID int64) (map[string]float64, error) {
	all, err := a.BatchGetItemFeatures(ctx, []int64{movieID})
	if err != nil {
		return nil, err
	}
	features, ok := all[movieID]
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return features, nil
}

// BatchGetItemFeatures 批量获取电影特征。
func (a *Adapter) BatchGetItemFeatures(ctx context.Context, movieIDs []int64) (map[int64]map[string]float64, error) {
	return a.batchGet(ctx, a.ItemEntityKey, a.ItemFeatures, movieIDs)
}

// Close 关闭底层客户端。
func (a *Adapter) Close(_ context.Context) error {
	if a.Client == nil {
		return nil
	}
	return a.Client.Close()
}

func (a *Adapter) batchGet(
	ctx context.Context,
	entityKey string,
	featureRefs []string,
	ids []int64,
) (map[int64]map[string]float64, error) {
	if len(ids) == 0 {
		return map[int64]map[string]float64{}, nil
	}

	entityRows := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		entityRows[i] = map[string]interface{}{entityKey: id}
	}

	resp, err := a.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   featureRefs,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int64]map[string]float64, len(ids))
	for i, vec := range resp.FeatureVectors {
		if i >= len(ids) {
			break
		}
		features := make(map[string]float64, len(vec.Values))
		for ref, raw := range vec.Values {
			val, ok := conv.ToFloat64(raw)
			if !ok {
				continue
			}
			features[shortName(ref)] = val
		}
		if len(features) > 0 {
			out[ids[i]] = features
		}
	}
	return out, nil
}

// shortName 提取 "view:feature" 引用中的特征短名。
func shortName(ref string) string {
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

var _ core.FeatureService = (*Adapter)(nil)
