package dataset

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// SnapshotFeatures 基于本地快照实现 core.FeatureService。
// 是特征组装的默认特征源；需要远程特征库时可替换为 feast.Adapter。
type SnapshotFeatures struct {
	snapshot *Snapshot
}

// NewSnapshotFeatures 创建基于快照的特征服务。
func NewSnapshotFeatures(snapshot *Snapshot) *SnapshotFeatures {
	return &SnapshotFeatures{snapshot: snapshot}
}

func (f *SnapshotFeatures) Name() string { return "snapshot" }

func (f *SnapshotFeatures) GetUserFeatures(ctx context.Context, userID int64) (map[string]float64, error) {
	u, ok := f.snapshot.User(userID)
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return map[string]float64{
		"gender":     float64(u.Gender),
		"age":        float64(u.Age),
		"occupation": float64(u.Occupation),
	}, nil
}

func (f *SnapshotFeatures) BatchGetUserFeatures(ctx context.Context, userIDs []int64) (map[int64]map[string]float64, error) {
	out := make(map[int64]map[string]float64, len(userIDs))
	for _, id := range userIDs {
		features, err := f.GetUserFeatures(ctx, id)
		if err != nil {
			continue // 缺失的用户直接跳过
		}
		out[id] = features
	}
	return out, nil
}

func (f *SnapshotFeatures) GetItemFeatures(ctx context.Context, movieID int64) (map[string]float64, error) {
	m, ok := f.snapshot.Movie(movieID)
	if !ok {
		return nil, core.ErrFeatureNotFound
	}
	return map[string]float64{
		"movie_year": float64(m.ReleaseYear),
	}, nil
}

func (f *SnapshotFeatures) BatchGetItemFeatures(ctx context.Context, movieIDs []int64) (map[int64]map[string]float64, error) {
	out := make(map[int64]map[string]float64, len(movieIDs))
	for _, id := range movieIDs {
		features, err := f.GetItemFeatures(ctx, id)
		if err != nil {
			continue
		}
		out[id] = features
	}
	return out, nil
}

func (f *SnapshotFeatures) Close(ctx context.Context) error { return nil }

var _ core.FeatureService = (*SnapshotFeatures)(nil)
