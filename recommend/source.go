package recommend

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

// SnapshotSource 是基于数据集快照的候选源：枚举快照中的全部电影。
// 已评分剔除由后续的 filter.RatedFilter 完成，候选源只负责枚举全集。
type SnapshotSource struct {
	Snapshot *dataset.Snapshot
}

// NewSnapshotSource 创建快照候选源。
func NewSnapshotSource(snapshot *dataset.Snapshot) *SnapshotSource {
	return &SnapshotSource{Snapshot: snapshot}
}

func (s *SnapshotSource) Name() string { return "source.snapshot" }

// Movies 返回快照中的全部电影，按 movieId 升序。
func (s *SnapshotSource) Movies(_ context.Context, _ *core.RecommendContext) ([]*core.MovieRecord, error) {
	if s.Snapshot == nil {
		return nil, nil
	}
	out := make([]*core.MovieRecord, 0, len(s.Snapshot.Movies))
	for i := range s.Snapshot.Movies {
		out = append(out, &s.Snapshot.Movies[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}
