package recommend

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
)

// DefaultPopularityKey 是热门榜有序集合的默认 key。
const DefaultPopularityKey = "movierec:popularity"

// PopularitySource 是基于热门榜的候选源：从有序集合读取按平均分
// 降序排列的电影 ID。用于冷启动兜底（无画像/无模型的降级路径），
// 也可以单独作为"热门推荐"链路的候选源。
type PopularitySource struct {
	KV       core.KeyValueStore
	Snapshot *dataset.Snapshot

	// Key 热门榜 zset 的 key，空值使用 DefaultPopularityKey
	Key string
	// Limit 榜单截断长度，<= 0 表示取全量
	Limit int64
}

func (s *PopularitySource) Name() string { return "source.popularity" }

func (s *PopularitySource) key() string {
	if s.Key != "" {
		return s.Key
	}
	return DefaultPopularityKey
}

// Movies 从有序集合按分数降序取电影 ID，并回查快照得到电影记录。
// 榜单中找不到对应记录的 ID 会被跳过。
func (s *PopularitySource) Movies(ctx context.Context, _ *core.RecommendContext) ([]*core.MovieRecord, error) {
	if s.KV == nil || s.Snapshot == nil {
		return nil, nil
	}

	stop := s.Limit - 1
	if s.Limit <= 0 {
		stop = -1
	}
	members, err := s.KV.ZRange(ctx, s.key(), 0, stop)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]*core.MovieRecord, 0, len(members))
	for _, member := range members {
		movieID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		if m, ok := s.Snapshot.Movie(movieID); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// WarmPopularity 用快照中每部电影的平均评分重建热门榜。
// 通常在快照加载后调用一次；榜单成员是电影 ID 的十进制字符串。
func WarmPopularity(ctx context.Context, kv core.KeyValueStore, key string, snapshot *dataset.Snapshot) error {
	if kv == nil || snapshot == nil {
		return nil
	}
	if key == "" {
		key = DefaultPopularityKey
	}
	for movieID, mean := range snapshot.MeanRatingByMovie() {
		if err := kv.ZAdd(ctx, key, mean, strconv.FormatInt(movieID, 10)); err != nil {
			return err
		}
	}
	return nil
}
