package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// SnapshotStore 把解析好的快照持久化到 core.KeyValueStore（内存或 Redis），
// 避免每次进程启动都重新解析原始文件。
//
// 存储布局：一个 Hash，三个字段分别存 ratings / movies / users 的 JSON 序列化。
type SnapshotStore struct {
	KV core.KeyValueStore

	// KeyPrefix 是 Hash key 前缀，默认 "movierec:snapshot"
	KeyPrefix string
}

// NewSnapshotStore 创建快照存储。
func NewSnapshotStore(kv core.KeyValueStore, keyPrefix string) *SnapshotStore {
	if keyPrefix == "" {
		keyPrefix = "movierec:snapshot"
	}
	return &SnapshotStore{KV: kv, KeyPrefix: keyPrefix}
}

func (s *SnapshotStore) key(name string) string {
	return s.KeyPrefix + ":" + name
}

// Save 将快照序列化写入存储，name 用于区分不同数据集版本。
func (s *SnapshotStore) Save(ctx context.Context, name string, snapshot *Snapshot) error {
	fields := map[string]any{
		"ratings": snapshot.Ratings,
		"movies":  snapshot.Movies,
		"users":   snapshot.Users,
	}
	for field, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", field, err)
		}
		if err := s.KV.HSet(ctx, s.key(name), field, data); err != nil {
			return fmt.Errorf("hset %s: %w", field, err)
		}
	}
	return nil
}

// Load 从存储读取并重建快照（索引在反序列化后重新构建）。
func (s *SnapshotStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	fields, err := s.KV.HGetAll(ctx, s.key(name))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, core.ErrStoreNotFound
	}

	var (
		ratings []core.RatingRecord
		movies  []core.MovieRecord
		users   []core.UserRecord
	)
	if data, ok := fields["ratings"]; ok {
		if err := json.Unmarshal(data, &ratings); err != nil {
			return nil, fmt.Errorf("unmarshal ratings: %w", err)
		}
	}
	if data, ok := fields["movies"]; ok {
		if err := json.Unmarshal(data, &movies); err != nil {
			return nil, fmt.Errorf("unmarshal movies: %w", err)
		}
	}
	if data, ok := fields["users"]; ok {
		if err := json.Unmarshal(data, &users); err != nil {
			return nil, fmt.Errorf("unmarshal users: %w", err)
		}
	}
	return NewSnapshot(ratings, movies, users), nil
}
