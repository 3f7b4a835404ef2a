package feature

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/encoder"
)

func testData() ([]core.RatingRecord, []core.MovieRecord, []core.UserRecord) {
	ratings := []core.RatingRecord{
		{UserID: 1, MovieID: 1, Rating: 5, Timestamp: 100},
		{UserID: 1, MovieID: 99, Rating: 3, Timestamp: 200}, // 无对应电影
		{UserID: 77, MovieID: 2, Rating: 4, Timestamp: 300}, // 无对应用户
	}
	movies := []core.MovieRecord{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation"}, PrimaryGenre: "Animation", ReleaseYear: 1995},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure"}, PrimaryGenre: "Adventure", ReleaseYear: 1995},
	}
	users := []core.UserRecord{
		{UserID: 1, Gender: 0, Age: 0, Occupation: 10},
	}
	return ratings, movies, users
}

func TestJoin_LeftJoinSemantics(t *testing.T) {
	ratings, movies, users := testData()
	rows := Join(ratings, movies, users)

	// 左连接：每条评分必出一行
	if len(rows) != len(ratings) {
		t.Fatalf("期望 %d 行，实际 %d", len(ratings), len(rows))
	}

	// 完整命中
	if !rows[0].HasMovie || !rows[0].HasUser {
		t.Errorf("行 0 应同时命中电影和用户: %+v", rows[0])
	}
	if rows[0].PrimaryGenre != "Animation" || rows[0].ReleaseYear != 1995 {
		t.Errorf("行 0 电影字段错误: %+v", rows[0])
	}

	// 电影缺失：行保留，电影字段为零值
	if rows[1].HasMovie {
		t.Error("行 1 不应命中电影")
	}
	if rows[1].PrimaryGenre != "" || rows[1].ReleaseYear != 0 {
		t.Errorf("行 1 电影字段应为零值: %+v", rows[1])
	}
	if !rows[1].HasUser {
		t.Error("行 1 应命中用户")
	}

	// 用户缺失：行保留，用户字段为零值
	if rows[2].HasUser {
		t.Error("行 2 不应命中用户")
	}
	if rows[2].Gender != 0 || rows[2].Age != 0 || rows[2].Occupation != 0 {
		t.Errorf("行 2 用户字段应为零值: %+v", rows[2])
	}
}

func fittedRegistry(t *testing.T) *encoder.Registry {
	t.Helper()
	ratings, movies, users := testData()
	joined := Join(ratings, movies, users)
	rows := make([]map[string]any, 0, len(joined))
	for i := range joined {
		rows = append(rows, joined[i].Features())
	}
	registry := encoder.NewRegistry(encoder.DefaultColumns())
	if err := registry.Fit(rows); err != nil {
		t.Fatalf("拟合失败: %v", err)
	}
	return registry
}

func TestAssembler_BuildRow(t *testing.T) {
	a := NewAssembler(fittedRegistry(t))
	user := &core.UserRecord{UserID: 1, Gender: 0, Age: 0, Occupation: 10}
	movie := &core.MovieRecord{MovieID: 2, Title: "Jumanji (1995)", PrimaryGenre: "Adventure", ReleaseYear: 1995}

	row := a.BuildRow(user, movie)
	if row.UserID != 1 || row.MovieID != 2 {
		t.Errorf("主键错误: %+v", row)
	}
	if !row.HasMovie || !row.HasUser {
		t.Errorf("推理行应同时携带电影与用户特征: %+v", row)
	}
	if row.Rating != 0 {
		t.Errorf("推理行无评分: %+v", row)
	}
}

func TestAssembler_CandidateRows(t *testing.T) {
	a := NewAssembler(fittedRegistry(t))
	user := &core.UserRecord{UserID: 1, Gender: 0, Age: 0, Occupation: 10}

	// 候选里混入一部词表外的电影（Comedy 不在训练数据中出现过）
	candidates := []*core.MovieRecord{
		{MovieID: 2, Title: "Jumanji (1995)", PrimaryGenre: "Adventure", ReleaseYear: 1995},
		{MovieID: 5, Title: "New Film (2001)", PrimaryGenre: "Comedy", ReleaseYear: 2001},
		{MovieID: 1, Title: "Toy Story (1995)", PrimaryGenre: "Animation", ReleaseYear: 1995},
	}

	items, dropped, err := a.CandidateRows(context.Background(), user, candidates)
	if err != nil {
		t.Fatalf("候选编码失败: %v", err)
	}
	if dropped != 1 {
		t.Errorf("期望丢弃 1 行，实际 %d", dropped)
	}
	// movieId 升序枚举
	if len(items) != 2 || items[0].MovieID != 1 || items[1].MovieID != 2 {
		t.Fatalf("候选顺序错误: %v", items)
	}
	for _, it := range items {
		if it.Encoded == nil || it.Row == nil {
			t.Errorf("候选 %d 缺少编码结果", it.MovieID)
		}
	}
}

func TestAssembler_ResolveUser(t *testing.T) {
	a := NewAssembler(fittedRegistry(t))

	// rctx.User 优先
	user := &core.UserRecord{UserID: 1}
	got, ok := a.ResolveUser(context.Background(), &core.RecommendContext{UserID: 1, User: user})
	if !ok || got != user {
		t.Error("应直接使用 rctx.User")
	}

	// 无画像且无特征服务
	if _, ok := a.ResolveUser(context.Background(), &core.RecommendContext{UserID: 999}); ok {
		t.Error("无画像时应返回 false")
	}
}
