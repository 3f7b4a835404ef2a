package dataset

import (
	"math"
	"testing"

	"github.com/rushteam/movierec/core"
)

func testSnapshot() *Snapshot {
	ratings := []core.RatingRecord{
		{UserID: 1, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 3, Rating: 4},
		{UserID: 2, MovieID: 1, Rating: 3},
		{UserID: 2, MovieID: 2, Rating: 5},
	}
	movies := []core.MovieRecord{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}, PrimaryGenre: "Animation", ReleaseYear: 1995},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure"}, PrimaryGenre: "Adventure", ReleaseYear: 1995},
		{MovieID: 3, Title: "Casablanca (1942)", Genres: []string{"Drama"}, PrimaryGenre: "Drama", ReleaseYear: 1942},
	}
	users := []core.UserRecord{
		{UserID: 1, Gender: 0, Age: 0, Occupation: 10},
		{UserID: 2, Gender: 1, Age: 2, Occupation: 15},
	}
	return NewSnapshot(ratings, movies, users)
}

func TestSnapshot_Lookups(t *testing.T) {
	s := testSnapshot()

	if m, ok := s.Movie(2); !ok || m.Title != "Jumanji (1995)" {
		t.Errorf("Movie(2) 错误: %+v, %v", m, ok)
	}
	if _, ok := s.Movie(99); ok {
		t.Error("Movie(99) 应不存在")
	}
	if !s.HasUser(1) || s.HasUser(999) {
		t.Error("HasUser 判断错误")
	}
}

func TestSnapshot_RatedBy(t *testing.T) {
	s := testSnapshot()

	rated := s.RatedBy(1)
	if len(rated) != 2 || !rated[1] || !rated[3] {
		t.Errorf("用户 1 的评分集合错误: %v", rated)
	}
	if len(s.RatedBy(999)) != 0 {
		t.Error("无评分历史的用户应返回空集合")
	}
}

func TestSnapshot_UnratedMovieIDs(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		userID   int64
		expected []int64
	}{
		{1, []int64{2}},
		{2, []int64{3}},
		{999, []int64{1, 2, 3}}, // 无历史：全部候选，movieId 升序
	}
	for _, tt := range tests {
		got := s.UnratedMovieIDs(tt.userID)
		if len(got) != len(tt.expected) {
			t.Errorf("用户 %d: 期望 %v，实际 %v", tt.userID, tt.expected, got)
			continue
		}
		for i, id := range tt.expected {
			if got[i] != id {
				t.Errorf("用户 %d: 期望 %v，实际 %v", tt.userID, tt.expected, got)
				break
			}
		}
	}
}

func TestSnapshot_GenreCounts(t *testing.T) {
	s := testSnapshot()
	counts := s.GenreCounts()
	if len(counts) != 3 {
		t.Fatalf("期望 3 个类型，实际 %d", len(counts))
	}
	// 次数相同按类型名升序
	if counts[0].Genre != "Adventure" || counts[1].Genre != "Animation" || counts[2].Genre != "Drama" {
		t.Errorf("排序错误: %+v", counts)
	}
}

func TestSnapshot_RatingDistribution(t *testing.T) {
	s := testSnapshot()
	dist := s.RatingDistribution()
	if dist[5] != 2 || dist[4] != 1 || dist[3] != 1 {
		t.Errorf("评分分布错误: %v", dist)
	}
}

func TestSnapshot_MeanRatingByYear(t *testing.T) {
	s := testSnapshot()
	means := s.MeanRatingByYear()

	// 1995: 电影 1 均分 (5+3)/2=4，电影 2 均分 5 → 年均 4.5
	if math.Abs(means[1995]-4.5) > 1e-9 {
		t.Errorf("1995 年均分: 期望 4.5，实际 %v", means[1995])
	}
	// 1942: 电影 3 均分 4
	if math.Abs(means[1942]-4.0) > 1e-9 {
		t.Errorf("1942 年均分: 期望 4.0，实际 %v", means[1942])
	}
}

func TestSnapshot_MeanRatingByMovie(t *testing.T) {
	s := testSnapshot()
	means := s.MeanRatingByMovie()
	if math.Abs(means[1]-4.0) > 1e-9 {
		t.Errorf("电影 1 均分: 期望 4.0，实际 %v", means[1])
	}
	if math.Abs(means[2]-5.0) > 1e-9 {
		t.Errorf("电影 2 均分: 期望 5.0，实际 %v", means[2])
	}
}
