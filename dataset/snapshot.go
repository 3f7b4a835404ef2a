package dataset

import (
	"sort"

	"github.com/rushteam/movierec/core"
)

// Snapshot 是三个记录集的不可变内存快照，附带推荐链路需要的索引。
// 构建完成后只读；多个并发请求可以安全共享同一个快照。
//
// 索引：
//   - movieByID / userByID: 主键查找
//   - ratedBy: userId -> 已评分的 movieId 集合（候选排除用）
//
// 重复的 (userId, movieId) 评分不在此强制去重，后出现的行覆盖 ratedBy 中的记录
// （集合语义下结果相同），Ratings 切片保留原始行。
type Snapshot struct {
	Ratings []core.RatingRecord
	Movies  []core.MovieRecord
	Users   []core.UserRecord

	movieByID map[int64]*core.MovieRecord
	userByID  map[int64]*core.UserRecord
	ratedBy   map[int64]map[int64]bool
}

// NewSnapshot 从记录集构建快照并建立索引。
func NewSnapshot(ratings []core.RatingRecord, movies []core.MovieRecord, users []core.UserRecord) *Snapshot {
	s := &Snapshot{
		Ratings:   ratings,
		Movies:    movies,
		Users:     users,
		movieByID: make(map[int64]*core.MovieRecord, len(movies)),
		userByID:  make(map[int64]*core.UserRecord, len(users)),
		ratedBy:   make(map[int64]map[int64]bool),
	}
	for i := range movies {
		s.movieByID[movies[i].MovieID] = &movies[i]
	}
	for i := range users {
		s.userByID[users[i].UserID] = &users[i]
	}
	for _, r := range ratings {
		set, ok := s.ratedBy[r.UserID]
		if !ok {
			set = make(map[int64]bool)
			s.ratedBy[r.UserID] = set
		}
		set[r.MovieID] = true
	}
	return s
}

// Movie 按 ID 查找电影记录。
func (s *Snapshot) Movie(movieID int64) (*core.MovieRecord, bool) {
	m, ok := s.movieByID[movieID]
	return m, ok
}

// User 按 ID 查找用户记录。
func (s *Snapshot) User(userID int64) (*core.UserRecord, bool) {
	u, ok := s.userByID[userID]
	return u, ok
}

// HasUser 判断用户是否存在于用户集中。
func (s *Snapshot) HasUser(userID int64) bool {
	_, ok := s.userByID[userID]
	return ok
}

// RatedBy 返回用户已评分的电影 ID 集合；用户无评分历史时返回空集合。
func (s *Snapshot) RatedBy(userID int64) map[int64]bool {
	if set, ok := s.ratedBy[userID]; ok {
		return set
	}
	return nil
}

// UnratedMovieIDs 返回用户未评分的电影 ID 列表，按 movieId 升序（保证候选枚举确定性）。
func (s *Snapshot) UnratedMovieIDs(userID int64) []int64 {
	rated := s.ratedBy[userID]
	out := make([]int64, 0, len(s.Movies))
	for i := range s.Movies {
		id := s.Movies[i].MovieID
		if rated[id] {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
