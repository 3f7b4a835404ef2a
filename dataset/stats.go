package dataset

import "sort"

// 数据集聚合统计：供看板/报表类调用方消费的纯计算 API。
// 图表渲染不属于本库的职责。

// GenreCount 是一个 (类型, 出现次数) 统计项。
type GenreCount struct {
	Genre string
	Count int
}

// GenreCounts 统计电影主类型的分布，按次数降序、同次数按类型名升序。
func (s *Snapshot) GenreCounts() []GenreCount {
	counts := make(map[string]int)
	for i := range s.Movies {
		counts[s.Movies[i].PrimaryGenre]++
	}
	out := make([]GenreCount, 0, len(counts))
	for g, c := range counts {
		out = append(out, GenreCount{Genre: g, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// RatingDistribution 统计各评分值（1..5）的出现次数。
func (s *Snapshot) RatingDistribution() map[int]int {
	dist := make(map[int]int)
	for _, r := range s.Ratings {
		dist[r.Rating]++
	}
	return dist
}

// YearDistribution 统计各上映年份的电影数量（年份 0 表示标题未携带年份）。
func (s *Snapshot) YearDistribution() map[int]int {
	dist := make(map[int]int)
	for i := range s.Movies {
		dist[s.Movies[i].ReleaseYear]++
	}
	return dist
}

// MeanRatingByYear 计算各上映年份的平均评分（先对每部电影取均值，再按年份取均值，
// 与看板口径一致：movieId 粒度 → movie_year 粒度两级聚合）。
func (s *Snapshot) MeanRatingByYear() map[int]float64 {
	sum := make(map[int64]float64)
	cnt := make(map[int64]int)
	for _, r := range s.Ratings {
		sum[r.MovieID] += float64(r.Rating)
		cnt[r.MovieID]++
	}

	yearSum := make(map[int]float64)
	yearCnt := make(map[int]int)
	for movieID, c := range cnt {
		m, ok := s.Movie(movieID)
		if !ok {
			continue
		}
		yearSum[m.ReleaseYear] += sum[movieID] / float64(c)
		yearCnt[m.ReleaseYear]++
	}

	out := make(map[int]float64, len(yearSum))
	for year, total := range yearSum {
		out[year] = total / float64(yearCnt[year])
	}
	return out
}

// MeanRatingByMovie 计算每部电影的平均评分（热门榜等兜底策略使用）。
func (s *Snapshot) MeanRatingByMovie() map[int64]float64 {
	sum := make(map[int64]float64)
	cnt := make(map[int64]int)
	for _, r := range s.Ratings {
		sum[r.MovieID] += float64(r.Rating)
		cnt[r.MovieID]++
	}
	out := make(map[int64]float64, len(sum))
	for id, c := range cnt {
		out[id] = sum[id] / float64(c)
	}
	return out
}
