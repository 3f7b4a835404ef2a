package core

import (
	"strconv"
	"strings"
)

// RatingRecord 是一条用户对电影的评分记录（不可变）。
// 源数据中 (UserID, MovieID) 至多出现一次，但加载时不强制校验；
// 重复行以后出现者为准（见 dataset.Snapshot）。
type RatingRecord struct {
	UserID    int64
	MovieID   int64
	Rating    int // 1..5
	Timestamp int64
}

// MovieRecord 是一条电影记录。
// Title 保留原始文本（可能带 "(YYYY)" 年份后缀），Genres 保留完整的类型列表；
// PrimaryGenre 与 ReleaseYear 是建模用的派生字段。
type MovieRecord struct {
	MovieID int64
	Title   string
	Genres  []string // 源数据中以 '|' 分隔，保持原有顺序

	PrimaryGenre string // Genres[0]
	ReleaseYear  int    // 从 Title 末尾的 "(YYYY)" 解析；解析失败为 0
}

// UserRecord 是一条用户记录（建模视角，zipCode 在加载时丢弃）。
// Gender 与 Age 已经映射为模型需要的编码：
//   - Gender: F→0, M→1
//   - Age: 年龄段编码 {1→0, 18→1, 25→2, 35→3, 45→4, 50→5, 56→6}
type UserRecord struct {
	UserID     int64
	Gender     int
	Age        int
	Occupation int
}

// JoinedRecord 是 ratings ⋈ movies ⋈ users 左连接后的一行，
// 每条评分一行，携带下游建模所需的全部特征。
// HasMovie / HasUser 标记连接是否命中：未命中时对应字段为零值（即 null 语义）。
type JoinedRecord struct {
	UserID    int64
	MovieID   int64
	Rating    int
	Timestamp int64

	// 来自 MovieRecord（HasMovie=false 时为零值）
	PrimaryGenre string
	ReleaseYear  int
	HasMovie     bool

	// 来自 UserRecord（HasUser=false 时为零值）
	Gender     int
	Age        int
	Occupation int
	HasUser    bool
}

// Features 返回该行的原始特征字典（编码前），key 与原始数据列名保持一致。
// 类别列（genres）为 string，其余为数值。
func (r *JoinedRecord) Features() map[string]any {
	return map[string]any{
		"userId":     r.UserID,
		"movieId":    r.MovieID,
		"genres":     r.PrimaryGenre,
		"movie_year": r.ReleaseYear,
		"gender":     r.Gender,
		"age":        r.Age,
		"occupation": r.Occupation,
	}
}

// ParseReleaseYear 从电影标题末尾的 "(YYYY)" 解析上映年份。
// 解析失败返回 0（标题没有年份后缀的行保留，年份按缺失处理）。
func ParseReleaseYear(title string) int {
	title = strings.TrimSpace(title)
	if !strings.HasSuffix(title, ")") {
		return 0
	}
	idx := strings.LastIndex(title, "(")
	if idx < 0 {
		return 0
	}
	year, err := strconv.Atoi(title[idx+1 : len(title)-1])
	if err != nil {
		return 0
	}
	return year
}

// PrimaryGenre 返回 '|' 分隔的类型串中的第一个类型。
func PrimaryGenre(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	return genres[0]
}

// AgeBrackets 是 MovieLens 年龄段到序数编码的固定映射表。
var AgeBrackets = map[int]int{
	1:  0,
	18: 1,
	25: 2,
	35: 3,
	45: 4,
	50: 5,
	56: 6,
}

// MapAgeBracket 将原始年龄段编码映射为序数编码；
// 不在映射表中的值原样返回（与源数据处理保持一致）。
func MapAgeBracket(raw int) int {
	if code, ok := AgeBrackets[raw]; ok {
		return code
	}
	return raw
}

// MapGender 将 F/M 映射为 0/1；其他取值返回 0。
func MapGender(raw string) int {
	if strings.EqualFold(raw, "M") {
		return 1
	}
	return 0
}
