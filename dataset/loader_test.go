package dataset

import (
	"strings"
	"testing"
)

func TestParseRatings(t *testing.T) {
	input := "1::1193::5::978300760\n1::661::3::978302109\n\n2::1357::5::978298709\n"
	ratings, err := ParseRatings(strings.NewReader(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("期望 3 条记录，实际 %d", len(ratings))
	}
	first := ratings[0]
	if first.UserID != 1 || first.MovieID != 1193 || first.Rating != 5 || first.Timestamp != 978300760 {
		t.Errorf("首条记录解析错误: %+v", first)
	}
}

func TestParseRatings_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"字段数不足", "1::1193::5\n"},
		{"非数字评分", "1::1193::five::978300760\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRatings(strings.NewReader(tt.input)); err == nil {
				t.Error("期望解析报错")
			}
		})
	}
}

func TestParseMovies(t *testing.T) {
	input := "1::Toy Story (1995)::Animation|Children's|Comedy\n" +
		"1721::Titanic (1997)::Drama|Romance\n" +
		"9000::Unknown Film::Documentary\n"
	movies, err := ParseMovies(strings.NewReader(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("期望 3 条记录，实际 %d", len(movies))
	}

	tests := []struct {
		idx     int
		title   string
		primary string
		year    int
	}{
		{0, "Toy Story (1995)", "Animation", 1995},
		{1, "Titanic (1997)", "Drama", 1997},
		{2, "Unknown Film", "Documentary", 0}, // 标题无年份后缀，年份按缺失处理
	}
	for _, tt := range tests {
		m := movies[tt.idx]
		if m.Title != tt.title {
			t.Errorf("记录 %d title: 期望 %q，实际 %q", tt.idx, tt.title, m.Title)
		}
		if m.PrimaryGenre != tt.primary {
			t.Errorf("记录 %d primary genre: 期望 %q，实际 %q", tt.idx, tt.primary, m.PrimaryGenre)
		}
		if m.ReleaseYear != tt.year {
			t.Errorf("记录 %d year: 期望 %d，实际 %d", tt.idx, tt.year, m.ReleaseYear)
		}
	}
	// 完整类型列表保留
	if len(movies[0].Genres) != 3 || movies[0].Genres[2] != "Comedy" {
		t.Errorf("genres 列表错误: %v", movies[0].Genres)
	}
}

func TestParseUsers(t *testing.T) {
	input := "1::F::1::10::48067\n2::M::56::16::70072\n3::M::25::15::55117\n"
	users, err := ParseUsers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("期望 3 条记录，实际 %d", len(users))
	}

	tests := []struct {
		idx        int
		gender     int
		age        int
		occupation int
	}{
		{0, 0, 0, 10}, // F→0, 年龄段 1→0
		{1, 1, 6, 16}, // M→1, 年龄段 56→6
		{2, 1, 2, 15}, // M→1, 年龄段 25→2
	}
	for _, tt := range tests {
		u := users[tt.idx]
		if u.Gender != tt.gender || u.Age != tt.age || u.Occupation != tt.occupation {
			t.Errorf("记录 %d: 期望 gender=%d age=%d occupation=%d，实际 %+v",
				tt.idx, tt.gender, tt.age, tt.occupation, u)
		}
	}
}

func TestParseUsers_LineNumberInError(t *testing.T) {
	input := "1::F::1::10::48067\n2::M::abc::16::70072\n"
	_, err := ParseUsers(strings.NewReader(input))
	if err == nil {
		t.Fatal("期望解析报错")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("错误应包含行号: %v", err)
	}
}
