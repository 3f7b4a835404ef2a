package core

import "testing"

func TestParseReleaseYear(t *testing.T) {
	tests := []struct {
		title    string
		expected int
	}{
		{"Toy Story (1995)", 1995},
		{"Casablanca (1942)", 1942},
		{"Seven (a.k.a. Se7en) (1995)", 1995}, // 取最后一对括号
		{"Unknown Film", 0},
		{"Weird Title (abcd)", 0},
		{"Trailing Space (1995) ", 1995},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseReleaseYear(tt.title); got != tt.expected {
			t.Errorf("ParseReleaseYear(%q) = %d, 期望 %d", tt.title, got, tt.expected)
		}
	}
}

func TestPrimaryGenre(t *testing.T) {
	tests := []struct {
		genres   []string
		expected string
	}{
		{[]string{"Animation", "Children's", "Comedy"}, "Animation"},
		{[]string{"Drama"}, "Drama"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := PrimaryGenre(tt.genres); got != tt.expected {
			t.Errorf("PrimaryGenre(%v) = %q, 期望 %q", tt.genres, got, tt.expected)
		}
	}
}

func TestMapAgeBracket(t *testing.T) {
	tests := []struct {
		raw      int
		expected int
	}{
		{1, 0}, {18, 1}, {25, 2}, {35, 3}, {45, 4}, {50, 5}, {56, 6},
		{99, 99}, // 映射表外原样返回
	}
	for _, tt := range tests {
		if got := MapAgeBracket(tt.raw); got != tt.expected {
			t.Errorf("MapAgeBracket(%d) = %d, 期望 %d", tt.raw, got, tt.expected)
		}
	}
}

func TestMapGender(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{"F", 0}, {"M", 1}, {"m", 1}, {"f", 0}, {"", 0}, {"X", 0},
	}
	for _, tt := range tests {
		if got := MapGender(tt.raw); got != tt.expected {
			t.Errorf("MapGender(%q) = %d, 期望 %d", tt.raw, got, tt.expected)
		}
	}
}

func TestJoinedRecord_Features(t *testing.T) {
	rec := &JoinedRecord{
		UserID:       1,
		MovieID:      2,
		PrimaryGenre: "Comedy",
		ReleaseYear:  1995,
		Gender:       1,
		Age:          2,
		Occupation:   15,
	}
	features := rec.Features()

	if features["genres"] != "Comedy" {
		t.Errorf("genres: %v", features["genres"])
	}
	if features["movie_year"] != 1995 {
		t.Errorf("movie_year: %v", features["movie_year"])
	}
	if features["userId"] != int64(1) || features["movieId"] != int64(2) {
		t.Errorf("id 列错误: %v / %v", features["userId"], features["movieId"])
	}
}
