package model

import (
	"testing"

	"github.com/rushteam/movierec/core"
)

func testModel() *WideDeep {
	return NewWideDeep(
		4,
		[]EmbeddingSpec{
			{Name: "genres", Vocab: 2, Dim: 3},
			{Name: "movieId", Vocab: 3, Dim: 2},
		},
		2,
		[]int{8, 4},
		[]float64{0.5, 0.5},
		42,
	)
}

func testRow() *core.EncodedRow {
	return &core.EncodedRow{
		Wide:         []float64{1, 0, 0, 1},
		EmbeddingIdx: map[string]int{"genres": 1, "movieId": 2},
		Continuous:   []float64{0.5, -1.2},
	}
}

func TestWideDeep_ForwardDeterministic(t *testing.T) {
	m := testModel()
	row := testRow()

	a, err := m.Forward(row)
	if err != nil {
		t.Fatalf("前向失败: %v", err)
	}
	b, err := m.Forward(row)
	if err != nil {
		t.Fatalf("前向失败: %v", err)
	}
	// 推理路径无随机性：相同输入相同权重必须产生相同输出
	if a != b {
		t.Errorf("两次前向结果不一致: %v vs %v", a, b)
	}

	// 相同 seed 重建的模型输出也一致
	m2 := testModel()
	c, err := m2.Forward(row)
	if err != nil {
		t.Fatalf("前向失败: %v", err)
	}
	if a != c {
		t.Errorf("同 seed 模型输出不一致: %v vs %v", a, c)
	}
}

func TestWideDeep_ScoreOrderPreserving(t *testing.T) {
	m := testModel()
	rows := []*core.EncodedRow{
		{Wide: []float64{1, 0, 0, 0}, EmbeddingIdx: map[string]int{"genres": 0, "movieId": 0}, Continuous: []float64{0, 0}},
		{Wide: []float64{0, 1, 0, 0}, EmbeddingIdx: map[string]int{"genres": 1, "movieId": 1}, Continuous: []float64{1, 1}},
		{Wide: []float64{0, 0, 1, 0}, EmbeddingIdx: map[string]int{"genres": 0, "movieId": 2}, Continuous: []float64{-1, 2}},
	}

	scores, err := m.Score(rows)
	if err != nil {
		t.Fatalf("打分失败: %v", err)
	}
	if len(scores) != len(rows) {
		t.Fatalf("分数数量: 期望 %d，实际 %d", len(rows), len(scores))
	}
	// 保序：scores[i] 即 rows[i] 的前向结果
	for i, row := range rows {
		single, _ := m.Forward(row)
		if scores[i] != single {
			t.Errorf("第 %d 行分数不保序: %v vs %v", i, scores[i], single)
		}
	}
}

func TestWideDeep_ShapeMismatch(t *testing.T) {
	m := testModel()

	tests := []struct {
		name string
		row  *core.EncodedRow
	}{
		{"nil 行", nil},
		{"宽部维度不符", &core.EncodedRow{
			Wide:         []float64{1, 0},
			EmbeddingIdx: map[string]int{"genres": 0, "movieId": 0},
			Continuous:   []float64{0, 0},
		}},
		{"连续段维度不符", &core.EncodedRow{
			Wide:         []float64{1, 0, 0, 0},
			EmbeddingIdx: map[string]int{"genres": 0, "movieId": 0},
			Continuous:   []float64{0},
		}},
		{"缺少 embedding 下标", &core.EncodedRow{
			Wide:         []float64{1, 0, 0, 0},
			EmbeddingIdx: map[string]int{"genres": 0},
			Continuous:   []float64{0, 0},
		}},
		{"embedding 下标越界", &core.EncodedRow{
			Wide:         []float64{1, 0, 0, 0},
			EmbeddingIdx: map[string]int{"genres": 0, "movieId": 99},
			Continuous:   []float64{0, 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Forward(tt.row); !core.IsShapeMismatch(err) {
				t.Errorf("期望 SHAPE_MISMATCH，实际 %v", err)
			}
		})
	}
}

func TestWideDeep_ScoreAbortsBatch(t *testing.T) {
	m := testModel()
	rows := []*core.EncodedRow{
		testRow(),
		{Wide: []float64{1}, EmbeddingIdx: map[string]int{}, Continuous: []float64{}},
	}
	if _, err := m.Score(rows); !core.IsShapeMismatch(err) {
		t.Fatalf("形状不符应中止整批: %v", err)
	}
}
