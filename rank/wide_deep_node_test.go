package rank

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

// fixedScorer 按 movieId 查表打分，用于验证排序与分片逻辑。
type fixedScorer struct {
	scores map[int]float64 // embedding 下标 -> 分数
}

func (s *fixedScorer) Name() string { return "fixed" }

func (s *fixedScorer) Score(rows []*core.EncodedRow) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = s.scores[row.EmbeddingIdx["movieId"]]
	}
	return out, nil
}

func encodedItem(movieID int64, idx int) *core.Item {
	item := core.NewItem(movieID)
	item.Movie = &core.MovieRecord{MovieID: movieID}
	item.Encoded = &core.EncodedRow{EmbeddingIdx: map[string]int{"movieId": idx}}
	return item
}

func TestWideDeepNode_SortsByScoreDesc(t *testing.T) {
	node := &WideDeepNode{Scorer: &fixedScorer{scores: map[int]float64{
		0: 2.5, 1: 4.8, 2: 3.1,
	}}}

	items := []*core.Item{
		encodedItem(10, 0),
		encodedItem(20, 1),
		encodedItem(30, 2),
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("排序节点失败: %v", err)
	}

	expected := []int64{20, 30, 10}
	for i, id := range expected {
		if out[i].MovieID != id {
			t.Fatalf("位置 %d: 期望电影 %d，实际 %d", i, id, out[i].MovieID)
		}
	}
	if out[0].Score != 4.8 {
		t.Errorf("分数未写回: %v", out[0].Score)
	}
	if lbl, ok := out[0].Labels["rank_model"]; !ok || lbl.Value != "fixed" {
		t.Errorf("rank_model label 错误: %+v", out[0].Labels)
	}
}

func TestWideDeepNode_TieBreakByMovieID(t *testing.T) {
	node := &WideDeepNode{Scorer: &fixedScorer{scores: map[int]float64{
		0: 3.0, 1: 3.0, 2: 3.0,
	}}}

	// 乱序输入，分数全等：输出按 movieId 升序
	items := []*core.Item{
		encodedItem(30, 0),
		encodedItem(10, 1),
		encodedItem(20, 2),
	}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("排序节点失败: %v", err)
	}
	expected := []int64{10, 20, 30}
	for i, id := range expected {
		if out[i].MovieID != id {
			t.Fatalf("同分 tie-break 错误: 位置 %d 期望 %d，实际 %d", i, id, out[i].MovieID)
		}
	}
}

func TestWideDeepNode_Deterministic(t *testing.T) {
	scorer := &fixedScorer{scores: map[int]float64{0: 1, 1: 5, 2: 3, 3: 4, 4: 2}}

	build := func() []*core.Item {
		return []*core.Item{
			encodedItem(1, 0), encodedItem(2, 1), encodedItem(3, 2),
			encodedItem(4, 3), encodedItem(5, 4),
		}
	}

	// 小分片强制并发路径；结果必须与单分片一致
	parallel := &WideDeepNode{Scorer: scorer, ShardSize: 2}
	serial := &WideDeepNode{Scorer: scorer}

	out1, err := parallel.Process(context.Background(), &core.RecommendContext{}, build())
	if err != nil {
		t.Fatalf("并发打分失败: %v", err)
	}
	out2, err := serial.Process(context.Background(), &core.RecommendContext{}, build())
	if err != nil {
		t.Fatalf("串行打分失败: %v", err)
	}
	for i := range out1 {
		if out1[i].MovieID != out2[i].MovieID || out1[i].Score != out2[i].Score {
			t.Fatalf("并发/串行结果不一致: 位置 %d", i)
		}
	}
}

func TestWideDeepNode_NilScorerPassthrough(t *testing.T) {
	node := &WideDeepNode{}
	items := []*core.Item{encodedItem(1, 0)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("空模型应透传: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("透传数量错误: %d", len(out))
	}
}
