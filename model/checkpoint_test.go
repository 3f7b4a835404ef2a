package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/movierec/core"
)

func testDims() core.EncoderDims {
	return core.EncoderDims{
		WideDim:        4,
		EmbeddingVocab: map[string]int{"genres": 2, "movieId": 3},
		ContinuousDim:  2,
	}
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	m := testModel()
	path := filepath.Join(t.TempDir(), "wide_deep.yaml")

	if err := SaveCheckpoint(path, m); err != nil {
		t.Fatalf("保存 checkpoint 失败: %v", err)
	}

	loaded, err := LoadCheckpoint(path, testDims())
	if err != nil {
		t.Fatalf("加载 checkpoint 失败: %v", err)
	}

	// 加载后的模型对相同输入产生相同输出
	row := testRow()
	want, _ := m.Forward(row)
	got, err := loaded.Forward(row)
	if err != nil {
		t.Fatalf("前向失败: %v", err)
	}
	if got != want {
		t.Errorf("加载后输出不一致: %v vs %v", got, want)
	}

	if len(loaded.Dropout) != 2 || loaded.Dropout[0] != 0.5 {
		t.Errorf("dropout 配置未随 checkpoint 保留: %v", loaded.Dropout)
	}
}

func TestCheckpoint_MissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "absent.yaml"), testDims())
	if !core.IsModelLoadFailed(err) {
		t.Fatalf("期望 MODEL_LOAD_FAILED，实际 %v", err)
	}
}

func TestCheckpoint_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCheckpoint(path, testDims()); !core.IsModelLoadFailed(err) {
		t.Fatalf("期望 MODEL_LOAD_FAILED，实际 %v", err)
	}
}

func TestCheckpoint_DimSkew(t *testing.T) {
	m := testModel()
	path := filepath.Join(t.TempDir(), "wide_deep.yaml")
	if err := SaveCheckpoint(path, m); err != nil {
		t.Fatalf("保存 checkpoint 失败: %v", err)
	}

	tests := []struct {
		name string
		dims core.EncoderDims
	}{
		{"宽部维度偏斜", core.EncoderDims{
			WideDim:        99,
			EmbeddingVocab: map[string]int{"genres": 2, "movieId": 3},
			ContinuousDim:  2,
		}},
		{"连续维度偏斜", core.EncoderDims{
			WideDim:        4,
			EmbeddingVocab: map[string]int{"genres": 2, "movieId": 3},
			ContinuousDim:  7,
		}},
		{"词表大小偏斜", core.EncoderDims{
			WideDim:        4,
			EmbeddingVocab: map[string]int{"genres": 2, "movieId": 99},
			ContinuousDim:  2,
		}},
		{"缺少 embedding 列", core.EncoderDims{
			WideDim:        4,
			EmbeddingVocab: map[string]int{"genres": 2, "movieId": 3, "userId": 5},
			ContinuousDim:  2,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCheckpoint(path, tt.dims); !core.IsModelLoadFailed(err) {
				t.Errorf("期望 MODEL_LOAD_FAILED，实际 %v", err)
			}
		})
	}
}

func TestCheckpoint_VersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.yaml")
	if err := os.WriteFile(path, []byte("version: 99\nmodel: wide_deep\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCheckpoint(path, testDims()); !core.IsModelLoadFailed(err) {
		t.Fatalf("期望 MODEL_LOAD_FAILED，实际 %v", err)
	}
}
