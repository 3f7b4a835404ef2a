package model

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/movierec/core"
)

// CheckpointVersion 是当前 checkpoint 格式版本。
const CheckpointVersion = 1

// Checkpoint 是 WideDeep 模型的带版本落盘格式（YAML）。
// 除参数外还记录训练时绑定的各路维度；加载时必须与推理侧编码器
// 的维度完全一致，否则拒绝构建模型。
type Checkpoint struct {
	Version int    `yaml:"version"`
	Model   string `yaml:"model"` // "wide_deep"

	WideDim       int            `yaml:"wide_dim"`
	ContinuousDim int            `yaml:"continuous_dim"`
	VocabSizes    map[string]int `yaml:"vocab_sizes"` // embedding 列 -> 词表大小

	WideWeights []float64                  `yaml:"wide_weights"`
	WideBias    float64                    `yaml:"wide_bias"`
	Embeddings  map[string]*EmbeddingTable `yaml:"embeddings"`
	Hidden      []*DenseLayer              `yaml:"hidden"`
	Output      *DenseLayer                `yaml:"output"`
	Dropout     []float64                  `yaml:"dropout"`
}

// SaveCheckpoint 将模型参数与维度写入 YAML checkpoint。
func SaveCheckpoint(path string, m *WideDeep) error {
	ckpt := &Checkpoint{
		Version:       CheckpointVersion,
		Model:         m.Name(),
		WideDim:       m.WideDim,
		ContinuousDim: m.ContinuousDim,
		VocabSizes:    m.Dims().EmbeddingVocab,
		WideWeights:   m.WideWeights,
		WideBias:      m.WideBias,
		Embeddings:    m.Embeddings,
		Hidden:        m.Hidden,
		Output:        m.Output,
		Dropout:       m.Dropout,
	}
	data, err := yaml.Marshal(ckpt)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCheckpoint 从 checkpoint 构建 WideDeep 模型，并与编码器维度做形状校验。
//
// 失败即启动期致命（MODEL_LOAD_FAILED）：checkpoint 缺失、损坏或与当前
// 编码器维度偏斜时，系统应拒绝提供推荐服务，而不是静默降级。
func LoadCheckpoint(path string, dims core.EncoderDims) (*WideDeep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadFailed(fmt.Sprintf("read checkpoint %s: %v", path, err))
	}

	var ckpt Checkpoint
	if err := yaml.Unmarshal(data, &ckpt); err != nil {
		return nil, loadFailed(fmt.Sprintf("parse checkpoint %s: %v", path, err))
	}

	if ckpt.Version != CheckpointVersion {
		return nil, loadFailed(fmt.Sprintf("unsupported checkpoint version %d (want %d)", ckpt.Version, CheckpointVersion))
	}
	if ckpt.Model != "" && ckpt.Model != "wide_deep" {
		return nil, loadFailed(fmt.Sprintf("unexpected model type %q", ckpt.Model))
	}

	if err := validateDims(&ckpt, dims); err != nil {
		return nil, err
	}
	if err := validateParams(&ckpt); err != nil {
		return nil, err
	}

	order := make([]string, 0, len(ckpt.Embeddings))
	for col := range ckpt.Embeddings {
		order = append(order, col)
	}
	sort.Strings(order)

	return &WideDeep{
		WideDim:        ckpt.WideDim,
		WideWeights:    ckpt.WideWeights,
		WideBias:       ckpt.WideBias,
		EmbeddingOrder: order,
		Embeddings:     ckpt.Embeddings,
		ContinuousDim:  ckpt.ContinuousDim,
		Hidden:         ckpt.Hidden,
		Output:         ckpt.Output,
		Dropout:        ckpt.Dropout,
	}, nil
}

// validateDims 校验 checkpoint 维度与编码器拟合出的维度一致。
func validateDims(ckpt *Checkpoint, dims core.EncoderDims) error {
	if ckpt.WideDim != dims.WideDim {
		return loadFailed(fmt.Sprintf("wide dim skew: checkpoint %d, encoder %d", ckpt.WideDim, dims.WideDim))
	}
	if ckpt.ContinuousDim != dims.ContinuousDim {
		return loadFailed(fmt.Sprintf("continuous dim skew: checkpoint %d, encoder %d", ckpt.ContinuousDim, dims.ContinuousDim))
	}
	if len(ckpt.VocabSizes) != len(dims.EmbeddingVocab) {
		return loadFailed(fmt.Sprintf("embedding column count skew: checkpoint %d, encoder %d",
			len(ckpt.VocabSizes), len(dims.EmbeddingVocab)))
	}
	for col, size := range dims.EmbeddingVocab {
		ckptSize, ok := ckpt.VocabSizes[col]
		if !ok {
			return loadFailed(fmt.Sprintf("embedding column %q missing in checkpoint", col))
		}
		if ckptSize != size {
			return loadFailed(fmt.Sprintf("vocab size skew for %q: checkpoint %d, encoder %d", col, ckptSize, size))
		}
	}
	return nil
}

// validateParams 校验 checkpoint 内部参数形状自洽。
func validateParams(ckpt *Checkpoint) error {
	if len(ckpt.WideWeights) != ckpt.WideDim {
		return loadFailed(fmt.Sprintf("wide weights length %d, want %d", len(ckpt.WideWeights), ckpt.WideDim))
	}
	if ckpt.Output == nil || len(ckpt.Output.Weights) != 1 {
		return loadFailed("output layer must have exactly one unit")
	}
	for col, table := range ckpt.Embeddings {
		if len(table.Weights) != ckpt.VocabSizes[col] {
			return loadFailed(fmt.Sprintf("embedding table %q has %d rows, vocab says %d",
				col, len(table.Weights), ckpt.VocabSizes[col]))
		}
		for _, row := range table.Weights {
			if len(row) != table.Dim {
				return loadFailed(fmt.Sprintf("embedding table %q row dim %d, want %d", col, len(row), table.Dim))
			}
		}
	}
	deepIn := ckpt.ContinuousDim
	cols := make([]string, 0, len(ckpt.Embeddings))
	for col := range ckpt.Embeddings {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		deepIn += ckpt.Embeddings[col].Dim
	}
	prev := deepIn
	for i, layer := range ckpt.Hidden {
		if len(layer.Weights) != len(layer.Biases) {
			return loadFailed(fmt.Sprintf("hidden layer %d: %d weight rows, %d biases", i, len(layer.Weights), len(layer.Biases)))
		}
		for _, row := range layer.Weights {
			if len(row) != prev {
				return loadFailed(fmt.Sprintf("hidden layer %d: input dim %d, want %d", i, len(row), prev))
			}
		}
		prev = len(layer.Weights)
	}
	if len(ckpt.Output.Weights[0]) != prev {
		return loadFailed(fmt.Sprintf("output layer input dim %d, want %d", len(ckpt.Output.Weights[0]), prev))
	}
	return nil
}

func loadFailed(detail string) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailed,
		"model: checkpoint load failed: "+detail)
}
