package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rushteam/movierec/core"
)

// WideDeep 是 Wide&Deep 评分模型。
//
// 核心思想：
//   - Wide 部分：对宽部 one-hot 向量做单次线性变换，记忆（memorization）显式交互
//   - Deep 部分：embedding 查表拼接 + 连续特征直连，经多层全连接泛化（generalization）
//   - 两路输出求和得到每行一个标量，即评分估计
//
// 工程特征：
//   - 推理确定：dropout 仅训练期生效，推理路径对相同输入与权重产生相同输出
//   - 形状固定：参数形状在构建/加载时绑定，与输入维度不一致是致命配置错误
type WideDeep struct {
	// Wide 部分：线性模型
	WideDim     int
	WideWeights []float64
	WideBias    float64

	// Deep 部分：embedding 查表 + 全连接栈
	// EmbeddingOrder 固定 embedding 向量的拼接顺序（列名升序），保证前向确定
	EmbeddingOrder []string
	Embeddings     map[string]*EmbeddingTable
	ContinuousDim  int

	Hidden []*DenseLayer
	Output *DenseLayer

	// Dropout 是各隐层的训练期丢弃率；推理禁用，仅随 checkpoint 保存
	Dropout []float64
}

// EmbeddingTable 是单个 embedding 列的查找表：每个类别下标一个稠密向量。
type EmbeddingTable struct {
	Dim     int         `yaml:"dim"`
	Weights [][]float64 `yaml:"weights"` // [vocabSize][dim]
}

// DenseLayer 是一个全连接层。
type DenseLayer struct {
	Weights [][]float64 `yaml:"weights"` // [out][in]
	Biases  []float64   `yaml:"biases"`  // [out]
}

// EmbeddingSpec 声明一个 embedding 列的词表大小与向量维度。
type EmbeddingSpec struct {
	Name  string
	Vocab int
	Dim   int
}

// NewWideDeep 按给定形状构建模型，权重做确定性的 Xavier 风格初始化（seed 固定）。
// 生产权重应通过 LoadCheckpoint 加载；该构造器用于测试与原型。
func NewWideDeep(wideDim int, embeddings []EmbeddingSpec, continuousDim int, hidden []int, dropout []float64, seed int64) *WideDeep {
	if len(hidden) == 0 {
		hidden = []int{100, 50}
	}
	rng := rand.New(rand.NewSource(seed))

	m := &WideDeep{
		WideDim:       wideDim,
		WideWeights:   make([]float64, wideDim),
		Embeddings:    make(map[string]*EmbeddingTable, len(embeddings)),
		ContinuousDim: continuousDim,
		Dropout:       dropout,
	}

	for i := range m.WideWeights {
		m.WideWeights[i] = xavier(rng, wideDim, 1)
	}

	deepIn := continuousDim
	for _, spec := range embeddings {
		table := &EmbeddingTable{
			Dim:     spec.Dim,
			Weights: make([][]float64, spec.Vocab),
		}
		for row := range table.Weights {
			table.Weights[row] = make([]float64, spec.Dim)
			for k := range table.Weights[row] {
				table.Weights[row][k] = xavier(rng, spec.Vocab, spec.Dim)
			}
		}
		m.Embeddings[spec.Name] = table
		m.EmbeddingOrder = append(m.EmbeddingOrder, spec.Name)
		deepIn += spec.Dim
	}
	sort.Strings(m.EmbeddingOrder)

	prev := deepIn
	for _, size := range hidden {
		m.Hidden = append(m.Hidden, newDenseLayer(rng, size, prev))
		prev = size
	}
	m.Output = newDenseLayer(rng, 1, prev)

	return m
}

func newDenseLayer(rng *rand.Rand, out, in int) *DenseLayer {
	layer := &DenseLayer{
		Weights: make([][]float64, out),
		Biases:  make([]float64, out),
	}
	for j := range layer.Weights {
		layer.Weights[j] = make([]float64, in)
		for k := range layer.Weights[j] {
			layer.Weights[j][k] = xavier(rng, in, out)
		}
	}
	return layer
}

func xavier(rng *rand.Rand, fanIn, fanOut int) float64 {
	scale := math.Sqrt(2.0 / float64(fanIn+fanOut))
	return (rng.Float64()*2 - 1) * scale
}

func (m *WideDeep) Name() string {
	return "wide_deep"
}

// Score 对一批编码行逐行前向，返回保序的评分估计。
// 任一行的形状与模型参数不一致即返回 SHAPE_MISMATCH，整批中止 ——
// 形状不一致说明编码器/模型版本偏斜，继续打分只会悄悄产出错误预测。
func (m *WideDeep) Score(rows []*core.EncodedRow) ([]float64, error) {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		score, err := m.Forward(row)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}

// Forward 对单行前向：wide 线性输出 + deep 栈输出求和。
func (m *WideDeep) Forward(row *core.EncodedRow) (float64, error) {
	if err := m.checkShape(row); err != nil {
		return 0, err
	}

	// 1. Wide 部分：单次线性变换
	wideOut := m.WideBias
	for i, v := range row.Wide {
		wideOut += m.WideWeights[i] * v
	}

	// 2. Deep 部分：embedding 拼接 + 连续特征直连
	deepIn := make([]float64, 0, m.deepInputDim())
	for _, col := range m.EmbeddingOrder {
		table := m.Embeddings[col]
		idx := row.EmbeddingIdx[col]
		deepIn = append(deepIn, table.Weights[idx]...)
	}
	deepIn = append(deepIn, row.Continuous...)

	// 3. 全连接栈：隐层 ReLU，输出层不激活（回归到评分标量）
	// dropout 仅训练期生效，推理路径不做任何随机丢弃
	cur := deepIn
	for _, layer := range m.Hidden {
		cur = layer.forward(cur, true)
	}
	deepOut := m.Output.forward(cur, false)[0]

	// 4. 两路求和
	return wideOut + deepOut, nil
}

func (l *DenseLayer) forward(input []float64, activate bool) []float64 {
	out := make([]float64, len(l.Weights))
	for j := range l.Weights {
		sum := l.Biases[j]
		for k, w := range l.Weights[j] {
			sum += w * input[k]
		}
		if activate {
			sum = relu(sum)
		}
		out[j] = sum
	}
	return out
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func (m *WideDeep) deepInputDim() int {
	dim := m.ContinuousDim
	for _, col := range m.EmbeddingOrder {
		dim += m.Embeddings[col].Dim
	}
	return dim
}

// checkShape 校验单行输入与模型参数形状一致。
func (m *WideDeep) checkShape(row *core.EncodedRow) error {
	if row == nil {
		return shapeMismatch("nil encoded row")
	}
	if len(row.Wide) != m.WideDim {
		return shapeMismatch(fmt.Sprintf("wide dim %d, model expects %d", len(row.Wide), m.WideDim))
	}
	if len(row.Continuous) != m.ContinuousDim {
		return shapeMismatch(fmt.Sprintf("continuous dim %d, model expects %d", len(row.Continuous), m.ContinuousDim))
	}
	for _, col := range m.EmbeddingOrder {
		table := m.Embeddings[col]
		idx, ok := row.EmbeddingIdx[col]
		if !ok {
			return shapeMismatch(fmt.Sprintf("missing embedding index for column %q", col))
		}
		if idx < 0 || idx >= len(table.Weights) {
			return shapeMismatch(fmt.Sprintf("embedding index %d out of vocab %d for column %q", idx, len(table.Weights), col))
		}
	}
	return nil
}

// Dims 返回模型绑定的各路维度。
func (m *WideDeep) Dims() core.EncoderDims {
	vocab := make(map[string]int, len(m.Embeddings))
	for col, table := range m.Embeddings {
		vocab[col] = len(table.Weights)
	}
	return core.EncoderDims{
		WideDim:        m.WideDim,
		EmbeddingVocab: vocab,
		ContinuousDim:  m.ContinuousDim,
	}
}

func shapeMismatch(detail string) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeShapeMismatch,
		"model: shape mismatch: "+detail)
}

var _ Scorer = (*WideDeep)(nil)
