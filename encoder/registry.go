// Package encoder 实现特征编码注册表（Encoder Registry）：
// 每个类别列一张"取值 ↔ 稠密下标"的词表（按全量数据首次出现顺序分配），
// 每个连续列一个拟合一次、推理复用的缩放器。
//
// 不变式：注册表在任何特征组装之前拟合一次，会话内不再重拟合 ——
// 模型权重假定词表大小与顺序固定。
package encoder

import (
	"fmt"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/conv"
)

// EmbeddingColumn 声明一个 embedding 列及其向量维度。
type EmbeddingColumn struct {
	Name string `yaml:"name"`
	Dim  int    `yaml:"dim"`
}

// Columns 声明三类特征列。
// 宽部列与 embedding 列共享同一套词表（按列名），连续列走缩放器。
type Columns struct {
	Wide       []string          `yaml:"wide"`
	Embedding  []EmbeddingColumn `yaml:"embedding"`
	Continuous []string          `yaml:"continuous"`
}

// DefaultColumns 返回 MovieLens wide&deep 的默认列配置，
// 与训练侧使用的配置保持一致。
func DefaultColumns() Columns {
	return Columns{
		Wide: []string{"movie_year", "gender", "age", "occupation", "genres", "userId", "movieId"},
		Embedding: []EmbeddingColumn{
			{Name: "genres", Dim: 20},
			{Name: "userId", Dim: 100},
			{Name: "movieId", Dim: 100},
		},
		Continuous: []string{"movie_year", "gender", "age", "occupation"},
	}
}

// Vocabulary 是单个类别列的"取值 ↔ 稠密下标"双射，下标按首次出现顺序分配。
type Vocabulary struct {
	index  map[string]int
	values []string
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// add 登记一个取值（已存在则忽略），返回其下标。
func (v *Vocabulary) add(value string) int {
	if idx, ok := v.index[value]; ok {
		return idx
	}
	idx := len(v.values)
	v.index[value] = idx
	v.values = append(v.values, value)
	return idx
}

// Index 查找取值的下标。
func (v *Vocabulary) Index(value string) (int, bool) {
	idx, ok := v.index[value]
	return idx, ok
}

// Value 反查下标对应的原始取值。
func (v *Vocabulary) Value(idx int) (string, bool) {
	if idx < 0 || idx >= len(v.values) {
		return "", false
	}
	return v.values[idx], true
}

// Size 返回词表大小。
func (v *Vocabulary) Size() int { return len(v.values) }

// Registry 是特征编码注册表。Fit 之后只读，可被多个并发请求安全共享。
type Registry struct {
	columns Columns

	vocabs      map[string]*Vocabulary // 类别列（宽部 ∪ embedding）共享词表
	wideOffset  map[string]int         // 宽部列在拼接向量中的起始偏移
	wideDim     int
	scalers     map[string]Scaler // 连续列缩放器
	scalerKind  string
	fitted      bool
}

// Option 配置 Registry。
type Option func(*Registry)

// WithScaler 指定连续列的缩放方式："standard"（默认）或 "minmax"。
func WithScaler(kind string) Option {
	return func(r *Registry) {
		r.scalerKind = kind
	}
}

// NewRegistry 创建未拟合的注册表。
func NewRegistry(columns Columns, opts ...Option) *Registry {
	r := &Registry{
		columns:    columns,
		vocabs:     make(map[string]*Vocabulary),
		wideOffset: make(map[string]int),
		scalers:    make(map[string]Scaler),
		scalerKind: "standard",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit 在全量数据上拟合词表与缩放统计量。
//
// 确定性：词表下标是输入行序中首次出现顺序的函数；同一数据同一行序
// 重复 Fit 会得到完全相同的下标分配。
//
// 只允许调用一次；重复调用返回 NOT_SUPPORTED 错误。
func (r *Registry) Fit(rows []map[string]any) error {
	if r.fitted {
		return core.NewDomainError(core.ModuleEncoder, core.ErrorCodeNotSupported,
			"encoder: registry already fitted; refit is not allowed within a session")
	}

	// 类别列 = 宽部列 ∪ embedding 列（去重，保持声明顺序）
	for _, col := range r.categoricalColumns() {
		r.vocabs[col] = newVocabulary()
	}

	// 词表：按行序扫描，首次出现即登记
	for _, row := range rows {
		for _, col := range r.categoricalColumns() {
			value, ok := row[col]
			if !ok {
				continue
			}
			r.vocabs[col].add(conv.CategoryKey(value))
		}
	}

	// 宽部布局：每个宽部列一段 one-hot，按声明顺序拼接
	offset := 0
	for _, col := range r.columns.Wide {
		r.wideOffset[col] = offset
		offset += r.vocabs[col].Size()
	}
	r.wideDim = offset

	// 连续列：一次性拟合缩放统计量
	for _, col := range r.columns.Continuous {
		values := make([]float64, 0, len(rows))
		for _, row := range rows {
			if v, ok := conv.ToFloat64(row[col]); ok {
				values = append(values, v)
			}
		}
		scaler := r.newScaler()
		scaler.Fit(values)
		r.scalers[col] = scaler
	}

	r.fitted = true
	return nil
}

func (r *Registry) newScaler() Scaler {
	if r.scalerKind == "minmax" {
		return &MinMaxScaler{}
	}
	return &StandardScaler{}
}

// categoricalColumns 返回宽部列与 embedding 列的并集（保持声明顺序，去重）。
func (r *Registry) categoricalColumns() []string {
	seen := make(map[string]bool, len(r.columns.Wide)+len(r.columns.Embedding))
	out := make([]string, 0, len(r.columns.Wide)+len(r.columns.Embedding))
	for _, col := range r.columns.Wide {
		if !seen[col] {
			seen[col] = true
			out = append(out, col)
		}
	}
	for _, ec := range r.columns.Embedding {
		if !seen[ec.Name] {
			seen[ec.Name] = true
			out = append(out, ec.Name)
		}
	}
	return out
}

// Transform 将一行原始特征编码为定长的 EncodedRow。
//
// 遇到词表外的类别取值返回 UNSEEN_CATEGORY 错误（不静默映射到任意桶）；
// 调用方可据此丢弃该候选行后继续（逐行传播，见 core.IsUnseenCategory）。
func (r *Registry) Transform(row map[string]any) (*core.EncodedRow, error) {
	if !r.fitted {
		return nil, core.NewDomainError(core.ModuleEncoder, core.ErrorCodeNotSupported,
			"encoder: registry not fitted")
	}

	encoded := &core.EncodedRow{
		Wide:         make([]float64, r.wideDim),
		EmbeddingIdx: make(map[string]int, len(r.columns.Embedding)),
		Continuous:   make([]float64, 0, len(r.columns.Continuous)),
	}

	// 宽部：每列 one-hot
	for _, col := range r.columns.Wide {
		key := conv.CategoryKey(row[col])
		idx, ok := r.vocabs[col].Index(key)
		if !ok {
			return nil, unseenCategory(col, key)
		}
		encoded.Wide[r.wideOffset[col]+idx] = 1.0
	}

	// embedding 下标
	for _, ec := range r.columns.Embedding {
		key := conv.CategoryKey(row[ec.Name])
		idx, ok := r.vocabs[ec.Name].Index(key)
		if !ok {
			return nil, unseenCategory(ec.Name, key)
		}
		encoded.EmbeddingIdx[ec.Name] = idx
	}

	// 连续列：冻结统计量缩放
	for _, col := range r.columns.Continuous {
		v, _ := conv.ToFloat64(row[col])
		encoded.Continuous = append(encoded.Continuous, r.scalers[col].Transform(v))
	}

	return encoded, nil
}

// TransformRecord 是 Transform 的便捷入口，直接消费连接行。
func (r *Registry) TransformRecord(rec *core.JoinedRecord) (*core.EncodedRow, error) {
	return r.Transform(rec.Features())
}

// Vocab 返回某个类别列的词表（用于反查/校验），列不存在时返回 nil。
func (r *Registry) Vocab(column string) *Vocabulary {
	return r.vocabs[column]
}

// Scaler 返回某个连续列的缩放器，列不存在时返回 nil。
func (r *Registry) Scaler(column string) Scaler {
	return r.scalers[column]
}

// Columns 返回列配置。
func (r *Registry) Columns() Columns { return r.columns }

// Fitted 返回是否已拟合。
func (r *Registry) Fitted() bool { return r.fitted }

// Dims 返回拟合后各路维度，用于与模型 checkpoint 做形状校验。
func (r *Registry) Dims() core.EncoderDims {
	vocab := make(map[string]int, len(r.columns.Embedding))
	for _, ec := range r.columns.Embedding {
		if v := r.vocabs[ec.Name]; v != nil {
			vocab[ec.Name] = v.Size()
		}
	}
	return core.EncoderDims{
		WideDim:        r.wideDim,
		EmbeddingVocab: vocab,
		ContinuousDim:  len(r.columns.Continuous),
	}
}

func unseenCategory(column, value string) error {
	return core.NewDomainError(core.ModuleEncoder, core.ErrorCodeUnseenCategory,
		fmt.Sprintf("encoder: unseen category %q for column %q", value, column))
}
