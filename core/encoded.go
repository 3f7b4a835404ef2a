package core

// EncodedRow 是编码器输出的一行定长特征，形状在编码器拟合后固定：
//   - Wide: 宽部（线性路径）的 one-hot/序数拼接向量
//   - EmbeddingIdx: 每个 embedding 列到其词表稠密下标的映射
//   - Continuous: 连续列缩放后的数值向量
//
// 形状一旦拟合便不再变化；与模型参数形状不一致属于 SHAPE_MISMATCH 致命错误。
type EncodedRow struct {
	Wide         []float64
	EmbeddingIdx map[string]int
	Continuous   []float64
}

// EncoderDims 描述编码器拟合后的各路维度，用于与模型 checkpoint 做形状校验。
type EncoderDims struct {
	WideDim        int            // 宽部向量总长度
	EmbeddingVocab map[string]int // embedding 列 -> 词表大小
	ContinuousDim  int            // 连续列个数
}
