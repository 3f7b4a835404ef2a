package model

import "github.com/rushteam/movierec/core"

// Scorer 是打分模型的最小抽象：输入一批编码特征行，输出一一对应的评分估计。
// 返回序列与输入行序一一对应（保序）；批内可以做数据并行，但调用方
// 不得假设部分结果或中途取消。
type Scorer interface {
	Name() string
	Score(rows []*core.EncodedRow) ([]float64, error)
}
