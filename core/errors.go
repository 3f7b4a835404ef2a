package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Encoder 错误：UNSEEN_CATEGORY, NOT_SUPPORTED
//   - Model 错误：SHAPE_MISMATCH, MODEL_LOAD_FAILED
//   - Recommend 错误：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNSEEN_CATEGORY"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "encoder", "model"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 特征编码 / 模型错误代码
	ErrorCodeUnseenCategory  = "UNSEEN_CATEGORY"   // 类别值不在已拟合的词表中
	ErrorCodeShapeMismatch   = "SHAPE_MISMATCH"    // 特征维度与模型参数形状不一致
	ErrorCodeModelLoadFailed = "MODEL_LOAD_FAILED" // 模型 checkpoint 缺失/损坏/维度不兼容
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleDataset   = "dataset"   // 数据集模块
	ModuleEncoder   = "encoder"   // 特征编码模块
	ModuleFeature   = "feature"   // 特征组装模块
	ModuleModel     = "model"     // 打分模型模块
	ModuleRecommend = "recommend" // 推荐入口模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsUnseenCategory 检查错误是否为 UNSEEN_CATEGORY。
// 该错误是可恢复的：调用方可以丢弃对应候选行后继续。
func IsUnseenCategory(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnseenCategory
	}
	return false
}

// IsShapeMismatch 检查错误是否为 SHAPE_MISMATCH。
// 该错误是致命的：说明编码器与模型的版本不一致，必须中止打分。
func IsShapeMismatch(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeShapeMismatch
	}
	return false
}

// IsModelLoadFailed 检查错误是否为 MODEL_LOAD_FAILED。
func IsModelLoadFailed(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeModelLoadFailed
	}
	return false
}
