package txforge

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind 标识 txforge 返回错误的类别。
// 调用方可以通过 errors.Is(err, ErrValidation) 之类的方式以编程方式判断错误类别。
type ErrorKind int

const (
	// ErrValidation 表示调用方提供的参数缺失或无效，可由调用方修正。
	ErrValidation ErrorKind = iota

	// ErrBinding 表示 cast 在绑定到所属交易之前就被使用，或者 cast 没有绑定脚本函数。
	ErrBinding

	// ErrAuthorization 表示提供的密钥对与被花费的输出不匹配。
	ErrAuthorization

	// numErrorKinds 是错误类别的最大值，仅用于测试。
	numErrorKinds
)

// errorKindStrings 将错误类别映射为便于阅读的名称。
var errorKindStrings = map[ErrorKind]string{
	ErrValidation:    "ErrValidation",
	ErrBinding:       "ErrBinding",
	ErrAuthorization: "ErrAuthorization",
}

// String 返回错误类别的名称。
func (k ErrorKind) String() string {
	if s := errorKindStrings[k]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorKind (%d)", int(k))
}

// Error 实现 error 接口，使 ErrorKind 可以作为 errors.Is 的目标。
func (k ErrorKind) Error() string {
	return k.String()
}

// Error 标识一个 cast 相关的错误，包含错误类别和带上下文的描述。
type Error struct {
	Kind        ErrorKind
	Description string
}

// Error 满足 error 接口，返回可读的描述。
func (e Error) Error() string {
	return e.Description
}

// Unwrap 返回底层的错误类别，便于使用 errors.Is。
func (e Error) Unwrap() error {
	return e.Kind
}

// makeError 根据错误类别和描述创建 Error。
func makeError(kind ErrorKind, format string, args ...interface{}) Error {
	return Error{Kind: kind, Description: fmt.Sprintf(format, args...)}
}

// IsErrorKind 判断 err 的错误链中是否包含指定的错误类别。
func IsErrorKind(err error, kind ErrorKind) bool {
	return errors.Is(err, kind)
}

// requiredParamError 返回缺少必需参数时的校验错误。
func requiredParamError(kind CastType, name string) Error {
	return makeError(ErrValidation, "Cast type '%s' requires '%s' param", kind, name)
}
