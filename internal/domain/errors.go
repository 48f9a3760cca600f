package domain

import "errors"

var (
	// ErrNotFound 表示按标识或业务键查找的记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrConflict 表示乐观锁版本不一致，由调用方决定重试还是失败
	ErrConflict = errors.New("版本冲突，请重试")
)

// ValidationError 表示输入数据本身不合法（模板时长非正、单元格缺失等）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
