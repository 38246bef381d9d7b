package valuetype

import "fmt"

// GrammarError 类型字符串不符合文法或引用了不支持的宽度
type GrammarError struct {
	TypeString string
	Reason     string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("invalid abi type %q: %s", e.TypeString, e.Reason)
}

// EncodingError 值的形状与类型不匹配
type EncodingError struct {
	TypeString string
	Err        error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.TypeString, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError 缓冲区过短、偏移越界，或对 packed 类型解码
type DecodingError struct {
	TypeString string
	Err        error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.TypeString, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
