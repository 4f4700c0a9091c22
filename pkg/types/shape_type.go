// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShapeType 表示无法识别的形状类型
//
// 原实现对未知形状静默不处理（画刷失去几何体），
// 这里改为显式错误，由调用方决定是否忽略。
var ErrInvalidShapeType = errors.New("invalid shape type")

// ShapeType 定义画刷的形状类型
type ShapeType int

const (
	// ShapeUnknown 未知形状（零值，不可用于构造几何体）
	ShapeUnknown ShapeType = iota
	// ShapeCircle 圆形
	ShapeCircle
	// ShapeBox 长方形
	ShapeBox
	// ShapeSquare 正方形
	ShapeSquare
)

// AllShapeTypes 返回所有可用的形状类型（按声明顺序）
func AllShapeTypes() []ShapeType {
	return []ShapeType{ShapeCircle, ShapeBox, ShapeSquare}
}

// String 返回形状类型的网络/配置名称
//
// 名称与远端镜像使用的协议值一致（"CIRCLE", "BOX", "SQUARE"）。
func (s ShapeType) String() string {
	switch s {
	case ShapeCircle:
		return "CIRCLE"
	case ShapeBox:
		return "BOX"
	case ShapeSquare:
		return "SQUARE"
	default:
		return "UNKNOWN"
	}
}

// Valid 判断形状类型是否为已知的三种之一
func (s ShapeType) Valid() bool {
	return s == ShapeCircle || s == ShapeBox || s == ShapeSquare
}

// IsRect 判断形状是否使用矩形几何体（Box 与 Square 共用）
func (s ShapeType) IsRect() bool {
	return s == ShapeBox || s == ShapeSquare
}

// ParseShapeType 将名称解析为形状类型（大小写不敏感）
//
// 参数:
//   - name: 形状名称，如 "CIRCLE"、"box"
//
// 返回:
//   - ShapeType: 解析结果
//   - error: 名称未知时返回包装了 ErrInvalidShapeType 的错误
func ParseShapeType(name string) (ShapeType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CIRCLE":
		return ShapeCircle, nil
	case "BOX":
		return ShapeBox, nil
	case "SQUARE":
		return ShapeSquare, nil
	}
	return ShapeUnknown, fmt.Errorf("%w: %q", ErrInvalidShapeType, name)
}

// MarshalText 实现 encoding.TextMarshaler，用于 YAML/JSON 序列化
func (s ShapeType) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShapeType, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *ShapeType) UnmarshalText(text []byte) error {
	parsed, err := ParseShapeType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
