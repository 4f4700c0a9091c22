package components

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor 无法解析的颜色字符串
var ErrInvalidColor = errors.New("invalid color")

// Color 画刷颜色
//
// 保留原始字符串（用于镜像同步与存档），同时缓存解析后的 RGBA。
type Color struct {
	CSS  string
	rgba color.RGBA
}

// ParseColor 解析画布颜色字符串
//
// 支持 "#rgb"、"#rrggbb"、SVG 颜色名（如 "red"，不区分大小写）
// 以及 "rgb(r, g, b)" / "rgba(r, g, b, a)"，其中 a 取值 [0, 1]。
//
// 参数:
//   - css: 颜色字符串
//
// 返回:
//   - Color: 解析结果，CSS 字段保留去除首尾空白后的原始字符串
//   - error: 格式错误时返回包装了 ErrInvalidColor 的错误
func ParseColor(css string) (Color, error) {
	trimmed := strings.TrimSpace(css)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "#"):
		c, err := colorful.Hex(lower)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, css, err)
		}
		r, g, b := c.RGB255()
		return Color{CSS: trimmed, rgba: color.RGBA{R: r, G: g, B: b, A: 255}}, nil

	case strings.HasPrefix(lower, "rgb"):
		c, err := parseRGBFunc(lower)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, css, err)
		}
		return Color{CSS: trimmed, rgba: color.RGBAModel.Convert(c).(color.RGBA)}, nil
	}

	if c, ok := colornames.Map[lower]; ok {
		return Color{CSS: trimmed, rgba: c}, nil
	}
	return Color{}, fmt.Errorf("%w %q", ErrInvalidColor, css)
}

// parseRGBFunc 解析 rgb()/rgba() 函数写法
func parseRGBFunc(s string) (color.NRGBA, error) {
	name, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return color.NRGBA{}, errors.New("missing parentheses")
	}
	parts := strings.Split(strings.TrimSuffix(rest, ")"), ",")

	want := 3
	if name = strings.TrimSpace(name); name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return color.NRGBA{}, fmt.Errorf("unknown function %q", name)
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("%s expects %d components, got %d", name, want, len(parts))
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("channel %q out of range", strings.TrimSpace(parts[i]))
		}
		channels[i] = uint8(v)
	}

	alpha := uint8(255)
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("alpha %q out of range", strings.TrimSpace(parts[3]))
		}
		alpha = uint8(math.Round(a * 255))
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// MustParseColor 解析颜色，失败时 panic（仅用于常量初始化）
func MustParseColor(css string) Color {
	c, err := ParseColor(css)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA 实现 color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.rgba.RGBA()
}

// String 返回原始颜色字符串
func (c Color) String() string { return c.CSS }

// StyleComponent 画刷的外观状态
type StyleComponent struct {
	Fill   Color
	Stroke Color

	// FillImageSrc 填充图片来源；为空表示未设置图片
	FillImageSrc string
	// FillImage 解码完成的图片；加载期间为 nil，渲染时跳过图片步骤
	FillImage image.Image
}

// HasFillImage 图片已设置且已解码完成
func (s *StyleComponent) HasFillImage() bool {
	return s.FillImage != nil
}

// StyleSnapshot 可序列化的外观快照（存档与镜像使用）
type StyleSnapshot struct {
	Fill      string `yaml:"fill"`
	Stroke    string `yaml:"stroke"`
	FillImage string `yaml:"fillImage,omitempty"`
	ShapeType string `yaml:"shapeType"`
}
