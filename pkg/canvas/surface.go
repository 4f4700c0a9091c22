// Package canvas 定义画刷渲染所需的 2D 绘图表面
//
// Surface 的语义与常见的即时模式 2D 画布一致：路径构造、裁剪、图片绘制、
// 填充描边以及可保存/恢复的仿射变换状态。
package canvas

import (
	"image"
	"image/color"
)

// Surface 2D 绘图表面
type Surface interface {
	// BeginPath 丢弃当前路径，开始新路径
	BeginPath()
	// Arc 以 (x, y) 为圆心追加圆弧，角度为弧度
	Arc(x, y, radius, startAngle, endAngle float64)
	// Rect 追加左上角为 (x, y) 的矩形子路径
	Rect(x, y, width, height float64)
	// Clip 以当前路径作为裁剪区域（与已有裁剪区域相交）
	Clip()
	// DrawImage 将图片拉伸绘制到目标矩形（不保持宽高比）
	DrawImage(img image.Image, x, y, width, height float64)
	// Fill 用当前填充色填充当前路径
	Fill()
	// Stroke 用当前描边色和线宽描边当前路径
	Stroke()

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(angle float64)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(width float64)
}
