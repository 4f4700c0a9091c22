package canvas

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Op 一次记录的绘图调用
type Op struct {
	Name  string
	Args  []float64
	Color color.Color
	Image image.Image
}

// String 便于测试失败时输出
func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = fmt.Sprintf("%g", a)
	}
	return o.Name + "(" + strings.Join(parts, ",") + ")"
}

// Recorder 记录所有调用的 Surface 实现，不做任何绘制
//
// 用于测试和无头运行（服务器端模拟）。
type Recorder struct {
	Ops []Op
}

// NewRecorder 创建空记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset 清空已记录的调用
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Names 返回按顺序记录的调用名称
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		names[i] = op.Name
	}
	return names
}

// Count 统计指定名称的调用次数
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Find 返回第一个指定名称的调用
func (r *Recorder) Find(name string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Name == name {
			return op, true
		}
	}
	return Op{}, false
}

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) BeginPath() { r.record("BeginPath") }

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.record("Arc", x, y, radius, startAngle, endAngle)
}

func (r *Recorder) Rect(x, y, width, height float64) { r.record("Rect", x, y, width, height) }

func (r *Recorder) Clip() { r.record("Clip") }

func (r *Recorder) DrawImage(img image.Image, x, y, width, height float64) {
	r.Ops = append(r.Ops, Op{Name: "DrawImage", Args: []float64{x, y, width, height}, Image: img})
}

func (r *Recorder) Fill() { r.record("Fill") }

func (r *Recorder) Stroke() { r.record("Stroke") }

func (r *Recorder) Save() { r.record("Save") }

func (r *Recorder) Restore() { r.record("Restore") }

func (r *Recorder) Translate(x, y float64) { r.record("Translate", x, y) }

func (r *Recorder) Rotate(angle float64) { r.record("Rotate", angle) }

func (r *Recorder) SetFillColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "SetFillColor", Color: c})
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "SetStrokeColor", Color: c})
}

func (r *Recorder) SetLineWidth(width float64) { r.record("SetLineWidth", width) }
