package brush

import (
	"fmt"

	"github.com/gonewx/brushes/pkg/components"
	"github.com/gonewx/brushes/pkg/mirror"
	"github.com/gonewx/brushes/pkg/types"
)

// Command 画刷状态修改命令
//
// 命令集合是封闭的：SetFillStyle、SetStrokeStyle、SetFillImage、SetShapeType。
// 执行成功后产生一个同名镜像事件，载荷为新值。
type Command interface {
	apply(b *Brush) (mirror.Event, error)
}

// SetFillStyle 设置填充色，同时清除填充图片
type SetFillStyle struct {
	Color string
}

func (c SetFillStyle) apply(b *Brush) (mirror.Event, error) {
	color, err := components.ParseColor(c.Color)
	if err != nil {
		return mirror.Event{}, err
	}
	b.style.Fill = color
	b.clearImage()
	return mirror.Event{Name: mirror.EventSetFillStyle, Payload: color.CSS}, nil
}

// SetStrokeStyle 设置描边色
type SetStrokeStyle struct {
	Color string
}

func (c SetStrokeStyle) apply(b *Brush) (mirror.Event, error) {
	color, err := components.ParseColor(c.Color)
	if err != nil {
		return mirror.Event{}, err
	}
	b.style.Stroke = color
	return mirror.Event{Name: mirror.EventSetStrokeStyle, Payload: color.CSS}, nil
}

// SetFillImage 设置填充图片
//
// 命令立即返回；图片解码完成之前渲染使用填充色。
type SetFillImage struct {
	Src string
}

func (c SetFillImage) apply(b *Brush) (mirror.Event, error) {
	if c.Src == "" {
		return mirror.Event{}, ErrNoImageSource
	}
	b.loadImage(c.Src)
	return mirror.Event{Name: mirror.EventSetFillImage, Payload: c.Src}, nil
}

// SetShapeType 切换形状
//
// 形状未知时返回 types.ErrInvalidShapeType，画刷保留原来的形状。
type SetShapeType struct {
	Shape types.ShapeType
}

func (c SetShapeType) apply(b *Brush) (mirror.Event, error) {
	if err := b.assignShape(c.Shape); err != nil {
		return mirror.Event{}, err
	}
	return mirror.Event{Name: mirror.EventSetShapeType, Payload: c.Shape.String()}, nil
}

// CommandFromEvent 把镜像事件还原为命令
//
// 返回:
//   - Command: 对应的命令
//   - error: 事件名称未知（ErrUnknownEvent）或形状名称无效（types.ErrInvalidShapeType）
func CommandFromEvent(ev mirror.Event) (Command, error) {
	switch ev.Name {
	case mirror.EventSetFillStyle:
		return SetFillStyle{Color: ev.Payload}, nil
	case mirror.EventSetStrokeStyle:
		return SetStrokeStyle{Color: ev.Payload}, nil
	case mirror.EventSetFillImage:
		return SetFillImage{Src: ev.Payload}, nil
	case mirror.EventSetShapeType:
		shape, err := types.ParseShapeType(ev.Payload)
		if err != nil {
			return nil, err
		}
		return SetShapeType{Shape: shape}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Name)
}

// CommandsFromSnapshot 把存档快照还原为命令序列
//
// 顺序：形状、描边、填充色、填充图片（图片放在填充色之后，避免被清除）。
// 空字段会被跳过。
func CommandsFromSnapshot(s components.StyleSnapshot) ([]Command, error) {
	var cmds []Command
	if s.ShapeType != "" {
		shape, err := types.ParseShapeType(s.ShapeType)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, SetShapeType{Shape: shape})
	}
	if s.Stroke != "" {
		cmds = append(cmds, SetStrokeStyle{Color: s.Stroke})
	}
	if s.Fill != "" {
		cmds = append(cmds, SetFillStyle{Color: s.Fill})
	}
	if s.FillImage != "" {
		cmds = append(cmds, SetFillImage{Src: s.FillImage})
	}
	return cmds, nil
}
