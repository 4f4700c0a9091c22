package brush

import "errors"

var (
	// ErrMissingWorld 创建画刷时没有提供物理世界
	ErrMissingWorld = errors.New("brush requires a physics world")
	// ErrMissingScheduler 创建画刷时没有提供定时器
	ErrMissingScheduler = errors.New("brush requires a scheduler")
	// ErrDestroyed 画刷已销毁
	ErrDestroyed = errors.New("brush destroyed")
	// ErrNoImageSource 填充图片来源为空
	ErrNoImageSource = errors.New("no image source")
	// ErrOwnedBrush 远端事件不能修改本地拥有的画刷
	ErrOwnedBrush = errors.New("remote event targets an owned brush")
	// ErrUnknownEvent 无法识别的镜像事件
	ErrUnknownEvent = errors.New("unknown mirror event")
)
