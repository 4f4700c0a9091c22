package game

import (
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"io/fs"
	"log"
	"sync"

	_ "golang.org/x/image/bmp"  // 注册 BMP 解码器
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"github.com/gonewx/brushes/pkg/timer"
)

// ImageLoader 异步图片加载器
//
// 解码在独立的 goroutine 中进行，完成后通过 timer.Scheduler.Post 把回调投递回帧循环，
// 因此回调里可以安全地修改画刷。解码结果按路径缓存，同一路径的并发请求只解码一次。
//
// 返回的是 image.Image；转换为 GPU 纹理由 canvas.EbitenSurface 在首次绘制时完成。
type ImageLoader struct {
	fsys      fs.FS
	scheduler *timer.Scheduler

	mu       sync.Mutex
	cache    map[string]image.Image
	inflight map[string][]func(image.Image, error)
	wg       sync.WaitGroup
}

// NewImageLoader 创建图片加载器
//
// 参数:
//   - fsys: 图片所在文件系统（os.DirFS 或嵌入资源）
//   - scheduler: 回调投递目标
func NewImageLoader(fsys fs.FS, scheduler *timer.Scheduler) *ImageLoader {
	return &ImageLoader{
		fsys:      fsys,
		scheduler: scheduler,
		cache:     make(map[string]image.Image),
		inflight:  make(map[string][]func(image.Image, error)),
	}
}

// Load 开始加载图片，立即返回
//
// done 总是在下一次 Scheduler.Advance 中被调用，即使图片已在缓存中。
func (l *ImageLoader) Load(src string, done func(image.Image, error)) {
	l.mu.Lock()
	if img, ok := l.cache[src]; ok {
		l.mu.Unlock()
		l.scheduler.Post(func() { done(img, nil) })
		return
	}
	if waiters, ok := l.inflight[src]; ok {
		l.inflight[src] = append(waiters, done)
		l.mu.Unlock()
		return
	}
	l.inflight[src] = []func(image.Image, error){done}
	l.wg.Add(1)
	l.mu.Unlock()

	go l.decode(src)
}

// Cached 返回已缓存的图片
func (l *ImageLoader) Cached(src string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.cache[src]
	return img, ok
}

// Wait 等待所有进行中的解码结束（回调仍需 Advance 才会执行）
func (l *ImageLoader) Wait() {
	l.wg.Wait()
}

func (l *ImageLoader) decode(src string) {
	defer l.wg.Done()

	img, err := l.readImage(src)
	if err != nil {
		log.Printf("[ImageLoader] %v", err)
	}

	l.mu.Lock()
	if err == nil {
		l.cache[src] = img
	}
	waiters := l.inflight[src]
	delete(l.inflight, src)
	l.mu.Unlock()

	l.scheduler.Post(func() {
		for _, done := range waiters {
			done(img, err)
		}
	})
}

func (l *ImageLoader) readImage(src string) (image.Image, error) {
	file, err := l.fsys.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", src, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", src, err)
	}
	return img, nil
}
