package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
)

// OpenStorage 打开跨平台存储
//
// 失败时返回 nil 管理器和错误；调用方可以把 nil 交给 NewStyleStore 进入降级模式。
//
// 参数:
//   - appName: 存储目录名
func OpenStorage(appName string) (*gdata.Manager, error) {
	if err := ensureStorageDir(); err != nil {
		log.Printf("[Storage] Warning: %v", err)
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %s: %w", appName, err)
	}
	return m, nil
}
