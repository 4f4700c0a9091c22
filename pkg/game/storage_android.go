//go:build android

package game

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// ensureStorageDir 创建 /data/data/{package}/saves
//
// gdata 在 Android 上使用应用私有目录，但不会预先创建子目录，必须在 gdata.Open 之前调用。
func ensureStorageDir() error {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}
	name, _, _ := bytes.Cut(cmdline, []byte{0})
	pkg := string(bytes.TrimSpace(name))
	if pkg == "" {
		return fmt.Errorf("empty package name in /proc/self/cmdline")
	}

	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create saves directory %s: %w", dir, err)
	}
	return nil
}
