//go:build !android

package game

// ensureStorageDir 非 Android 平台上 gdata 会自动创建存储目录
func ensureStorageDir() error {
	return nil
}
