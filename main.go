package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/brushes/pkg/app"
	"github.com/gonewx/brushes/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "画刷配置文件（默认使用嵌入的 data/brush.yaml）")
	mirrorURL := flag.String("mirror", "", "把本地画刷的修改发送到该 WebSocket 地址，如 ws://localhost:9100/")
	listenAddr := flag.String("listen", "", "在该地址接收远端画刷事件，如 :9100")
	image := flag.String("image", app.DefaultImage, "按 I 键使用的填充图片（嵌入资源路径）")
	flag.Parse()

	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		MirrorURL:  *mirrorURL,
		ListenAddr: *listenAddr,
		Image:      *image,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Brushes")

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("游戏循环退出: %v", err)
	}
}
