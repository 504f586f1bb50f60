// @title EduTech 后端 API
// @version 1.0
// @description EduTech学习平台的后端服务器。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"edutech_backend/internal/app"
	"edutech_backend/internal/config"
	"edutech_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	catalogCheck := flag.Bool("catalog-check", false, "只校验课程目录文件，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.CatalogCheckOnly = *catalogCheck

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer logger.Log.Sync()

	// 目录校验完成后直接退出
	if *catalogCheck {
		log.Println("课程目录校验通过，退出程序")
		return
	}

	application.Run()
}
