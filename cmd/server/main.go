package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikanbox/pan115-gateway/internal/api"
	"github.com/mikanbox/pan115-gateway/internal/config"
	"github.com/mikanbox/pan115-gateway/internal/db"
	"github.com/mikanbox/pan115-gateway/internal/drive115"
	"github.com/mikanbox/pan115-gateway/internal/store"
	"github.com/mikanbox/pan115-gateway/internal/submit"
)

func main() {
	// 1. Load Config
	if err := config.LoadConfig("."); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Gin Mode
	gin.SetMode(config.AppConfig.Server.Mode)

	// 转换为绝对路径日志一下
	absPath, _ := filepath.Abs(config.AppConfig.Database.Path)
	log.Printf("Initializing database at: %s", absPath)

	db.InitDB(config.AppConfig.Database.Path)
	defer db.CloseDB()

	r := gin.Default()

	// 前端跨域调用网关，放开 CORS
	r.Use(cors.Default())

	// 装配依赖：上游客户端、凭证库、提交器
	drive := drive115.NewClient(config.AppConfig.Upstream)
	creds := store.NewCredentialStore(db.DB)
	submitter := submit.NewSubmitter(creds, drive)

	api.InitRoutes(r, api.NewHandlers(drive, creds, submitter))

	port := fmt.Sprintf("%d", config.AppConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
