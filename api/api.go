package api

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-solo/render"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// Game 是 HTTP 前端需要的游戏接口
type Game interface {
	Enqueue(cmd structs.Command) bool
	Latest() structs.Snapshot
}

// NewRouter 注册所有路由，staticDir 为空时不提供静态文件
func NewRouter(game Game, img *render.Image, staticDir string) *gin.Engine {
	router := gin.Default()
	// 玩家指令：方向、重开、退出
	router.GET("/command", CommandHandler(game))
	router.POST("/command", CommandHandler(game))
	// 当前状态
	router.GET("/state", StateHandler(game))
	// 当前帧
	router.GET("/frame.png", FrameHandler(game, img))
	if staticDir != "" {
		router.Static("/static", staticDir) // 静态文件服务
	}
	return router
}

func CommandHandler(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("c")

		// 验证是否提供了必要的查询参数
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: c"})
			return
		}

		// 未知指令直接忽略
		cmd, ok := structs.ParseCommand(name)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"command": name, "ignored": true})
			return
		}

		queued := game.Enqueue(cmd)
		c.JSON(http.StatusOK, gin.H{"command": cmd.String(), "queued": queued})
	}
}

func StateHandler(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, game.Latest())
	}
}

func FrameHandler(game Game, img *render.Image) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := img.EncodePNG(&buf, game.Latest()); err != nil {
			log.Printf("frame encode failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render frame"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}
