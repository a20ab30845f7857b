package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-solo/api"
	"github.com/hoshinonyaruko/snake-solo/audio"
	"github.com/hoshinonyaruko/snake-solo/config"
	"github.com/hoshinonyaruko/snake-solo/game"
	"github.com/hoshinonyaruko/snake-solo/memimg"
	"github.com/hoshinonyaruko/snake-solo/render"
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/term"
)

const configPath = "./config.json"

// 关闭终端（SIGHUP）也要走正常退出，恢复终端并停掉监听
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

func main() {
	// Initialize the configuration
	cfg := config.LoadConfig(configPath)
	terminal := cfg.Frontend == "terminal" || cfg.Frontend == "both"
	httpOn := cfg.Frontend == "http" || cfg.Frontend == "both"

	// 终端被游戏占用，日志写到文件
	if terminal {
		logFile, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %s", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	grid := snake.Grid{Width: cfg.Width, Height: cfg.Height}
	session, err := snake.NewSession(grid, snake.NewRand(cfg.Seed))
	if err != nil {
		log.Fatalf("Failed to start session: %s", err)
	}
	controller := game.NewController(session, cfg.TickInterval(), game.NewQueue(game.DefaultQueueSize))

	// 贴图载入内存并热更新
	sprites := memimg.NewCache(cfg.Blocksize)
	var spriteMu sync.Mutex
	spriteDir := cfg.Sprites
	stopSprites := loadSprites(sprites, spriteDir)
	defer func() {
		spriteMu.Lock()
		stopSprites()
		spriteMu.Unlock()
	}()
	// 切换目录时先停掉旧目录的监听
	err = config.WatchConfig(configPath, ctx.Done(), func(next *config.AppConfig) {
		spriteMu.Lock()
		defer spriteMu.Unlock()
		if next.Sprites == spriteDir {
			return
		}
		stopSprites()
		spriteDir = next.Sprites
		stopSprites = loadSprites(sprites, spriteDir)
	})
	if err != nil {
		log.Printf("config watch disabled: %v", err)
	}

	if cfg.Sound {
		player, err := audio.NewPlayer()
		if err != nil {
			// 没有声音也可以玩
			log.Printf("Audio initialization failed: %v", err)
		}
		defer player.Close()
		controller.AddListener(player)
	}

	if httpOn {
		frames := render.NewImage(cfg.Blocksize, sprites, cfg.Output)
		controller.AddRenderer(frames)
		server := &http.Server{
			Addr:    ":" + config.GetConfigValue("port").(string),
			Handler: api.NewRouter(controller, frames, cfg.Output),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server stopped: %v", err)
			}
		}()
		defer server.Close()
		log.Printf("http frontend listening on :%s", cfg.Port)
	}

	if terminal {
		screen, err := tcell.NewScreen()
		if err != nil {
			log.Fatalf("Failed to create screen: %s", err)
		}
		if err := screen.Init(); err != nil {
			log.Fatalf("Failed to init screen: %s", err)
		}
		defer screen.Fini()

		tui := term.New(screen)
		controller.AddRenderer(tui)
		go tui.PollInput(ctx, controller.Enqueue)
	}

	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("game loop stopped: %v", err)
	}
}

// loadSprites 载入目录并开始监听，返回停止监听的函数
func loadSprites(sprites *memimg.Cache, dir string) (stop func()) {
	noop := func() {}
	if err := sprites.LoadDir(dir); err != nil {
		log.Printf("load sprites from %s: %v", dir, err)
		return noop
	}
	stop, err := sprites.Watch(dir)
	if err != nil {
		log.Printf("sprite watch disabled for %s: %v", dir, err)
		return noop
	}
	return stop
}
