package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultTickInterval 每秒10个tick
const DefaultTickInterval = 100 * time.Millisecond

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Port      string `json:"port"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Blocksize int    `json:"blocksize"`
	TickMs    int    `json:"tick_ms"`
	Seed      uint64 `json:"seed"`
	Frontend  string `json:"frontend"` // terminal, http, both
	Sprites   string `json:"sprites"`
	Output    string `json:"output"`
	Sound     bool   `json:"sound"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// Defaults 800x600 窗口，20像素一格
func Defaults() AppConfig {
	return AppConfig{
		Port:      "38870",
		Width:     40,
		Height:    30,
		Blocksize: 20,
		TickMs:    int(DefaultTickInterval / time.Millisecond),
		Frontend:  "terminal",
		Sprites:   "./sprites",
		Output:    "./static",
		Sound:     true,
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		cfg, err := Load(filePath)
		if err != nil {
			panic(err)
		}
		instance = cfg
	})
	return instance
}

// Load reads filePath, writing the defaults there first if it does not exist.
func Load(filePath string) (*AppConfig, error) {
	cfg := Defaults()
	// Load the config file if it exists, otherwise create one
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, &cfg); err != nil {
			return nil, err
		}
	} else if err := loadConfig(filePath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filePath, err)
	}
	return &cfg, nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Validate 检查地图尺寸和tick
func (c *AppConfig) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("grid %dx%d too small", c.Width, c.Height)
	}
	if c.Blocksize < 1 {
		return fmt.Errorf("blocksize %d must be positive", c.Blocksize)
	}
	if c.TickMs < 1 {
		return fmt.Errorf("tick_ms %d must be positive", c.TickMs)
	}
	switch c.Frontend {
	case "terminal", "http", "both":
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	return nil
}

// TickInterval 每个tick的间隔
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	mu.RLock()
	defer mu.RUnlock()
	switch key {
	case "port":
		return instance.Port
	case "width":
		return instance.Width
	case "height":
		return instance.Height
	case "blocksize":
		return instance.Blocksize
	case "tick_ms":
		return instance.TickMs
	case "seed":
		return instance.Seed
	case "frontend":
		return instance.Frontend
	case "sprites":
		return instance.Sprites
	case "output":
		return instance.Output
	case "sound":
		return instance.Sound
	default:
		return ""
	}
}

// WatchConfig 监听配置文件，变化时只更新渲染相关的配置
// 地图尺寸和tick在进程内不变
func WatchConfig(filePath string, done <-chan struct{}, onChange func(*AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// 监听目录，编辑器保存时经常是替换文件
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(filePath) {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					reload(filePath, onChange)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher error: %v", err)
			case <-done:
				return
			}
		}
	}()
	return nil
}

func reload(filePath string, onChange func(*AppConfig)) {
	mu.RLock()
	current := *instance
	mu.RUnlock()

	next := current
	if err := loadConfig(filePath, &next); err != nil {
		log.Printf("config reload failed: %v", err)
		return
	}

	mu.Lock()
	instance.Sprites = next.Sprites
	updated := *instance
	mu.Unlock()

	log.Printf("config reloaded: sprites=%s", updated.Sprites)
	if onChange != nil {
		onChange(&updated)
	}
}
