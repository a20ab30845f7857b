package memimg

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// 渲染器认识的贴图名称
const (
	SpriteHead = "head"
	SpriteBody = "body"
	SpriteFood = "food"
)

// Cache 内存中的贴图，已缩放到格子大小
type Cache struct {
	blockSize int

	mu      sync.RWMutex
	sprites map[string]image.Image
}

func NewCache(blockSize int) *Cache {
	return &Cache{
		blockSize: blockSize,
		sprites:   make(map[string]image.Image),
	}
}

// spriteName 把 "./sprites/Head.png" 变成 "head"
func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return true
	}
	return false
}

// Reset 清空缓存，切换贴图目录前调用
func (c *Cache) Reset() {
	c.mu.Lock()
	c.sprites = make(map[string]image.Image)
	c.mu.Unlock()
}

// LoadDir 清空缓存后读取目录下所有贴图，目录不存在时不算错误
func (c *Cache) LoadDir(directory string) error {
	c.Reset()
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		if err := c.loadFile(path); err != nil {
			// 单个文件损坏不影响其它贴图
			log.Printf("skip sprite %s: %v", path, err)
		}
		return nil
	})
}

func (c *Cache) loadFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open sprite: %w", err)
	}
	c.Put(spriteName(path), img)
	return nil
}

// Put 缩放后放入缓存
func (c *Cache) Put(name string, img image.Image) {
	scaled := imaging.Resize(img, c.blockSize, c.blockSize, imaging.Lanczos)
	c.mu.Lock()
	c.sprites[name] = scaled
	c.mu.Unlock()
}

func (c *Cache) Remove(name string) {
	c.mu.Lock()
	delete(c.sprites, name)
	c.mu.Unlock()
}

func (c *Cache) Get(name string) (image.Image, bool) {
	c.mu.RLock()
	img, exists := c.sprites[name]
	c.mu.RUnlock()
	return img, exists
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sprites)
}

func (c *Cache) BlockSize() int {
	return c.blockSize
}

// Watch 监听贴图目录，新建或修改时热更新到内存，删除时移除
// 返回的 stop 停止监听并等待 goroutine 退出，可以重复调用
func (c *Cache) Watch(directory string) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(directory); err != nil {
		watcher.Close()
		return nil, err
	}

	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.handleEvent(event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("sprite watcher error: %v", err)
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(quit)
			<-exited
		})
	}
	return stop, nil
}

func (c *Cache) handleEvent(event fsnotify.Event) {
	if !isImage(event.Name) {
		return
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		if err := c.loadFile(event.Name); err != nil {
			// 文件可能还没写完，等下一个事件
			log.Printf("reload sprite %s: %v", event.Name, err)
		}
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		c.Remove(spriteName(event.Name))
	}
}
