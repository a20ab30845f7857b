// Package game runs a snake session at a fixed tick rate, feeding it queued
// commands and handing every new state to the renderers.
package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// Renderer consumes a snapshot once per tick, after the state update.
type Renderer interface {
	Render(snap structs.Snapshot) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(snap structs.Snapshot) error

func (f RendererFunc) Render(snap structs.Snapshot) error {
	return f(snap)
}

// Listener 接收每个tick产生的事件，例如播放声音
type Listener interface {
	OnEvents(ev snake.Events)
}

// Controller 拥有会话，只有 Run 所在的 goroutine 修改它
type Controller struct {
	queue     *Queue
	interval  time.Duration
	renderers []Renderer
	listeners []Listener

	session snake.Session

	mu     sync.RWMutex
	latest structs.Snapshot
}

func NewController(session snake.Session, interval time.Duration, queue *Queue) *Controller {
	if queue == nil {
		queue = NewQueue(DefaultQueueSize)
	}
	return &Controller{
		queue:    queue,
		interval: interval,
		session:  session,
		latest:   session.Snapshot(),
	}
}

// AddRenderer must be called before Run.
func (c *Controller) AddRenderer(r Renderer) {
	c.renderers = append(c.renderers, r)
}

// AddListener must be called before Run.
func (c *Controller) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Enqueue 前端调用，可以来自任意 goroutine
func (c *Controller) Enqueue(cmd structs.Command) bool {
	ok := c.queue.Enqueue(cmd)
	if !ok {
		log.Printf("command queue full, dropping %v", cmd)
	}
	return ok
}

// Latest 最近一次发布的快照
func (c *Controller) Latest() structs.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := c.latest
	snap.Body = append([]structs.Cell(nil), c.latest.Body...)
	return snap
}

// Run 按固定间隔推进游戏，收到退出指令时返回 nil
func (c *Controller) Run(ctx context.Context) error {
	c.render(c.session.Snapshot())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if quit := c.Step(); quit {
				return nil
			}
		}
	}
}

// Step 执行一个tick：取输入、更新状态、渲染、发布
func (c *Controller) Step() (quit bool) {
	in := c.queue.Drain()

	next, ev := snake.Tick(c.session, in)
	if ev.Quit {
		log.Printf("quit at tick %d, score %d", c.session.Ticks, c.session.Score)
		return true
	}
	c.session = next

	switch {
	case ev.Died:
		log.Printf("game over: %s, score %d, length %d", next.Cause, next.Score, next.Snake.Len())
	case ev.Restarted:
		log.Printf("restarted")
	}
	for _, l := range c.listeners {
		l.OnEvents(ev)
	}

	c.render(next.Snapshot())
	return false
}

func (c *Controller) render(snap structs.Snapshot) {
	for _, r := range c.renderers {
		if err := r.Render(snap); err != nil {
			log.Printf("render failed: %v", err)
		}
	}

	c.mu.Lock()
	c.latest = snap
	c.mu.Unlock()
}
