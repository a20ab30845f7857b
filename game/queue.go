package game

import (
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// DefaultQueueSize 两个tick之间最多缓存的指令数
const DefaultQueueSize = 64

// Queue 输入指令队列，前端写入，每个tick取空一次
type Queue struct {
	ch chan structs.Command
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan structs.Command, size)}
}

// Enqueue 不阻塞，队列满时丢弃并返回 false
func (q *Queue) Enqueue(cmd structs.Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Drain 取出所有指令并合并成一次输入，转向以最后一次为准
func (q *Queue) Drain() snake.Input {
	var in snake.Input
	for {
		select {
		case cmd := <-q.ch:
			if d, ok := cmd.Direction(); ok {
				in.Turn = d
				continue
			}
			switch cmd {
			case structs.CmdRestart:
				in.Restart = true
			case structs.CmdQuit:
				in.Quit = true
			}
		default:
			return in
		}
	}
}
