package snake

import (
	"errors"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-solo/structs"
	"golang.org/x/exp/rand"
)

// FoodReward 每个食物的得分
const FoodReward = 10

// ErrInvalidGrid is returned by NewSession for a grid that cannot hold the
// snake and a food cell.
var ErrInvalidGrid = errors.New("grid must have at least 2 cells")

// State 游戏状态
type State uint8

const (
	StatePlaying State = iota
	StateGameOver
)

func (s State) String() string {
	if s == StateGameOver {
		return "game_over"
	}
	return "playing"
}

// Cause 游戏结束的原因
type Cause string

const (
	CauseNone      Cause = ""
	CauseWall      Cause = "wall-collision"
	CauseSelf      Cause = "self-collision"
	CauseBoardFull Cause = "board-full"
)

// Session 一局游戏，每个tick作为值传入并返回
type Session struct {
	Grid  Grid
	Snake Snake
	Food  Food
	Score int
	State State
	Cause Cause
	Ticks uint64

	rng *rand.Rand
}

// Input 一个tick内收集到的输入
type Input struct {
	Turn    structs.Direction // 0 表示不转向
	Restart bool
	Quit    bool
}

// Events 一个tick内发生的事情，供声音和日志使用
type Events struct {
	Ate       bool
	Died      bool
	Restarted bool
	Quit      bool
}

// NewRand returns a food RNG; seed 0 picks a time based seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// NewSession 新的一局：蛇在中心向右，长度为1，分数为0
func NewSession(grid Grid, rng *rand.Rand) (Session, error) {
	// 蛇和食物各占一格
	if grid.Width < 1 || grid.Height < 1 || grid.Cells() < 2 {
		return Session{}, fmt.Errorf("new session %dx%d: %w", grid.Width, grid.Height, ErrInvalidGrid)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	s := Session{
		Grid:  grid,
		Snake: NewSnake(grid.Centre(), structs.Right),
		State: StatePlaying,
		rng:   rng,
	}
	if err := s.Food.Respawn(grid, s.Snake.Occupied(), rng); err != nil {
		return Session{}, fmt.Errorf("new session %dx%d: %w", grid.Width, grid.Height, err)
	}
	return s, nil
}

// Restart 整体替换为新的一局，沿用地图和随机源
func (s Session) Restart() (Session, error) {
	return NewSession(s.Grid, s.rng)
}

// Tick 执行一个tick的状态转换
func Tick(s Session, in Input) (Session, Events) {
	var ev Events
	if in.Quit {
		ev.Quit = true
		return s, ev
	}

	if s.State == StateGameOver {
		if !in.Restart {
			return s, ev
		}
		fresh, err := s.Restart()
		if err != nil {
			// 地图在创建时已经校验过，这里不会发生
			return s, ev
		}
		ev.Restarted = true
		return fresh, ev
	}

	if in.Turn != 0 {
		s.Snake.ChangeDirection(in.Turn)
	}
	s.Snake.Advance()
	s.Ticks++

	// 检查是否吃到食物
	if s.Snake.Head() == s.Food.Position {
		s.Snake.MarkGrowth()
		s.Score += FoodReward
		ev.Ate = true
		if err := s.Food.Respawn(s.Grid, s.Snake.Occupied(), s.rng); errors.Is(err, ErrNoRoom) {
			s.State = StateGameOver
			s.Cause = CauseBoardFull
			ev.Died = true
		}
	}

	// 检查撞墙或咬到自己
	if cause := s.Snake.collision(s.Grid); cause != CauseNone {
		s.State = StateGameOver
		s.Cause = cause
		ev.Died = true
	}

	return s, ev
}

// Snapshot 复制一份只读状态给渲染器
func (s Session) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Width:    s.Grid.Width,
		Height:   s.Grid.Height,
		Body:     s.Snake.Body(),
		Food:     s.Food.Position,
		Heading:  s.Snake.Heading(),
		Score:    s.Score,
		GameOver: s.State == StateGameOver,
		Cause:    string(s.Cause),
		Tick:     s.Ticks,
	}
}
