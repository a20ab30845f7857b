package snake

import (
	"errors"
	"testing"

	"github.com/hoshinonyaruko/snake-solo/structs"
	"golang.org/x/exp/rand"
)

func newTestSession(t *testing.T, width, height int) Session {
	t.Helper()
	s, err := NewSession(Grid{Width: width, Height: height}, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// 把食物放到不会被碰到的角落
func parkFood(s *Session) {
	s.Food.Position = structs.Cell{X: 0, Y: s.Grid.Height - 1}
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, 10, 10)

	if s.State != StatePlaying {
		t.Errorf("Expected playing, got %v", s.State)
	}
	if s.Score != 0 {
		t.Errorf("Expected score 0, got %d", s.Score)
	}
	if !equalCells(s.Snake.Body(), cells(5, 5)) {
		t.Errorf("Expected snake at (5,5), got %v", s.Snake.Body())
	}
	if s.Snake.Heading() != structs.Right {
		t.Errorf("Expected heading right, got %v", s.Snake.Heading())
	}
	if s.Food.Position == s.Snake.Head() {
		t.Error("Food spawned on the snake")
	}
}

func TestNewSessionInvalidGrid(t *testing.T) {
	_, err := NewSession(Grid{Width: 0, Height: 5}, nil)
	if !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Expected ErrInvalidGrid, got %v", err)
	}

	_, err = NewSession(Grid{Width: 1, Height: 1}, nil)
	if !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Expected ErrInvalidGrid for 1x1 grid, got %v", err)
	}

	// 最小的可用地图：蛇一格，食物一格
	s, err := NewSession(Grid{Width: 1, Height: 2}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Expected 1x2 grid to work, got %v", err)
	}
	if s.Food.Position == s.Snake.Head() {
		t.Error("Food spawned on the snake")
	}
}

func TestTickMovesRight(t *testing.T) {
	s := newTestSession(t, 10, 10)
	parkFood(&s)

	s, ev := Tick(s, Input{})
	if !equalCells(s.Snake.Body(), cells(6, 5)) {
		t.Errorf("Expected body [(6,5)], got %v", s.Snake.Body())
	}
	if s.Snake.IsColliding(s.Grid) {
		t.Error("Expected no collision")
	}
	if ev.Died || s.State != StatePlaying {
		t.Error("Expected session still playing")
	}
	if s.Ticks != 1 {
		t.Errorf("Expected 1 tick, got %d", s.Ticks)
	}
}

func TestTickWallCollision(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Snake = NewSnake(structs.Cell{X: 9, Y: 5}, structs.Right)
	parkFood(&s)

	s, ev := Tick(s, Input{})
	if s.Snake.Head() != (structs.Cell{X: 10, Y: 5}) {
		t.Errorf("Expected head (10,5), got %v", s.Snake.Head())
	}
	if !s.Snake.IsColliding(s.Grid) {
		t.Error("Expected collision")
	}
	if s.State != StateGameOver || s.Cause != CauseWall || !ev.Died {
		t.Errorf("Expected game over by wall, got state=%v cause=%q", s.State, s.Cause)
	}

	// 结束后不再移动
	after, _ := Tick(s, Input{Turn: structs.Up})
	if after.Snake.Head() != s.Snake.Head() || after.Ticks != s.Ticks {
		t.Error("Expected no movement after game over")
	}
}

func TestTickEatFood(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Snake = newSnakeFromBody(cells(5, 5, 4, 5, 3, 5), structs.Right)
	s.Food.Position = structs.Cell{X: 6, Y: 5}

	s, ev := Tick(s, Input{})
	if !ev.Ate {
		t.Fatal("Expected food eaten")
	}
	if s.Score != FoodReward {
		t.Errorf("Expected score %d, got %d", FoodReward, s.Score)
	}
	if !s.Snake.Growing() {
		t.Error("Expected pending growth")
	}
	if s.Snake.Len() != 3 {
		t.Errorf("Expected length 3 on the eating tick, got %d", s.Snake.Len())
	}
	for _, c := range cells(6, 5, 5, 5, 4, 5, 3, 5) {
		if s.Food.Position == c {
			t.Errorf("Food respawned on %v", c)
		}
	}

	parkFood(&s)
	s, _ = Tick(s, Input{})
	if s.Snake.Len() != 4 {
		t.Errorf("Expected length 4 on the next tick, got %d", s.Snake.Len())
	}
}

func TestTickSelfCollision(t *testing.T) {
	s := newTestSession(t, 10, 10)
	s.Snake = newSnakeFromBody(cells(5, 5, 4, 5, 4, 6, 5, 6, 6, 6), structs.Right)
	parkFood(&s)

	s, _ = Tick(s, Input{Turn: structs.Down})
	if s.State != StateGameOver || s.Cause != CauseSelf {
		t.Errorf("Expected self collision, got state=%v cause=%q", s.State, s.Cause)
	}
}

func TestTickIgnoresReverse(t *testing.T) {
	s := newTestSession(t, 10, 10)
	parkFood(&s)

	s, _ = Tick(s, Input{Turn: structs.Left})
	if s.Snake.Head() != (structs.Cell{X: 6, Y: 5}) {
		t.Errorf("Expected reverse turn ignored, head %v", s.Snake.Head())
	}
}

func TestTickBoardFull(t *testing.T) {
	s := newTestSession(t, 2, 1)
	// 2x1 地图：蛇在 (1,0)，食物在 (0,0)
	s.Snake = NewSnake(structs.Cell{X: 1, Y: 0}, structs.Left)
	s.Food.Position = structs.Cell{X: 0, Y: 0}

	s, ev := Tick(s, Input{})
	if !ev.Ate {
		t.Fatal("Expected food eaten")
	}
	// 长度为1，蛇只占 (0,0)，还有空位
	if s.State != StatePlaying {
		t.Fatalf("Expected playing, got %v (%q)", s.State, s.Cause)
	}

	// 带着待生长标记吃掉最后的空位
	s.Snake = newSnakeFromBody(cells(0, 0), structs.Right)
	s.Food.Position = structs.Cell{X: 1, Y: 0}
	s.Snake.MarkGrowth()
	s, ev = Tick(s, Input{})
	if !ev.Ate || s.State != StateGameOver || s.Cause != CauseBoardFull {
		t.Errorf("Expected board full game over, got state=%v cause=%q", s.State, s.Cause)
	}
}

func TestRestart(t *testing.T) {
	s := newTestSession(t, 10, 10)
	fresh := newTestSession(t, 10, 10)

	s.Snake = NewSnake(structs.Cell{X: 9, Y: 5}, structs.Right)
	s.Score = 30
	parkFood(&s)
	s, _ = Tick(s, Input{})
	if s.State != StateGameOver {
		t.Fatal("Expected game over")
	}

	s, ev := Tick(s, Input{Restart: true})
	if !ev.Restarted {
		t.Fatal("Expected restart event")
	}
	if s.State != fresh.State || s.Score != fresh.Score || s.Cause != CauseNone || s.Ticks != 0 {
		t.Errorf("Restarted session differs from fresh one: %+v", s)
	}
	if !equalCells(s.Snake.Body(), fresh.Snake.Body()) || s.Snake.Heading() != fresh.Snake.Heading() {
		t.Errorf("Expected fresh snake, got %v heading %v", s.Snake.Body(), s.Snake.Heading())
	}
	if s.Snake.Growing() {
		t.Error("Expected no pending growth")
	}
	if s.Food.Position == s.Snake.Head() {
		t.Error("Food spawned on the snake")
	}
}

func TestRestartIgnoredWhilePlaying(t *testing.T) {
	s := newTestSession(t, 10, 10)
	parkFood(&s)
	s, ev := Tick(s, Input{Restart: true})
	if ev.Restarted {
		t.Error("Expected restart ignored while playing")
	}
	if s.Ticks != 1 {
		t.Errorf("Expected the tick to advance, got %d", s.Ticks)
	}
}

func TestQuit(t *testing.T) {
	s := newTestSession(t, 10, 10)
	after, ev := Tick(s, Input{Quit: true, Turn: structs.Up})
	if !ev.Quit {
		t.Error("Expected quit event")
	}
	if after.Ticks != 0 || after.Snake.Head() != s.Snake.Head() {
		t.Error("Expected no state change on quit")
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestSession(t, 10, 10)
	snap := s.Snapshot()
	if snap.Width != 10 || snap.Height != 10 {
		t.Errorf("Unexpected size %dx%d", snap.Width, snap.Height)
	}
	head, ok := snap.Head()
	if !ok || head != (structs.Cell{X: 5, Y: 5}) {
		t.Errorf("Unexpected head %v", head)
	}
	if snap.GameOver || snap.Score != 0 || snap.Food != s.Food.Position {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	snap.Body[0] = structs.Cell{X: 0, Y: 0}
	if s.Snake.Head() != (structs.Cell{X: 5, Y: 5}) {
		t.Error("Snapshot aliases the session body")
	}
}
