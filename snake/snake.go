// 关于的蛇的更新
package snake

import "github.com/hoshinonyaruko/snake-solo/structs"

// Snake 蛇身、方向以及待生长标记
type Snake struct {
	body    []structs.Cell // 第一个为蛇头
	heading structs.Direction
	grow    bool
}

// NewSnake 创建一条长度为1的蛇
func NewSnake(start structs.Cell, heading structs.Direction) Snake {
	return Snake{
		body:    []structs.Cell{start},
		heading: heading,
	}
}

// ChangeDirection 改变方向，不允许直接掉头
func (s *Snake) ChangeDirection(d structs.Direction) {
	if !d.Valid() || d == s.heading.Opposite() {
		return
	}
	s.heading = d
}

// Advance 向当前方向移动一格
func (s *Snake) Advance() {
	newHead := s.Head().Add(s.heading)

	// 新建切片，旧的会话值不受影响
	keep := len(s.body)
	if !s.grow {
		keep--
	}
	newBody := make([]structs.Cell, 0, keep+1)
	newBody = append(newBody, newHead)
	newBody = append(newBody, s.body[:keep]...)

	s.body = newBody
	s.grow = false
}

// MarkGrowth 吃到食物后，下一次移动不去掉尾巴
func (s *Snake) MarkGrowth() {
	s.grow = true
}

// IsColliding reports whether the head left the grid or bit the body.
func (s *Snake) IsColliding(grid Grid) bool {
	return s.collision(grid) != CauseNone
}

func (s *Snake) collision(grid Grid) Cause {
	head := s.Head()
	if !grid.InBounds(head) {
		return CauseWall
	}
	// 检查头部是否与身体的其他部分重叠
	for _, bodyPart := range s.body[1:] {
		if bodyPart == head {
			return CauseSelf
		}
	}
	return CauseNone
}

func (s *Snake) Head() structs.Cell {
	return s.body[0]
}

// Body returns a copy of the body, head first.
func (s *Snake) Body() []structs.Cell {
	b := make([]structs.Cell, len(s.body))
	copy(b, s.body)
	return b
}

func (s *Snake) Len() int {
	return len(s.body)
}

func (s *Snake) Heading() structs.Direction {
	return s.heading
}

func (s *Snake) Growing() bool {
	return s.grow
}

// Occupied 蛇身占用的格子集合
func (s *Snake) Occupied() map[structs.Cell]bool {
	occupied := make(map[structs.Cell]bool, len(s.body))
	for _, c := range s.body {
		occupied[c] = true
	}
	return occupied
}
