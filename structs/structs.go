package structs

import "strings"

// Cell 描述网格上的一个格子坐标。
type Cell struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Add 返回按方向移动一格后的坐标
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Direction 蛇的移动方向
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

var directionNames = map[Direction]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

// 相反方向表，掉头检查只查表
var opposites = map[Direction]Direction{
	Up:    Down,
	Down:  Up,
	Left:  Right,
	Right: Left,
}

// 单位向量表，y轴向下
var deltas = map[Direction][2]int{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// Opposite returns the reverse heading, or 0 for an invalid direction.
func (d Direction) Opposite() Direction {
	return opposites[d]
}

// Delta returns the unit vector of d.
func (d Direction) Delta() (int, int) {
	v := deltas[d]
	return v[0], v[1]
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "none"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		// "none" 和未知方向都当作没有方向
		*d = 0
		return nil
	}
	*d = parsed
	return nil
}

// ParseDirection 解析 "up", "down", "left", "right"
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == s {
			return d, true
		}
	}
	return 0, false
}

// Command 玩家输入的离散指令
type Command uint8

const (
	CmdUp Command = iota + 1
	CmdDown
	CmdLeft
	CmdRight
	CmdRestart
	CmdQuit
)

var commandNames = map[Command]string{
	CmdUp:      "up",
	CmdDown:    "down",
	CmdLeft:    "left",
	CmdRight:   "right",
	CmdRestart: "restart",
	CmdQuit:    "quit",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Direction returns the heading a turn command asks for.
func (c Command) Direction() (Direction, bool) {
	switch c {
	case CmdUp:
		return Up, true
	case CmdDown:
		return Down, true
	case CmdLeft:
		return Left, true
	case CmdRight:
		return Right, true
	}
	return 0, false
}

// ParseCommand 解析指令名称，未知指令返回 false
func ParseCommand(s string) (Command, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range commandNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// Snapshot 每个tick交给渲染器的只读状态
type Snapshot struct {
	Width    int       `json:"width"`     // 地图宽度
	Height   int       `json:"height"`    // 地图高度
	Body     []Cell    `json:"body"`      // 蛇身，第一个为蛇头
	Food     Cell      `json:"food"`      // 食物位置
	Heading  Direction `json:"heading"`   // 当前方向
	Score    int       `json:"score"`     // 分数
	GameOver bool      `json:"game_over"` // 是否结束
	Cause    string    `json:"cause"`     // 结束原因
	Tick     uint64    `json:"tick"`      // 已执行的tick数
}

// Head returns the head cell of the snapshot's body.
func (s Snapshot) Head() (Cell, bool) {
	if len(s.Body) == 0 {
		return Cell{}, false
	}
	return s.Body[0], true
}

// InBounds reports whether c lies on the snapshot's grid. A head that hit
// the right or bottom wall sits one cell outside it.
func (s Snapshot) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
}
