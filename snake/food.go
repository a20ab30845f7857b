package snake

import (
	"errors"

	"github.com/hoshinonyaruko/snake-solo/structs"
	"golang.org/x/exp/rand"
)

// ErrNoRoom is returned by Respawn when the snake covers the whole grid.
var ErrNoRoom = errors.New("no free cell to spawn food")

// 随机取样的次数，之后改为枚举空格子
const maxSampleAttempts = 64

// Food 地图上唯一的食物
type Food struct {
	Position structs.Cell
}

// Respawn 在不被占用的位置重新生成食物
func (f *Food) Respawn(grid Grid, occupied map[structs.Cell]bool, rng *rand.Rand) error {
	total := grid.Cells()
	if total <= 0 {
		return ErrNoRoom
	}

	for i := 0; i < maxSampleAttempts; i++ {
		c := structs.Cell{X: rng.Intn(grid.Width), Y: rng.Intn(grid.Height)}
		if !occupied[c] {
			f.Position = c
			return nil
		}
	}

	// 地图很满，枚举剩余空格子再均匀选择
	free := make([]structs.Cell, 0, total)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := structs.Cell{X: x, Y: y}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return ErrNoRoom
	}
	f.Position = free[rng.Intn(len(free))]
	return nil
}
