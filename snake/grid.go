package snake

import "github.com/hoshinonyaruko/snake-solo/structs"

// Grid 游戏区域，以格子为单位
type Grid struct {
	Width  int
	Height int
}

// InBounds 判断格子是否在地图内
func (g Grid) InBounds(c structs.Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Cells returns the number of cells on the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Centre returns the starting cell of a fresh snake.
func (g Grid) Centre() structs.Cell {
	return structs.Cell{X: g.Width / 2, Y: g.Height / 2}
}
