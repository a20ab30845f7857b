// Package term draws snapshots on a tcell screen and turns key presses into
// game commands.
package term

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder  = styleDefault.Foreground(tcell.ColorGray)
	styleHead    = styleDefault.Background(tcell.ColorDarkGreen)
	styleBody    = styleDefault.Background(tcell.ColorLime)
	styleFood    = styleDefault.Background(tcell.ColorRed)
	styleText    = styleDefault.Foreground(tcell.ColorWhite)
	styleOver    = styleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// 每个格子占两列，看起来接近正方形
const cellWidth = 2

// 地图左上角相对屏幕的偏移：第一行是分数，然后是边框
const (
	originX = 1
	originY = 2
)

// Terminal 终端前端
type Terminal struct {
	screen tcell.Screen
}

func New(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Render 画出一帧
func (t *Terminal) Render(snap structs.Snapshot) error {
	s := t.screen
	s.Clear()
	s.Fill(' ', styleDefault)

	drawText(s, 0, 0, styleText, fmt.Sprintf("Score: %d", snap.Score))
	t.drawBorder(snap.Width, snap.Height)

	t.drawCell(snap, snap.Food, styleFood)
	for i := len(snap.Body) - 1; i >= 1; i-- {
		t.drawCell(snap, snap.Body[i], styleBody)
	}
	if head, ok := snap.Head(); ok {
		t.drawCell(snap, head, styleHead)
	}

	if snap.GameOver {
		midY := originY + snap.Height/2
		midX := originX + snap.Width*cellWidth/2
		drawCentred(s, midX, midY-1, styleOver, "GAME OVER")
		drawCentred(s, midX, midY+1, styleText, "Press SPACE to restart or ESC to quit")
	}

	s.Show()
	return nil
}

// ScreenCell 把网格坐标换算成屏幕坐标
func ScreenCell(c structs.Cell) (int, int) {
	return originX + c.X*cellWidth, originY + c.Y
}

// drawCell 跳过地图外的格子，撞墙后的蛇头不会盖住边框
func (t *Terminal) drawCell(snap structs.Snapshot, c structs.Cell, style tcell.Style) {
	if !snap.InBounds(c) {
		return
	}
	x, y := ScreenCell(c)
	for i := 0; i < cellWidth; i++ {
		t.screen.SetContent(x+i, y, ' ', nil, style)
	}
}

func (t *Terminal) drawBorder(width, height int) {
	s := t.screen
	left, top := originX-1, originY-1
	right, bottom := originX+width*cellWidth, originY+height

	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, styleBorder)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, styleBorder)
		s.SetContent(right, y, tcell.RuneVLine, nil, styleBorder)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, styleBorder)
	s.SetContent(right, top, tcell.RuneURCorner, nil, styleBorder)
	s.SetContent(left, bottom, tcell.RuneLLCorner, nil, styleBorder)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleBorder)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawCentred(s tcell.Screen, x, y int, style tcell.Style, text string) {
	drawText(s, x-len([]rune(text))/2, y, style, text)
}

// KeyCommand 按键映射：方向键、WASD、hjkl 转向，空格或 r 重开，Esc/q/Ctrl-C 退出
func KeyCommand(ev *tcell.EventKey) (structs.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return structs.CmdUp, true
	case tcell.KeyDown:
		return structs.CmdDown, true
	case tcell.KeyLeft:
		return structs.CmdLeft, true
	case tcell.KeyRight:
		return structs.CmdRight, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return structs.CmdQuit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return structs.CmdUp, true
		case 's', 'j':
			return structs.CmdDown, true
		case 'a', 'h':
			return structs.CmdLeft, true
		case 'd', 'l':
			return structs.CmdRight, true
		case ' ', 'r':
			return structs.CmdRestart, true
		case 'q':
			return structs.CmdQuit, true
		}
	}
	return 0, false
}

// PollInput 读取终端事件并写入 enqueue，直到 ctx 结束
// 调用方在 ctx 结束后 Fini 屏幕，PollEvent 会返回 nil
func (t *Terminal) PollInput(ctx context.Context, enqueue func(structs.Command) bool) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if cmd, ok := KeyCommand(ev); ok {
					enqueue(cmd)
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}
}
