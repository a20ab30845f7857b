package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-solo/memimg"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// 颜色，蛇头比身体深
var (
	ColorBackground = color.RGBA{0, 0, 0, 255}
	ColorGrid       = color.RGBA{30, 30, 30, 255}
	ColorHead       = color.RGBA{0, 200, 0, 255}
	ColorBody       = color.RGBA{0, 255, 0, 255}
	ColorFood       = color.RGBA{255, 0, 0, 255}
	ColorText       = color.RGBA{255, 255, 255, 255}
)

// FrameFile 每个tick写出的图片名
const FrameFile = "frame.png"

// Image 用 gg 把快照画成图片
type Image struct {
	blockSize int
	sprites   *memimg.Cache
	outputDir string

	// 背景和网格按尺寸缓存
	backgrounds sync.Map
}

// NewImage returns an image renderer; sprites may be nil and outputDir may be
// empty when frames are only encoded on request.
func NewImage(blockSize int, sprites *memimg.Cache, outputDir string) *Image {
	return &Image{
		blockSize: blockSize,
		sprites:   sprites,
		outputDir: outputDir,
	}
}

// Render 保存当前帧到输出目录
func (r *Image) Render(snap structs.Snapshot) error {
	if r.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.outputDir, os.ModePerm); err != nil {
		return err
	}
	// 先写临时文件再改名，读取方不会看到半张图
	fileName := filepath.Join(r.outputDir, FrameFile)
	tmp := fileName + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := r.EncodePNG(file, snap); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, fileName)
}

// EncodePNG 把快照编码成PNG写到w
func (r *Image) EncodePNG(w io.Writer, snap structs.Snapshot) error {
	dc := gg.NewContextForImage(r.Draw(snap))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

// Draw 渲染一帧
func (r *Image) Draw(snap structs.Snapshot) image.Image {
	width := snap.Width * r.blockSize
	height := snap.Height * r.blockSize

	dc := gg.NewContext(width, height)
	dc.DrawImage(r.background(width, height), 0, 0)

	r.drawCell(dc, snap, snap.Food, memimg.SpriteFood, ColorFood)
	// 先画身体再画头，头总在最上面
	for i := len(snap.Body) - 1; i >= 1; i-- {
		r.drawCell(dc, snap, snap.Body[i], memimg.SpriteBody, ColorBody)
	}
	if head, ok := snap.Head(); ok {
		r.drawCell(dc, snap, head, memimg.SpriteHead, ColorHead)
	}

	dc.SetColor(ColorText)
	dc.DrawString(fmt.Sprintf("Score: %d", snap.Score), 10, 20)

	if !snap.GameOver {
		return dc.Image()
	}
	return r.gameOverOverlay(dc.Image(), width, height)
}

func (r *Image) drawCell(dc *gg.Context, snap structs.Snapshot, c structs.Cell, sprite string, fallback color.Color) {
	if !snap.InBounds(c) {
		return
	}
	x, y := c.X*r.blockSize, c.Y*r.blockSize
	if r.sprites != nil {
		if img, found := r.sprites.Get(sprite); found {
			dc.DrawImage(img, x, y)
			return
		}
	}
	// 没有贴图就画色块，留一像素边
	dc.SetColor(fallback)
	dc.DrawRectangle(float64(x+1), float64(y+1), float64(r.blockSize-2), float64(r.blockSize-2))
	dc.Fill()
}

func (r *Image) gameOverOverlay(frame image.Image, width, height int) image.Image {
	blurred := imaging.Blur(frame, 3)
	dc := gg.NewContextForImage(blurred)
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetColor(ColorText)
	dc.DrawStringAnchored("GAME OVER", float64(width)/2, float64(height)/2-15, 0.5, 0.5)
	dc.DrawStringAnchored("Press SPACE to restart or ESC to quit", float64(width)/2, float64(height)/2+15, 0.5, 0.5)
	return dc.Image()
}

func (r *Image) background(width, height int) image.Image {
	key := fmt.Sprintf("%d_%d_%d", width, height, r.blockSize)
	if cached, ok := r.backgrounds.Load(key); ok {
		return cached.(image.Image)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(ColorBackground)
	dc.Clear()
	renderGrid(dc, width, height, r.blockSize)

	img := dc.Image()
	r.backgrounds.Store(key, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetColor(ColorGrid)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}
