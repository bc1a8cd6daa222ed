// Package export приводит растр графика к точному размеру в пикселях и пишет файл.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

var ErrSizeMismatch = errors.New("image size mismatch")

// Strategy - способ получить точный размер
type Strategy string

const (
	// Direct: размер фигуры в дюймах * DPI = целевой размер
	Direct Strategy = "direct"
	// Resample: рисуем в естественном размере библиотеки и масштабируем
	Resample Strategy = "resample"
)

// Size - размер растра в пикселях
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Figure - размер фигуры в дюймах и плотность
type Figure struct {
	WidthIn  float64
	HeightIn float64
	DPI      float64
}

// Pixels возвращает размер растра фигуры: 8in * 64dpi = 512px
func (f Figure) Pixels() Size {
	return Size{Width: int(f.WidthIn*f.DPI + 0.5), Height: int(f.HeightIn*f.DPI + 0.5)}
}

// Options описывает экспорт одного графика
type Options struct {
	Strategy  Strategy
	Target    Size
	Natural   Size
	TightCrop bool
	// отступ вокруг содержимого при обрезке, px
	CropPad int
}

// RenderSize - размер, в котором нужно рисовать перед Finalize
func (o Options) RenderSize() Size {
	if o.Strategy == Resample && o.Natural.Width > 0 && o.Natural.Height > 0 {
		return o.Natural
	}
	return o.Target
}

// Finalize обрезает поля (если нужно) и приводит растр к o.Target.
// Если обрезка изменила размер, растр масштабируется обратно до целевого.
func Finalize(data []byte, o Options) ([]byte, error) {
	if o.Target.Width <= 0 || o.Target.Height <= 0 {
		return nil, fmt.Errorf("invalid target size %s", o.Target)
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode rendered png: %w", err)
	}

	img, changed := src, false
	if o.TightCrop {
		img, changed = Crop(img, o.CropPad), true
		if b := img.Bounds(); b.Dx() != o.Target.Width || b.Dy() != o.Target.Height {
			log.Debug().
				Str("cropped", fmt.Sprintf("%dx%d", b.Dx(), b.Dy())).
				Str("target", o.Target.String()).
				Msg("tight crop changed raster size, resampling to target")
		}
	}

	if b := img.Bounds(); b.Dx() != o.Target.Width || b.Dy() != o.Target.Height {
		img, changed = Scale(img, o.Target), true
	}
	if !changed {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Scale масштабирует изображение фильтром Catmull-Rom
func Scale(src image.Image, to Size) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, to.Width, to.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Crop убирает однотонные поля цвета левого верхнего пикселя, оставляя pad px.
// Пустое изображение возвращается без изменений.
func Crop(src image.Image, pad int) image.Image {
	b := src.Bounds()
	bg := src.At(b.Min.X, b.Min.Y)
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if sameColor(src.At(x, y), bg) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return src
	}
	r := image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad).Intersect(b)

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	const tol = 0x0300
	return diff(ar, br) <= tol && diff(ag, bg) <= tol && diff(ab, bb) <= tol && diff(aa, ba) <= tol
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// WriteFile атомарно пишет PNG (временный файл + rename) и проверяет его размер.
// Растр неверного размера не заменяет существующий файл.
func WriteFile(path string, data []byte, want Size) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if cfg.Width != want.Width || cfg.Height != want.Height {
		return fmt.Errorf("%w: %s is %dx%d, want %s", ErrSizeMismatch, filepath.Base(path), cfg.Width, cfg.Height, want)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	// CreateTemp создает 0600, rename сохраняет режим
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return Verify(path, want)
}

// Verify декодирует заголовок файла и сверяет размер с ожидаемым
func Verify(path string, want Size) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width != want.Width || cfg.Height != want.Height {
		return fmt.Errorf("%w: %s is %dx%d, want %s", ErrSizeMismatch, path, cfg.Width, cfg.Height, want)
	}
	return nil
}
