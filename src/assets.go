package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"
	"path"
	"strings"

	_ "github.com/lukegb/dds"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AssetLoader supplies decoded images and shader sources to the owning
// thread during resource initialization.
type AssetLoader interface {
	Image(name string) (*image.RGBA, error)
	Shader(name string) (string, error)
}

var builtinShaders = map[string]string{
	"lane.vert": vertexLaneShader,
	"lane.frag": fragmentLaneShader,
}

// Assets reads from a file system, falling back to the built-in shaders.
type Assets struct {
	fsys fs.FS
}

func NewAssets(fsys fs.FS) *Assets {
	return &Assets{fsys: fsys}
}

func NewDirAssets(root string) *Assets {
	return NewAssets(os.DirFS(root))
}

func cleanAssetPath(name string) string {
	return strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
}

func (a *Assets) Image(name string) (*image.RGBA, error) {
	f, err := a.fsys.Open(cleanAssetPath(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if h, ok := img.(hdr.Image); ok {
		return toneMap(h), nil
	}
	return toRGBA(img), nil
}

func (a *Assets) Shader(name string) (string, error) {
	b, err := fs.ReadFile(a.fsys, cleanAssetPath("shaders/"+name+".glsl"))
	if err == nil {
		return string(b), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if src, ok := builtinShaders[name]; ok {
		return src, nil
	}
	return "", fmt.Errorf("shader %s: %w", name, fs.ErrNotExist)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// toneMap squeezes radiance values into 8 bits with the Reinhard operator.
func toneMap(img hdr.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	ch := func(v float64) uint8 {
		if v <= 0 || math.IsNaN(v) {
			return 0
		}
		return uint8(math.Round(255 * v / (1 + v)))
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.HDRAt(x, y).HDRRGBA()
			rgba.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{ch(r), ch(g), ch(bl), 255})
		}
	}
	return rgba
}
