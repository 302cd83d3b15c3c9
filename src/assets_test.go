package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetsImagePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	a := NewAssets(fstest.MapFS{
		"data/lanes.png": {Data: encodePNG(t, src)},
	})

	img, err := a.Image(`data\lanes.png`)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 1))
}

func TestAssetsImageErrors(t *testing.T) {
	a := NewAssets(fstest.MapFS{
		"junk.png": {Data: []byte("not an image")},
	})
	_, err := a.Image("missing.png")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = a.Image("junk.png")
	require.Error(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

func TestAssetsShaderOverride(t *testing.T) {
	a := NewAssets(fstest.MapFS{
		"shaders/lane.frag.glsl": {Data: []byte("custom")},
	})
	frag, err := a.Shader("lane.frag")
	require.NoError(t, err)
	assert.Equal(t, "custom", frag)

	vert, err := a.Shader("lane.vert")
	require.NoError(t, err)
	assert.Equal(t, vertexLaneShader, vert)
	assert.Contains(t, vert, "#version 120")
}

func TestCleanAssetPath(t *testing.T) {
	assert.Equal(t, "data/lanes.png", cleanAssetPath(`/data\.\lanes.png`))
	assert.Equal(t, "charts/a.lua", cleanAssetPath("charts//x/../a.lua"))
}
