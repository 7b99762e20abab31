package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// overlay tint, cycled per turn so consecutive results are visibly
// different.
var tints = []color.RGBA{
	{R: 124, G: 58, B: 237, A: 255},
	{R: 34, G: 197, B: 94, A: 255},
	{R: 249, G: 115, B: 22, A: 255},
}

// overlayDataURI renders the stub's "segmentation result": a copy of
// the upload with a translucent elliptical highlight in the center,
// encoded as a self-contained PNG data URI.
func overlayDataURI(src image.Image, turn int) (string, error) {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	tint := tints[turn%len(tints)]

	cx := float64(bounds.Min.X+bounds.Max.X) / 2
	cy := float64(bounds.Min.Y+bounds.Max.Y) / 2
	rx := float64(bounds.Dx()) / 3
	ry := float64(bounds.Dy()) / 3

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			px := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}

			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1 {
				px.R = blend(px.R, tint.R)
				px.G = blend(px.G, tint.G)
				px.B = blend(px.B, tint.B)
			}
			out.SetRGBA(x, y, px)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s",
		base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// blend mixes the highlight in at half strength.
func blend(base, tint uint8) uint8 {
	return uint8((uint16(base) + uint16(tint)) / 2)
}
