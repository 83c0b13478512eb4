// Command filter-preview renders a filter scene the way the panel would show it, into a PNG.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/internal/filter"
)

func main() {
	widthFlag := flag.Int("width", 128, "Panel width")
	heightFlag := flag.Int("height", 64, "Panel height")
	wFlag := flag.Uint("w", 40, "Container width")
	hFlag := flag.Uint("h", 30, "Container height")
	levelFlag := flag.Uint("level", 0, "Fill level")
	fillingFlag := flag.Bool("filling", false, "Draw the stream of a running fill")
	scaleFlag := flag.Int("scale", 4, "Pixel scale")
	fontFlag := flag.String("font", "", "TrueType font for the caption (default: built-in 7x13)")
	outFlag := flag.String("o", "preview.png", "Output file")
	dumpFlag := flag.Bool("dump", false, "Print the I²C frames a refresh would send")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	bus := &i2ctest.Record{}
	fb, err := oled.New(bus, &oled.Config{Width: *widthFlag, Height: *heightFlag})
	if err != nil {
		fatal(err)
	}

	scene := filter.Scene{
		Width:   uint8(*wFlag),
		Height:  uint8(*hFlag),
		Level:   uint8(*levelFlag),
		Filling: *fillingFlag,
	}
	filter.Render(fb, scene)

	var face font.Face = basicfont.Face7x13
	if *fontFlag != "" {
		if face, err = loadFace(*fontFlag); err != nil {
			fatal(err)
		}
	}
	caption := fmt.Sprintf("%dx%d level %d/%d", scene.Width, scene.Height, scene.Level, fb.MaxFill(scene.Height))
	out := preview(fb, *scaleFlag, face, caption)

	f, err := os.Create(*outFlag)
	if err != nil {
		fatal(err)
	}
	if err = png.Encode(f, out); err != nil {
		_ = f.Close()
		fatal(err)
	}
	if err = f.Close(); err != nil {
		fatal(err)
	}
	log.Info().Str("file", *outFlag).Stringer("size", out.Bounds().Size()).Msg("preview written")

	if *dumpFlag {
		if err = fb.Configure(); err != nil {
			fatal(err)
		}
		if err = fb.Present(); err != nil {
			fatal(err)
		}
		for _, op := range bus.Ops {
			fmt.Printf("%#02x: %s\n", op.Addr, hex.EncodeToString(op.W))
		}
	}
}

// preview scales the panel up and writes caption below it.
func preview(fb *oled.Framebuffer, scale int, face font.Face, caption string) *image.Gray {
	var (
		panel   = fb.Bounds()
		metrics = face.Metrics()
		line    = (metrics.Ascent + metrics.Descent).Ceil() + 4
		out     = image.NewGray(image.Rect(0, 0, panel.Dx()*scale, panel.Dy()*scale+line))
	)
	xdraw.Draw(out, out.Bounds(), image.NewUniform(color.Gray{Y: 0x20}), image.Point{}, xdraw.Src)
	xdraw.NearestNeighbor.Scale(out, image.Rect(0, 0, panel.Dx()*scale, panel.Dy()*scale), fb, panel, xdraw.Src, nil)

	d := font.Drawer{
		Dst:  out,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(2, panel.Dy()*scale+2+metrics.Ascent.Ceil()),
	}
	d.DrawString(caption)
	return out
}

func loadFace(name string) (font.Face, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: 12, Hinting: font.HintingFull}), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
