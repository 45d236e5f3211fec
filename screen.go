package main

import (
	"fmt"
	"path/filepath"

	"github.com/massung/chipper/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// bytes per pixel of the streaming texture
const scrDepth = 4

var (
	// pixel on and off colors (RGBA)
	onColor  = [scrDepth]byte{17, 29, 43, 255}
	offColor = [scrDepth]byte{143, 145, 133, 255}
)

/// Screen is the window the CHIP-8 display is scaled into.
///
type Screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	// RGBA pixels uploaded to the texture each frame
	pixels []byte
}

/// NewScreen creates a window scale times the size of the CHIP-8
/// display.
///
func NewScreen(scale int) (*Screen, error) {
	var err error

	scr := &Screen{
		pixels: make([]byte, chip8.Width*chip8.Height*scrDepth),
	}

	w, h := int32(chip8.Width*scale), int32(chip8.Height*scale)

	scr.window, err = sdl.CreateWindow("CHIP-8", int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED), w, h, uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	scr.renderer, err = sdl.CreateRenderer(scr.window, -1, uint32(sdl.RENDERER_ACCELERATED)|uint32(sdl.RENDERER_PRESENTVSYNC))
	if err != nil {
		scr.Destroy()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	// keep square pixels when the window is resized
	if err := scr.renderer.SetLogicalSize(chip8.Width, chip8.Height); err != nil {
		scr.Destroy()
		return nil, fmt.Errorf("setting logical size: %w", err)
	}

	scr.texture, err = scr.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), chip8.Width, chip8.Height)
	if err != nil {
		scr.Destroy()
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	return scr, nil
}

/// Refresh the window with the current display of the virtual
/// machine.
///
func (scr *Screen) Refresh(emu *Emulator) error {
	fillPixels(scr.pixels, emu.VM.Frame())

	if err := scr.texture.Update(nil, scr.pixels, chip8.Width*scrDepth); err != nil {
		return err
	}

	if err := scr.renderer.Copy(scr.texture, nil, nil); err != nil {
		return err
	}

	scr.renderer.Present()

	return nil
}

/// SetTitle shows the loaded file and emulation state in the title
/// bar.
///
func (scr *Screen) SetTitle(emu *Emulator) {
	title := "CHIP-8"

	if emu.File != "" {
		title = fmt.Sprintf("CHIP-8 - %s - %d Hz", filepath.Base(emu.File), emu.Speed())
	}

	if emu.Paused {
		title += " [paused]"
	}

	scr.window.SetTitle(title)
}

// Destroy the window and everything created for it.
func (scr *Screen) Destroy() {
	if scr.texture != nil {
		_ = scr.texture.Destroy()
	}

	if scr.renderer != nil {
		_ = scr.renderer.Destroy()
	}

	if scr.window != nil {
		_ = scr.window.Destroy()
	}
}

/// fillPixels converts a frame into RGBA pixels, row by row.
///
func fillPixels(pixels []byte, frame chip8.Frame) {
	for y := range frame {
		for x, on := range frame[y] {
			c := offColor
			if on != 0 {
				c = onColor
			}

			copy(pixels[(y*chip8.Width+x)*scrDepth:], c[:])
		}
	}
}
