// Package display renders the Apple IIe 40x24 text page as it would
// appear on an NTSC monitor. It owns the one piece of state the
// memory fabric is deliberately ignorant of (spec.md §1): the pixels
// behind the VRAM bank's writes. A Sink is driven entirely by
// messages — Write, Redraw, Exit — matching the three message kinds
// spec.md §6 assigns to the Display channel, so the producer (the
// CPU thread, via memory.VRAM) never blocks on or knows about
// windowing.
package display

import (
	"fmt"
	"image"
	"log"

	"github.com/mjkern/retro6502/romloader"
	"github.com/veandco/go-sdl2/sdl"
	ximage "golang.org/x/image/draw"
)

// Kind identifies a display channel message, per spec.md §6.
type Kind int

const (
	Write Kind = iota
	Redraw
	Exit
)

// Message is the payload carried on the display channel. Only the
// fields relevant to Kind are meaningful: Offset/Byte for Write, Code
// for Exit.
type Message struct {
	Kind   Kind
	Offset uint16
	Byte   uint8
	Code   uint8
}

func (m Message) String() string {
	switch m.Kind {
	case Write:
		return fmt.Sprintf("Write(%#04x, %#02x)", m.Offset, m.Byte)
	case Redraw:
		return "Redraw"
	case Exit:
		return fmt.Sprintf("Exit(%d)", m.Code)
	default:
		return "unknown"
	}
}

// Sink is the seam memory.VRAM depends on (memory.Sink), widened with
// the Redraw/Exit messages the rest of the system needs to drive a
// real display thread. Run blocks processing messages until an Exit
// message arrives or the channel closes.
type Sink interface {
	Write(offset uint16, val uint8)
	Redraw()
	Exit(code uint8)
	Run() error
}

// NullSink discards every message. It satisfies Sink for headless
// runs, such as tests that never open a window.
type NullSink struct{}

func (NullSink) Write(offset uint16, val uint8) {}
func (NullSink) Redraw()                        {}
func (NullSink) Exit(code uint8)                {}
func (NullSink) Run() error                     { return nil }

const (
	textCols = 40
	textRows = 24
	glyphW   = 8
	glyphH   = 8

	// DisplayWidth/DisplayHeight are the logical NTSC frame
	// dimensions; the text page is drawn over the top-left
	// textCols*glyphW x textRows*glyphH of it, the rest stays black.
	DisplayWidth  = 320
	DisplayHeight = 200

	charROMName = "apple2e_video.bin"
)

// SDLSink opens an SDL2 window and renders the text page by decoding
// each screen cell through the character ROM, the way
// apple_iie_e_display.rs's draw_char does: each glyph is 8 bytes, one
// per scanline, one bit per column.
type SDLSink struct {
	charROM  []uint8
	scale    int
	ch       chan Message
	textPage [0x400]uint8
}

// NewSDLSink loads the character ROM and constructs a Sink that will
// open a window of DisplayWidth*scale x DisplayHeight*scale pixels
// once Run is called. The message channel is generously buffered so
// that Write/Redraw producers — which run on the emulator thread —
// never block; a full buffer only happens if the display thread is
// stuck, and is logged rather than allowed to stall emulation.
func NewSDLSink(scale int) (*SDLSink, error) {
	rom, err := romloader.Load(charROMName)
	if err != nil {
		return nil, err
	}
	return &SDLSink{
		charROM: rom,
		scale:   scale,
		ch:      make(chan Message, 4096),
	}, nil
}

func (s *SDLSink) Write(offset uint16, val uint8) {
	s.send(Message{Kind: Write, Offset: offset, Byte: val})
}

func (s *SDLSink) Redraw() {
	s.send(Message{Kind: Redraw})
}

func (s *SDLSink) Exit(code uint8) {
	s.send(Message{Kind: Exit, Code: code})
}

func (s *SDLSink) send(m Message) {
	select {
	case s.ch <- m:
	default:
		log.Printf("display: channel full, dropping %s", m)
	}
}

// Run opens the SDL window and services the message channel until an
// Exit message arrives, sdl.Main's caller tears the window down. Per
// the SDL threading rule vcs_main.go follows, Run must execute on the
// thread sdl.Main dedicates to it; callers are expected to invoke Run
// from inside an sdl.Main callback.
func (s *SDLSink) Run() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("display: sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"retro6502 - apple ii e",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(DisplayWidth*s.scale), int32(DisplayHeight*s.scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("display: create window: %w", err)
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		return fmt.Errorf("display: get surface: %w", err)
	}

	for msg := range s.ch {
		switch msg.Kind {
		case Write:
			s.textPage[msg.Offset] = msg.Byte
		case Redraw:
			s.present(window, surface)
		case Exit:
			return nil
		}
	}
	return nil
}

// present decodes the full text page through the character ROM into
// a DisplayWidth x DisplayHeight RGBA frame, then scales it up into
// the window surface and flips it.
func (s *SDLSink) present(window *sdl.Window, surface *sdl.Surface) {
	frame := s.renderFrame()
	src := &image.RGBA{
		Pix:    frame,
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
	dst := &image.RGBA{
		Pix:    surface.Pixels(),
		Stride: int(surface.Pitch),
		Rect:   image.Rect(0, 0, int(surface.W), int(surface.H)),
	}
	ximage.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, ximage.Over, nil)
	window.UpdateSurface()
}

// renderFrame walks the 24x40 cell grid using the same row/column
// addressing apple_iie_e_display.rs's draw() derives from the Apple
// II text page's interleaved row layout: row m (0-7) within
// "third" r (0-2) lives at base + m*0x80 + r*0x28 + col.
func (s *SDLSink) renderFrame() []byte {
	frame := make([]byte, DisplayWidth*DisplayHeight*4)
	for row := 0; row < textRows; row++ {
		m := row % 8
		r := row / 8
		for col := 0; col < textCols; col++ {
			idx := m*0x80 + r*0x28 + col
			s.drawChar(frame, s.textPage[idx], col, row)
		}
	}
	return frame
}

// drawChar plots one glyph's set bits at cell (col, row), reading the
// glyph's 8 scanline bytes from charROM starting at code*8.
func (s *SDLSink) drawChar(frame []byte, code uint8, col, row int) {
	base := int(code) * glyphH
	for i := 0; i < glyphH; i++ {
		var bits uint8
		if base+i < len(s.charROM) {
			bits = s.charROM[base+i]
		}
		for j := 0; j < glyphW; j++ {
			if bits&(1<<uint(j)) == 0 {
				continue
			}
			setPixel(frame, col*glyphW+j, row*glyphH+i)
		}
	}
}

func setPixel(frame []byte, x, y int) {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return
	}
	i := (y*DisplayWidth + x) * 4
	frame[i+0] = 0xD0
	frame[i+1] = 0xD8
	frame[i+2] = 0xD0
	frame[i+3] = 0xFF
}
