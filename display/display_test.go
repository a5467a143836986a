package display

import "testing"

func TestNullSinkIsANoOp(t *testing.T) {
	var s Sink = NullSink{}
	s.Write(0, 0xFF)
	s.Redraw()
	s.Exit(1)
	if err := s.Run(); err != nil {
		t.Errorf("NullSink.Run() = %v, want nil", err)
	}
}

func TestChannelSendNeverBlocksWhenFull(t *testing.T) {
	s := &SDLSink{ch: make(chan Message, 1)}
	s.Write(0, 1) // fills the buffer
	s.Write(0, 2) // would block without the non-blocking send; must not hang
	if len(s.ch) != 1 {
		t.Errorf("channel length = %d, want 1", len(s.ch))
	}
}

func TestDrawCharSetsExpectedPixels(t *testing.T) {
	// A glyph whose every scanline byte is 0xFF should light up the
	// full 8x8 cell.
	rom := make([]uint8, 8)
	for i := range rom {
		rom[i] = 0xFF
	}
	s := &SDLSink{charROM: rom}
	frame := make([]byte, DisplayWidth*DisplayHeight*4)
	s.drawChar(frame, 0, 0, 0)

	for y := 0; y < glyphH; y++ {
		for x := 0; x < glyphW; x++ {
			i := (y*DisplayWidth + x) * 4
			if frame[i+3] != 0xFF {
				t.Fatalf("pixel (%d,%d) alpha = %#02x, want 0xFF (lit)", x, y, frame[i+3])
			}
		}
	}
	// one cell to the right should remain untouched
	i := (0*DisplayWidth + glyphW) * 4
	if frame[i+3] != 0 {
		t.Errorf("pixel outside glyph cell was touched: alpha = %#02x", frame[i+3])
	}
}

func TestRenderFrameUsesInterleavedTextPageAddressing(t *testing.T) {
	rom := make([]uint8, 256*8)
	// code 1's glyph: a single lit pixel at (0,0) within its cell.
	rom[1*8+0] = 0x01

	s := &SDLSink{charROM: rom}
	// row 9 (m=1, r=1) reads from base + 1*0x80 + 1*0x28 + 0 = 0xA8.
	s.textPage[0xA8] = 1

	frame := s.renderFrame()
	x, y := 0, 9*glyphH
	i := (y*DisplayWidth + x) * 4
	if frame[i+3] != 0xFF {
		t.Errorf("expected glyph at row 9 col 0 via interleaved addressing, pixel not lit")
	}
}
