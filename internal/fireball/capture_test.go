package fireball

import (
	"encoding/binary"
	"math"
	"testing"
)

// f32Frames encodes stereo float32 LE frames with both channels carrying the
// same value, so the folded mono stream must reproduce vals exactly.
func f32Frames(vals []float64) []byte {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		putF32LE(buf, i*8, v)
		putF32LE(buf, i*8+4, v)
	}
	return buf
}

// TestFoldUnalignedChunks verifies frame decoding survives pipe reads that
// do not end on a frame boundary: the remainder carries into the next read
// instead of shifting the stream
func TestFoldUnalignedChunks(t *testing.T) {
	vals := make([]float64, 30)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	stream := f32Frames(vals)

	for _, chunk := range []int{1, 3, 5, 7, 12, 13} {
		fold := newFrameFolder(encF32LE)
		var got []float64
		for off := 0; off < len(stream); off += chunk {
			end := off + chunk
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, fold.push(stream[off:end])...)
		}
		if len(got) != len(vals) {
			t.Fatalf("chunk %d: folded %d frames, want %d", chunk, len(got), len(vals))
		}
		for i := range vals {
			if got[i] != vals[i] {
				t.Fatalf("chunk %d: frame %d = %v, want %v (stream shifted)",
					chunk, i, got[i], vals[i])
			}
		}
	}
}

// TestFoldStereoAverage verifies differing channels fold to their mean
func TestFoldStereoAverage(t *testing.T) {
	buf := make([]byte, 16)
	putF32LE(buf, 0, 0.2)
	putF32LE(buf, 4, 0.6)
	putF32LE(buf, 8, -1.0)
	putF32LE(buf, 12, 1.0)

	fold := newFrameFolder(encF32LE)
	got := fold.push(buf)
	if len(got) != 2 {
		t.Fatalf("folded %d frames, want 2", len(got))
	}
	if math.Abs(got[0]-0.4) > 1e-6 {
		t.Errorf("frame 0 = %v, want 0.4", got[0])
	}
	if got[1] != 0 {
		t.Errorf("frame 1 = %v, want 0", got[1])
	}
}

// TestFoldS16Unaligned verifies the 16-bit path carries remainders too
func TestFoldS16Unaligned(t *testing.T) {
	vals := []int16{1000, -2000, 3000, -32768, 32767}
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}

	fold := newFrameFolder(encS16LE)
	var got []float64
	for off := 0; off < len(buf); off += 3 {
		end := off + 3
		if end > len(buf) {
			end = len(buf)
		}
		got = append(got, fold.push(buf[off:end])...)
	}
	if len(got) != len(vals) {
		t.Fatalf("folded %d frames, want %d", len(got), len(vals))
	}
	for i, v := range vals {
		want := float64(v) / 32768.0
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("frame %d = %v, want %v", i, got[i], want)
		}
	}
}

// TestFoldIncompleteTail verifies a trailing partial frame is held back, not
// emitted or dropped
func TestFoldIncompleteTail(t *testing.T) {
	stream := f32Frames([]float64{0.5, 0.25})
	fold := newFrameFolder(encF32LE)

	got := fold.push(stream[:11])
	if len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("partial push folded %v, want [0.5]", got)
	}
	got = fold.push(stream[11:])
	if len(got) != 1 || got[0] != 0.25 {
		t.Fatalf("completing push folded %v, want [0.25]", got)
	}
}
