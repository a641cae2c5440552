package deckmix

import (
	"encoding/binary"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// RenderSeconds renders seconds of the mix offline and returns interleaved
// stereo samples.
func RenderSeconds(m *Mixer, seconds float64) ([]float32, error) {
	return RenderFrames(m, int(float64(m.sampleRate)*seconds))
}

// RenderFrames renders frames of the mix one block at a time. Decks advance
// exactly as they would with a live driver.
func RenderFrames(m *Mixer, frames int) ([]float32, error) {
	out := make([]float32, frames*2)
	block := m.cfg.blockSize * 2
	for off := 0; off < len(out); off += block {
		end := min(off+block, len(out))
		if err := m.Render(out[off:end]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}

// WriteWAV16 writes interleaved samples as 16-bit PCM. Values outside
// [-1, 1] are clipped.
func WriteWAV16(w io.WriteSeeker, samples []float32, sampleRate, channels int) error {
	enc := gowav.NewEncoder(w, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		s = min(max(s, -1), 1)
		buf.Data[i] = int(math.Round(float64(s) * 32767))
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
