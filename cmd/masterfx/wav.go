package main

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/cwbudde/algo-mastering/dsp/dither"
)

const (
	wavChannels      = 2
	wavBitsPerSample = 16
)

type wavHeader struct {
	RiffID        [4]byte
	RiffSize      uint32
	WaveID        [4]byte
	FmtID         [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataID        [4]byte
	DataSize      uint32
}

// writeWAV writes interleaved stereo samples as 16-bit PCM. With q set the
// samples are dithered through it, otherwise they are rounded and clipped
// to [-1, 1].
func writeWAV(w io.Writer, sampleRate int, samples []float32, q *dither.Stereo) error {
	if sampleRate <= 0 {
		return errors.New("wav: sample rate must be > 0")
	}
	if len(samples)%wavChannels != 0 {
		return errors.New("wav: sample count must be a whole number of stereo frames")
	}

	blockAlign := wavChannels * wavBitsPerSample / 8
	dataSize := uint32(len(samples) * wavBitsPerSample / 8)
	h := wavHeader{
		RiffID:        [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      36 + dataSize,
		WaveID:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		Channels:      wavChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: wavBitsPerSample,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}

	pcm := make([]int16, len(samples))
	if q != nil {
		q.Quantize16(pcm, samples)
	} else {
		for i, v := range samples {
			pcm[i] = toPCM16(v)
		}
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}

func toPCM16(v float32) int16 {
	switch {
	case v != v:
		return 0
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	}
	return int16(math.Round(float64(v) * math.MaxInt16))
}
