package capture

import "encoding/binary"

const wavHeaderSize = 44

// PCMFormat describes raw little-endian signed PCM.
type PCMFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

func (f PCMFormat) bytesPerSecond() int {
	return f.SampleRate * f.blockAlign()
}

// blockAlign is the size of one frame: a sample for every channel.
func (f PCMFormat) blockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// encodeWAV prefixes pcm with a canonical 44 byte RIFF/WAVE header.
func encodeWAV(pcm []byte, f PCMFormat) []byte {
	out := make([]byte, wavHeaderSize, wavHeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(f.bytesPerSecond()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(f.blockAlign()))
	binary.LittleEndian.PutUint16(out[34:36], uint16(f.BitsPerSample))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))

	return append(out, pcm...)
}
