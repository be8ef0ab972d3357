package utterance

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeWAV renders an Utterance's float32 PCM as a 16 kHz mono 16-bit
// WAV file in memory, for upload to a remote transcription backend.
func EncodeWAV(u Utterance) []byte {
	pcm := make([]byte, len(u.PCM)*2)
	for i, f := range u.PCM {
		pcm[2*i], pcm[2*i+1] = int16Bytes(floatToInt16(f))
	}

	var buf bytes.Buffer

	const channels = 1
	const bitsPerSample = 16
	sampleRate := u.SampleRate
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	dataSize := len(pcm)
	fileSize := 36 + dataSize

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(fileSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}

func floatToInt16(f float32) int16 {
	v := f * 32768.0
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(math.Round(float64(v)))
}

func int16Bytes(v int16) (byte, byte) {
	u := uint16(v)
	return byte(u), byte(u >> 8)
}
