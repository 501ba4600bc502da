// Package audio converts speech-synthesis payloads into playable resources
// and controls their playback.
//
// The speech backend may return either a self-describing WAV container or
// headerless 16-bit little-endian mono PCM at 24 kHz, depending on model and
// version. Playback facilities need a self-describing container, so raw PCM
// payloads get a canonical WAV header synthesized in front of them.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Common format of TTS output: 24 kHz, 16-bit, mono.
const (
	DefaultSampleRate    = 24000
	DefaultBitsPerSample = 16
	DefaultChannels      = 1
)

// Format describes a PCM sample format.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat returns the standard TTS output format.
func DefaultFormat() Format {
	return Format{
		SampleRate:    DefaultSampleRate,
		Channels:      DefaultChannels,
		BitsPerSample: DefaultBitsPerSample,
	}
}

// BytesPerSecond returns the PCM data rate, or 0 for a malformed format.
func (f Format) BytesPerSecond() int {
	bps := f.SampleRate * f.Channels * f.BitsPerSample / 8
	if bps < 0 {
		return 0
	}
	return bps
}

// SampleCount returns how many samples per channel dataLen bytes hold.
func (f Format) SampleCount(dataLen int) int {
	blockAlign := f.Channels * f.BitsPerSample / 8
	if blockAlign <= 0 {
		return 0
	}
	return dataLen / blockAlign
}

// Resource is a decoded, disposable audio artifact: a standards-compliant
// WAV byte buffer plus the bare PCM and the format used for decoding.
type Resource struct {
	wav    []byte
	pcm    []byte
	format Format
	rawLen int

	closeOnce sync.Once
}

// WAV returns the self-describing WAV bytes.
func (r *Resource) WAV() []byte { return r.wav }

// PCM returns the bare sample data without any container header.
func (r *Resource) PCM() []byte { return r.pcm }

// Format returns the sample format used for decoding.
func (r *Resource) Format() Format { return r.format }

// RawLen returns the byte length of the payload as received, before any
// header synthesis.
func (r *Resource) RawLen() int { return r.rawLen }

// Close releases the decoded buffers. Safe to call more than once.
func (r *Resource) Close() {
	if r == nil {
		return
	}
	r.closeOnce.Do(func() {
		r.wav = nil
		r.pcm = nil
	})
}

var riffSignature = []byte{'R', 'I', 'F', 'F'}

// IsWAV reports whether payload starts with the RIFF signature.
func IsWAV(payload []byte) bool {
	return len(payload) >= len(riffSignature) &&
		string(payload[:len(riffSignature)]) == string(riffSignature)
}

// Decode converts a base64-encoded audio payload into a playable resource.
// WAV payloads pass through unchanged; anything else is treated as raw
// 16-bit LE mono PCM at 24 kHz and wrapped in a synthesized header.
func Decode(base64Payload string) (*Resource, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(base64Payload))
	if err != nil {
		return nil, fmt.Errorf("decode base64 audio: %w", err)
	}
	return DecodeBytes(raw)
}

// DecodeBytes is Decode for an already base64-decoded payload.
func DecodeBytes(raw []byte) (*Resource, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty audio payload")
	}

	if IsWAV(raw) {
		format, data, err := ParseWAV(raw)
		if err != nil {
			return nil, fmt.Errorf("parse wav payload: %w", err)
		}
		return &Resource{wav: raw, pcm: data, format: format, rawLen: len(raw)}, nil
	}

	format := DefaultFormat()
	return &Resource{
		wav:    PCMToWAV(raw, format),
		pcm:    raw,
		format: format,
		rawLen: len(raw),
	}, nil
}

// PCMToWAV prepends the canonical 44-byte WAV header to raw PCM data.
func PCMToWAV(pcm []byte, f Format) []byte {
	dataLen := len(pcm)
	byteRate := f.SampleRate * f.Channels * f.BitsPerSample / 8
	blockAlign := f.Channels * f.BitsPerSample / 8

	header := make([]byte, 44)

	// RIFF chunk descriptor
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen)) // File size - 8
	copy(header[8:12], "WAVE")

	// fmt sub-chunk
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)                    // Sub-chunk size (16 for PCM)
	binary.LittleEndian.PutUint16(header[20:22], 1)                     // Audio format (1 = PCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(f.Channels))    // Number of channels
	binary.LittleEndian.PutUint32(header[24:28], uint32(f.SampleRate))  // Sample rate
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))      // Byte rate
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))    // Block align
	binary.LittleEndian.PutUint16(header[34:36], uint16(f.BitsPerSample)) // Bits per sample

	// data sub-chunk
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	return append(header, pcm...)
}

// ParseWAV reads a PCM WAV container, returning its sample format and the
// bytes of the data chunk. Unknown chunks are skipped.
func ParseWAV(b []byte) (Format, []byte, error) {
	if len(b) < 12 || !IsWAV(b) || string(b[8:12]) != "WAVE" {
		return Format{}, nil, errors.New("not a RIFF/WAVE container")
	}

	var (
		format  Format
		data    []byte
		sawFmt  bool
		sawData bool
	)

	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		off += 8
		if size < 0 || off+size > len(b) {
			return Format{}, nil, fmt.Errorf("chunk %q overruns container", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Format{}, nil, errors.New("fmt chunk too short")
			}
			audioFormat := binary.LittleEndian.Uint16(b[off : off+2])
			if audioFormat != 1 {
				return Format{}, nil, fmt.Errorf("unsupported audio format %d (want PCM)", audioFormat)
			}
			format.Channels = int(binary.LittleEndian.Uint16(b[off+2 : off+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
			format.BitsPerSample = int(binary.LittleEndian.Uint16(b[off+14 : off+16]))
			sawFmt = true
		case "data":
			data = b[off : off+size]
			sawData = true
		}

		off += size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}

	if !sawFmt || !sawData {
		return Format{}, nil, errors.New("missing fmt or data chunk")
	}
	return format, data, nil
}
