package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // mono, normalized to [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channel count of the source before downmix
	Duration   time.Duration `json:"duration"`
	Format     Format        `json:"format"`
	Timestamp  time.Time     `json:"timestamp"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration"` // 0 means no limit
	ChunkFrames int           `json:"chunk_frames"` // frames read per decode step
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
		ChunkFrames: 4096,
	}
}

// Decoder turns WAV, FLAC and MP3 byte streams into mono PCM
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder. The config is copied.
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	c := *config
	if c.ChunkFrames <= 0 {
		c.ChunkFrames = DefaultDecoderConfig().ChunkFrames
	}
	return &Decoder{config: &c}
}

// DecodeFile decodes an audio file and returns PCM data
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return d.DecodeBytes(data)
}

// DecodeReader decodes audio from an io.Reader
func (d *Decoder) DecodeReader(reader io.Reader) (*AudioData, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, decodeErr(FormatUnknown, fmt.Errorf("read input: %w", err))
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes audio from a byte slice. Every failure is a *DecodeError.
func (d *Decoder) DecodeBytes(data []byte) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeBytes",
		"data_size": len(data),
	})

	if len(data) == 0 {
		return nil, decodeErr(FormatUnknown, ErrEmptyInput)
	}

	format := SniffFormat(data)

	var (
		result *AudioData
		err    error
	)
	switch format {
	case FormatWAV:
		result, err = d.decodeWAV(bytes.NewReader(data))
	case FormatFLAC:
		result, err = d.decodeFLAC(bytes.NewReader(data))
	case FormatMP3:
		result, err = d.decodeMP3(bytes.NewReader(data))
	default:
		err = ErrUnknownFormat
	}
	if err == nil && len(result.PCM) == 0 {
		err = ErrNoAudio
	}

	if err != nil {
		logger.Debug("Decode failed", logging.Fields{"format": string(format), "error": err.Error()})
		return nil, decodeErr(format, err)
	}

	result.Format = format
	result.Timestamp = time.Now()
	result.Duration = time.Duration(float64(len(result.PCM)) / float64(result.SampleRate) * float64(time.Second))

	logger.Debug("Audio decoded", logging.Fields{
		"format":      string(format),
		"sample_rate": result.SampleRate,
		"channels":    result.Channels,
		"samples":     len(result.PCM),
	})

	return result, nil
}

// frameLimit returns the maximum number of mono frames to keep, or -1 for no limit
func (d *Decoder) frameLimit(sampleRate int) int {
	if d.config.MaxDuration <= 0 {
		return -1
	}
	return int(d.config.MaxDuration.Seconds() * float64(sampleRate))
}

// appendMono averages interleaved channels into mono and appends to dst
func appendMono(dst []float64, interleaved []int, channels int, offset, scale float64) []float64 {
	frames := len(interleaved) / channels
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += (float64(interleaved[i*channels+ch]) - offset) / scale
		}
		dst = append(dst, sum/float64(channels))
	}
	return dst
}

func (d *Decoder) decodeWAV(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV header")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	// 1 = PCM, 0xFFFE = WAVE_FORMAT_EXTENSIBLE
	if dec.WavAudioFormat != 1 && dec.WavAudioFormat != 0xFFFE {
		return nil, fmt.Errorf("unsupported WAV encoding %d", dec.WavAudioFormat)
	}

	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	bitDepth := int(dec.BitDepth)
	if channels <= 0 || sampleRate <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("invalid WAV format: %d channels, %d Hz, %d bits", channels, sampleRate, bitDepth)
	}

	// 8-bit WAV is unsigned
	offset, scale := 0.0, float64(audio.IntMaxSignedValue(bitDepth))
	if bitDepth == 8 {
		offset, scale = 128, 128
	}

	limit := d.frameLimit(sampleRate)
	buf := &audio.IntBuffer{
		Data: make([]int, d.config.ChunkFrames*channels),
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
	}

	pcm := make([]float64, 0)
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
		}
		if n == 0 {
			break
		}

		pcm = appendMono(pcm, buf.Data[:n-n%channels], channels, offset, scale)
		if limit >= 0 && len(pcm) >= limit {
			pcm = pcm[:limit]
			break
		}
		if err == io.EOF {
			break
		}
	}

	return &AudioData{PCM: pcm, SampleRate: sampleRate, Channels: channels}, nil
}

func (d *Decoder) decodeFLAC(r io.Reader) (*AudioData, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}
	defer stream.Close()

	sampleRate := int(stream.Info.SampleRate)
	channels := int(stream.Info.NChannels)
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid FLAC stream info: %d channels, %d Hz", channels, sampleRate)
	}

	limit := d.frameLimit(sampleRate)
	pcm := make([]float64, 0)

	for limit < 0 || len(pcm) < limit {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}
		if len(frame.Subframes) == 0 || frame.BitsPerSample == 0 {
			continue
		}

		scale := float64(int64(1) << (frame.BitsPerSample - 1))
		for i := range frame.Subframes[0].Samples {
			var sum int64
			for _, subframe := range frame.Subframes {
				sum += int64(subframe.Samples[i])
			}
			pcm = append(pcm, float64(sum)/float64(len(frame.Subframes))/scale)
		}
	}

	if limit >= 0 && len(pcm) > limit {
		pcm = pcm[:limit]
	}
	return &AudioData{PCM: pcm, SampleRate: sampleRate, Channels: channels}, nil
}

func (d *Decoder) decodeMP3(r io.Reader) (*AudioData, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	sampleRate := dec.SampleRate()
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid MP3 sample rate %d", sampleRate)
	}

	// go-mp3 always outputs interleaved 16-bit little-endian stereo
	const bytesPerFrame = 4
	limit := d.frameLimit(sampleRate)
	buf := make([]byte, d.config.ChunkFrames*bytesPerFrame)
	pcm := make([]float64, 0)

	for limit < 0 || len(pcm) < limit {
		n, err := io.ReadFull(dec, buf)
		for i := 0; i+bytesPerFrame <= n; i += bytesPerFrame {
			left := float64(int16(uint16(buf[i])|uint16(buf[i+1])<<8)) / 32768.0
			right := float64(int16(uint16(buf[i+2])|uint16(buf[i+3])<<8)) / 32768.0
			pcm = append(pcm, (left+right)/2.0)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read MP3 data: %w", err)
		}
	}

	if limit >= 0 && len(pcm) > limit {
		pcm = pcm[:limit]
	}
	return &AudioData{PCM: pcm, SampleRate: sampleRate, Channels: 2}, nil
}
