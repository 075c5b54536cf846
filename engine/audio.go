package engine

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/NavuFrank/The-Quantized-Observer/session"
)

const (
	MaxActiveSounds   = 4
	AudioScratchBytes = 4096
	SampleRate        = 44100
)

var OutputSpec = sdl.AudioSpec{Format: sdl.AUDIO_S16, Channels: 2, Freq: SampleRate}

type SoundResource struct {
	Data []byte
	Spec sdl.AudioSpec
}

// NewTone builds a stereo S16 sine tone with a short linear fade at both
// ends so it does not click.
func NewTone(freq float64, d time.Duration, volume float64) *SoundResource {
	frames := int(d.Seconds() * SampleRate)
	fade := SampleRate / 200
	if fade > frames/2 {
		fade = frames / 2
	}

	data := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		gain := volume
		if i < fade {
			gain *= float64(i) / float64(fade)
		} else if frames-1-i < fade {
			gain *= float64(frames-1-i) / float64(fade)
		}
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/SampleRate) * gain * math.MaxInt16)
		binary.LittleEndian.PutUint16(data[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(data[i*4+2:], uint16(v))
	}
	return &SoundResource{Data: data, Spec: OutputSpec}
}

type ActiveSound struct {
	Resource *SoundResource
	PlayPos  uint32
	Active   bool
}

// AudioMixer sums active sounds into the SDL stream from the audio thread.
type AudioMixer struct {
	Slots   [MaxActiveSounds]ActiveSound
	Mutex   sync.Mutex
	Scratch []byte
}

func NewAudioMixer() *AudioMixer {
	return &AudioMixer{
		Scratch: make([]byte, AudioScratchBytes),
	}
}

func (m *AudioMixer) Callback(stream *sdl.AudioStream, additionalAmount, totalAmount int32) {
	remaining := int(additionalAmount)
	for remaining > 0 {
		chunk := min(remaining, AudioScratchBytes)
		m.mix(m.Scratch[:chunk])
		stream.PutData(m.Scratch[:chunk])
		remaining -= chunk
	}
}

func (m *AudioMixer) mix(out []byte) {
	clear(out)

	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	dst := unsafe.Slice((*int16)(unsafe.Pointer(&out[0])), len(out)/2)
	for i := range m.Slots {
		s := &m.Slots[i]
		if !s.Active {
			continue
		}

		soundRemaining := uint32(len(s.Resource.Data)) - s.PlayPos
		toMix := min(uint32(len(out)), soundRemaining)

		src := unsafe.Slice((*int16)(unsafe.Pointer(&s.Resource.Data[s.PlayPos])), toMix/2)
		for j := range src {
			val := int32(dst[j]) + int32(src[j])
			if val > math.MaxInt16 {
				val = math.MaxInt16
			} else if val < math.MinInt16 {
				val = math.MinInt16
			}
			dst[j] = int16(val)
		}

		s.PlayPos += toMix
		if s.PlayPos >= uint32(len(s.Resource.Data)) {
			s.Active = false
		}
	}
}

// Play starts res in a free slot and reports false when all are busy.
func (m *AudioMixer) Play(res *SoundResource) bool {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for i := range m.Slots {
		if !m.Slots[i].Active {
			m.Slots[i].Resource = res
			m.Slots[i].PlayPos = 0
			m.Slots[i].Active = true
			return true
		}
	}
	return false
}

// Beeper confirms logged responses: a high tone for "saw flicker", a low
// one otherwise.
type Beeper struct {
	mixer *AudioMixer
	yes   *SoundResource
	no    *SoundResource
}

func NewBeeper(mixer *AudioMixer) *Beeper {
	return &Beeper{
		mixer: mixer,
		yes:   NewTone(880, 80*time.Millisecond, 0.3),
		no:    NewTone(440, 80*time.Millisecond, 0.3),
	}
}

func (b *Beeper) Mark(ev session.Event) {
	if b == nil || ev.Kind != session.EventLogged {
		return
	}
	if ev.Record.SawFlicker {
		b.mixer.Play(b.yes)
	} else {
		b.mixer.Play(b.no)
	}
}
