package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleFreq = 44100

	// pitch of the buzzer
	toneFreq = 440

	// samples queued per 60 Hz frame
	frameSamples = sampleFreq / timerRate
)

/// Audio plays the CHIP-8 buzzer: a square wave that sounds while the
/// sound timer is non-zero.
///
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// one frame of samples, refilled from phase each time
	buffer []byte

	// position within the current wave period
	phase int
}

/// NewAudio opens the default audio device.
///
func NewAudio() (*Audio, error) {
	var err error

	aud := &Audio{
		buffer: make([]byte, frameSamples),
	}

	spec := &sdl.AudioSpec{
		Freq:     sampleFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

/// Play keeps the tone queued while on is true, and silences it as
/// soon as it isn't. Call it once per frame.
///
func (aud *Audio) Play(on bool) error {
	if aud == nil {
		return nil
	}

	if !on {
		sdl.ClearQueuedAudio(aud.id)
		return nil
	}

	// keep about two frames queued
	if sdl.GetQueuedAudioSize(aud.id) > uint32(2*len(aud.buffer)) {
		return nil
	}

	period := int(aud.spec.Freq) / toneFreq

	for i := range aud.buffer {
		if aud.phase < period/2 {
			aud.buffer[i] = aud.spec.Silence + 32
		} else {
			aud.buffer[i] = aud.spec.Silence - 32
		}

		aud.phase = (aud.phase + 1) % period
	}

	return sdl.QueueAudio(aud.id, aud.buffer)
}

// Close the audio device.
func (aud *Audio) Close() {
	if aud != nil {
		sdl.CloseAudioDevice(aud.id)
	}
}
