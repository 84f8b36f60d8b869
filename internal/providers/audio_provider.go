package providers

import (
	"ptd/internal/engine/interfaces"
)

// noopAudioPlayer stands in where no audio device is wired up (headless
// daemons, kiosk screens). Playback state transitions still get logged so
// the alert lifecycle is traceable.
type noopAudioPlayer struct {
	logger Logger
}

func NewAudioProvider(logger Logger) interfaces.AudioPlayerInterface {
	return &noopAudioPlayer{logger: logger}
}

func (p *noopAudioPlayer) Play(thresholdMinutes int, loop bool) error {
	p.logger.Debugf(TypeAlert, "sound start: threshold=%dm loop=%t", thresholdMinutes, loop)
	return nil
}

func (p *noopAudioPlayer) Stop(thresholdMinutes int) {
	p.logger.Debugf(TypeAlert, "sound stop: threshold=%dm", thresholdMinutes)
}
