package face

import (
	"context"

	"github.com/rs/zerolog"
)

// Detector detects face landmarks in the current video frame.
type Detector interface {
	// Ready reports whether the detection models have been loaded.
	Ready() bool
	// Detect runs a single detection. It returns a NoFace error
	// when the frame contains no face.
	Detect(ctx context.Context) (Landmarks, error)
}

// Poller runs detections at frame cadence, one at a time.
type Poller struct {
	detector Detector
	log      zerolog.Logger
}

// NewPoller constructor.
func NewPoller(detector Detector, log zerolog.Logger) *Poller {
	return &Poller{
		detector: detector,
		log:      log.With().Str("component", "face").Logger(),
	}
}

// Run polls the detector once per frame and calls emit for every signal.
// The next detection is only started after the previous one has returned.
// Frames arriving while a detection is in flight are dropped by the sender.
// Run returns when ctx is done or frames is closed.
func (p *Poller) Run(ctx context.Context, frames <-chan float64, emit func(Signal)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
		}

		if !p.detector.Ready() {
			continue
		}

		sig, ok := p.poll(ctx)
		if ok {
			emit(sig)
		}
	}
}

func (p *Poller) poll(ctx context.Context) (Signal, bool) {
	landmarks, err := p.detector.Detect(ctx)
	if err != nil {
		if !IsNoFace(err) {
			p.log.Debug().Err(err).Msg("detection failed")
		}
		return Signal{}, false
	}

	sig, err := Estimate(landmarks)
	if err != nil {
		p.log.Debug().Err(err).Msg("unusable landmarks")
		return Signal{}, false
	}

	return sig, true
}
