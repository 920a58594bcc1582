package face_test

import (
	"context"
	"testing"

	"github.com/mgnsk/wasm-rig-viewer/pkg/face"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

type result struct {
	landmarks face.Landmarks
	err       error
}

type fakeDetector struct {
	readyAfter int
	polls      int
	results    []result
	calls      int
	inFlight   int
	maxFlight  int
}

func (d *fakeDetector) Ready() bool {
	d.polls++
	return d.polls > d.readyAfter
}

func (d *fakeDetector) Detect(context.Context) (face.Landmarks, error) {
	d.inFlight++
	defer func() { d.inFlight-- }()
	if d.inFlight > d.maxFlight {
		d.maxFlight = d.inFlight
	}

	r := d.results[d.calls%len(d.results)]
	d.calls++
	return r.landmarks, r.err
}

func level() face.Landmarks {
	l := make(face.Landmarks, face.LandmarkCount)
	l[30] = face.Point{X: 200, Y: 150}
	l[2] = face.Point{X: 100, Y: 140}
	l[14] = face.Point{X: 300, Y: 140}
	l[8] = face.Point{X: 200, Y: 240}
	return l
}

func runFrames(t *testing.T, p *face.Poller, n int) []face.Signal {
	frames := make(chan float64, n)
	for i := 0; i < n; i++ {
		frames <- float64(i) * 16
	}
	close(frames)

	var signals []face.Signal
	err := p.Run(context.Background(), frames, func(s face.Signal) {
		signals = append(signals, s)
	})
	NewGomegaWithT(t).Expect(err).NotTo(HaveOccurred())

	return signals
}

func TestPollerWaitsForReadiness(t *testing.T) {
	g := NewGomegaWithT(t)

	det := &fakeDetector{
		readyAfter: 3,
		results:    []result{{landmarks: level()}},
	}

	signals := runFrames(t, face.NewPoller(det, zerolog.Nop()), 5)

	g.Expect(det.calls).To(Equal(2))
	g.Expect(signals).To(HaveLen(2))
	g.Expect(signals[0]).To(Equal(face.Signal{}))
}

func TestPollerSkipsFramesWithoutFace(t *testing.T) {
	g := NewGomegaWithT(t)

	det := &fakeDetector{
		results: []result{
			{err: face.NoFace.New("no face")},
			{landmarks: level()},
			{err: face.DetectFailed.New("backend error")},
			{landmarks: make(face.Landmarks, 3)},
		},
	}

	signals := runFrames(t, face.NewPoller(det, zerolog.Nop()), 8)

	g.Expect(det.calls).To(Equal(8))
	g.Expect(signals).To(HaveLen(2))
	g.Expect(det.maxFlight).To(Equal(1))
}

func TestPollerStopsOnCancel(t *testing.T) {
	g := NewGomegaWithT(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	det := &fakeDetector{results: []result{{landmarks: level()}}}
	err := face.NewPoller(det, zerolog.Nop()).Run(ctx, make(chan float64), func(face.Signal) {})

	g.Expect(err).To(MatchError(context.Canceled))
	g.Expect(det.calls).To(BeZero())
}
