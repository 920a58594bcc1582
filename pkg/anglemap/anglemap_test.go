package anglemap_test

import (
	"github.com/mgnsk/wasm-rig-viewer/pkg/anglemap"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	screenW = 1000
	screenH = 800
)

var _ = Describe("mapping pointer positions", func() {
	DescribeTable("fixed points",
		func(x, y, limit, expectedYaw, expectedPitch float32) {
			yaw, pitch := anglemap.MapPointer(x, y, screenW, screenH, limit)
			Expect(yaw).To(BeNumerically("~", expectedYaw, 1e-4))
			Expect(pitch).To(BeNumerically("~", expectedPitch, 1e-4))
		},
		Entry("centre", float32(500), float32(400), float32(50), float32(0), float32(0)),
		Entry("bottom-right corner", float32(1000), float32(800), float32(50), float32(50), float32(50)),
		Entry("top-left corner", float32(0), float32(0), float32(50), float32(-50), float32(-25)),
		Entry("top-right corner, waist limit", float32(1000), float32(0), float32(30), float32(30), float32(-15)),
		Entry("quarter left, centre line", float32(250), float32(400), float32(50), float32(-25), float32(0)),
		Entry("three quarters down", float32(500), float32(600), float32(50), float32(0), float32(25)),
	)

	It("signs yaw by the side of the centre", func() {
		for x := float32(0); x <= screenW; x += 25 {
			yaw, _ := anglemap.MapPointer(x, 123, screenW, screenH, 50)
			switch {
			case x < screenW/2:
				Expect(yaw).To(BeNumerically("<", 0))
			case x > screenW/2:
				Expect(yaw).To(BeNumerically(">", 0))
			default:
				Expect(yaw).To(BeZero())
			}
		}
	})

	It("stays within the limit on every axis", func() {
		for _, limit := range []float32{30, 50} {
			for x := float32(0); x <= screenW; x += 50 {
				for y := float32(0); y <= screenH; y += 40 {
					yaw, pitch := anglemap.MapPointer(x, y, screenW, screenH, limit)
					Expect(yaw).To(BeNumerically(">=", -limit))
					Expect(yaw).To(BeNumerically("<=", limit))
					Expect(pitch).To(BeNumerically(">=", -limit/2))
					Expect(pitch).To(BeNumerically("<=", limit))
				}
			}
		}
	})
})

var _ = Describe("mapping face tilt", func() {
	DescribeTable("clamping",
		func(tilt, expected float32) {
			yaw, pitch := anglemap.MapFaceTilt(tilt, tilt, 50)
			Expect(yaw).To(Equal(expected))
			Expect(pitch).To(Equal(expected))
		},
		Entry("above the limit", float32(80), float32(50)),
		Entry("below the negative limit", float32(-80), float32(-50)),
		Entry("inside the range", float32(12.5), float32(12.5)),
		Entry("exactly the limit", float32(50), float32(50)),
		Entry("zero", float32(0), float32(0)),
	)

	It("is idempotent", func() {
		for _, tilt := range []float32{-300, -50, -49.9, -1, 0, 7, 50, 51, 1e6} {
			once, _ := anglemap.MapFaceTilt(tilt, 0, 30)
			twice, _ := anglemap.MapFaceTilt(once, 0, 30)
			Expect(twice).To(Equal(once))
		}
	})

	It("maps the same signal through different joint limits", func() {
		neckYaw, neckPitch := anglemap.MapFaceTilt(40, -10, 50)
		waistYaw, waistPitch := anglemap.MapFaceTilt(40, -10, 30)
		Expect(neckYaw).To(Equal(float32(40)))
		Expect(neckPitch).To(Equal(float32(-10)))
		Expect(waistYaw).To(Equal(float32(30)))
		Expect(waistPitch).To(Equal(float32(-10)))
	})
})
