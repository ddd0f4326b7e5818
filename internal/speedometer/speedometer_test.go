package speedometer_test

import (
	"math"
	"math/rand"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drivelab/internal/dynamo"
	"github.com/san-kum/drivelab/internal/speedometer"
)

type recordingFace struct {
	events []string
	labels []speedometer.Label
	needle float64
}

func (f *recordingFace) AddLabel(l speedometer.Label) {
	f.labels = append(f.labels, l)
	f.events = append(f.events, "label:"+l.Text)
}

func (f *recordingFace) RaiseNeedle() { f.events = append(f.events, "raise") }

func (f *recordingFace) SetNeedle(angle float64) {
	f.needle = angle
	f.events = append(f.events, "needle")
}

var _ = Describe("Step", func() {
	cfg := speedometer.DefaultConfig()

	It("accelerates while the throttle is held", func() {
		Expect(speedometer.Step(10, 0.5, speedometer.Input{Throttle: true}, cfg)).To(Equal(25.0))
	})

	It("coasts down whenever the throttle is released", func() {
		Expect(speedometer.Step(10, 0.25, speedometer.Input{}, cfg)).To(Equal(5.0))
	})

	It("stacks the brake on top of either branch", func() {
		Expect(speedometer.Step(100, 0.1, speedometer.Input{Throttle: true, Brake: true}, cfg)).To(BeNumerically("~", 93, 1e-9))
		Expect(speedometer.Step(100, 1.0, speedometer.Input{Brake: true}, cfg)).To(Equal(0.0))
	})

	It("clamps at the top of the scale", func() {
		Expect(speedometer.Step(179, 1, speedometer.Input{Throttle: true}, cfg)).To(Equal(180.0))
	})

	It("keeps speed in range for any input sequence", func() {
		r := rand.New(rand.NewSource(7))
		speed := 0.0
		for i := 0; i < 5000; i++ {
			dt := r.Float64() * 0.5
			in := speedometer.Input{Throttle: r.Intn(3) > 0, Brake: r.Intn(4) == 0}
			speed = speedometer.Step(speed, dt, in, cfg)
			Expect(speed).To(And(BeNumerically(">=", 0), BeNumerically("<=", cfg.SpeedMax)))
		}
	})
})

var _ = Describe("Clamp", func() {
	DescribeTable("is idempotent",
		func(v float64) {
			once := speedometer.Clamp(v, 0, 180)
			Expect(speedometer.Clamp(once, 0, 180)).To(Equal(once))
		},
		Entry("below", -12.5),
		Entry("inside", 64.0),
		Entry("above", 999.0),
		Entry("at max", 180.0),
	)
})

var _ = Describe("Rotation", func() {
	It("pins the sweep endpoints", func() {
		Expect(speedometer.Rotation(0, 180)).To(Equal(230.0))
		Expect(speedometer.Rotation(180, 180)).To(Equal(-20.0))
	})

	It("decreases monotonically with speed", func() {
		prev := speedometer.Rotation(0, 180)
		for s := 1.0; s <= 180; s++ {
			cur := speedometer.Rotation(s, 180)
			Expect(cur).To(BeNumerically("<", prev))
			prev = cur
		}
	})
})

var _ = Describe("GenerateLabels", func() {
	It("produces ten labels from 0 to 180 in steps of 20", func() {
		labels := speedometer.GenerateLabels(180, 9)
		Expect(labels).To(HaveLen(10))

		for i, l := range labels {
			want := i * 20
			Expect(l.Text).To(Equal(strconv.Itoa(want)))
			Expect(l.Normalized).To(BeNumerically("~", float64(i)/9, 1e-12))
			Expect(l.Angle).To(BeNumerically("~", speedometer.Rotation(l.Normalized*180, 180), 1e-9))
		}
		Expect(labels[0].Angle).To(Equal(230.0))
		Expect(labels[9].Angle).To(BeNumerically("~", -20, 1e-9))
	})

	It("rounds half to even", func() {
		labels := speedometer.GenerateLabels(5, 2)
		Expect(labels[1].Text).To(Equal("2"))
	})

	It("returns nothing without intervals", func() {
		Expect(speedometer.GenerateLabels(180, 0)).To(BeNil())
	})
})

var _ = Describe("Dial", func() {
	var dial *speedometer.Dial

	BeforeEach(func() {
		var err error
		dial, err = speedometer.New(speedometer.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts at rest with the needle at the zero angle", func() {
		Expect(dial.Speed()).To(BeZero())
		Expect(dial.Angle()).To(Equal(speedometer.ZeroSpeedAngle))
	})

	It("places every label before raising the needle", func() {
		face := &recordingFace{}
		dial.Attach(face)

		Expect(face.labels).To(HaveLen(10))
		Expect(face.events[:10]).To(HaveEach(HavePrefix("label:")))
		Expect(face.events[10]).To(Equal("raise"))
		Expect(face.needle).To(Equal(230.0))
	})

	It("brakes from 100 to a stop in one second with the throttle released", func() {
		dial.Tick(100.0/30.0, speedometer.Input{Throttle: true})
		Expect(dial.Speed()).To(BeNumerically("~", 100, 1e-9))

		speed, angle := dial.Tick(1.0, speedometer.Input{Brake: true})
		Expect(speed).To(Equal(0.0))
		Expect(angle).To(Equal(230.0))
	})

	It("pushes the needle to the face on update", func() {
		face := &recordingFace{}
		dial.Attach(face)

		angle := dial.Update(1, speedometer.Input{Throttle: true})
		Expect(face.needle).To(Equal(angle))
		Expect(angle).To(BeNumerically("~", speedometer.Rotation(30, 180), 1e-12))

		dial.Reset()
		Expect(face.needle).To(Equal(230.0))
	})

	It("hands out a copy of its labels", func() {
		labels := dial.Labels()
		labels[0].Text = "changed"
		Expect(dial.Labels()[0].Text).To(Equal("0"))
	})

	DescribeTable("rejects invalid configuration",
		func(mutate func(*speedometer.Config)) {
			cfg := speedometer.DefaultConfig()
			mutate(&cfg)
			_, err := speedometer.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("zero speed max", func(c *speedometer.Config) { c.SpeedMax = 0 }),
		Entry("negative speed max", func(c *speedometer.Config) { c.SpeedMax = -180 }),
		Entry("negative brake rate", func(c *speedometer.Config) { c.BrakeRate = -1 }),
		Entry("infinite acceleration", func(c *speedometer.Config) { c.Acceleration = math.Inf(1) }),
		Entry("no label intervals", func(c *speedometer.Config) { c.LabelIntervals = 0 }),
	)
})
