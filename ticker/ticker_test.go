package ticker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		m    Measure
		want Plan
	}{
		{"fits", Measure{TextWidth: 300, ContainerWidth: 400}, Plan{}},
		{"exact", Measure{TextWidth: 400, ContainerWidth: 400}, Plan{}},
		{"within slack", Measure{TextWidth: 401.5, ContainerWidth: 400, Slack: PreviewSlack}, Plan{}},
		{"overflow", Measure{TextWidth: 500, ContainerWidth: 400}, Plan{Scroll: true, Clones: 2, Distance: 500, Duration: 5 * time.Second}},
		{"long", Measure{TextWidth: 1000, ContainerWidth: 400}, Plan{Scroll: true, Clones: 1, Distance: 1000, Duration: 10 * time.Second}},
		{"empty", Measure{}, Plan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.m, SpeedDefault))
		})
	}
}

func TestDurationProportionalToWidth(t *testing.T) {
	a := Compute(Measure{TextWidth: 600, ContainerWidth: 100}, SpeedDesktop)
	b := Compute(Measure{TextWidth: 1200, ContainerWidth: 100}, SpeedDesktop)
	assert.Equal(t, 3*time.Second, a.Duration)
	assert.Equal(t, 2*a.Duration, b.Duration)
}

func TestSpeedFor(t *testing.T) {
	assert.Equal(t, SpeedMobile, SpeedFor(true))
	assert.Equal(t, SpeedDesktop, SpeedFor(false))
}

type fakeElement struct {
	m       Measure
	laidOut bool
	clones  int
	applied []Plan
}

func (e *fakeElement) RemoveClones()            { e.clones = 0 }
func (e *fakeElement) Measure() (Measure, bool) { return e.m, e.laidOut }
func (e *fakeElement) AddClones(n int)          { e.clones += n }
func (e *fakeElement) Apply(p Plan)             { e.applied = append(e.applied, p) }

func TestRefreshRebuildsWithoutStaleClones(t *testing.T) {
	el := &fakeElement{m: Measure{TextWidth: 500, ContainerWidth: 400}, laidOut: true}
	tk := New(el, SpeedDefault, nil)

	tk.Refresh()
	assert.Equal(t, 2, el.clones)
	tk.Refresh()
	assert.Equal(t, 2, el.clones, "refresh must not accumulate clones")
	assert.True(t, tk.Plan().Scroll)

	el.m.ContainerWidth = 800
	tk.Refresh()
	assert.Zero(t, el.clones)
	assert.False(t, tk.Plan().Scroll)
	assert.Equal(t, Plan{}, el.applied[len(el.applied)-1])
}

func TestRefreshWaitsForFrame(t *testing.T) {
	el := &fakeElement{m: Measure{TextWidth: 500, ContainerWidth: 300}, laidOut: true}
	var pending []func()
	tk := New(el, SpeedDefault, func(fn func()) { pending = append(pending, fn) })

	tk.Refresh()
	assert.Zero(t, el.clones, "measurement is deferred")
	tk.Refresh()
	require.Len(t, pending, 2)

	pending[0]()
	assert.Zero(t, el.clones, "superseded measurement is dropped")
	pending[1]()
	assert.Equal(t, 2, el.clones)
}

func TestRefreshSkipsUnlaidElement(t *testing.T) {
	el := &fakeElement{m: Measure{TextWidth: 500, ContainerWidth: 100}}
	tk := New(el, SpeedDefault, nil)
	tk.Refresh()
	assert.Zero(t, el.clones)
	assert.False(t, tk.Plan().Scroll)
}
