package countdown_test

import (
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/countdown"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimer_Ticks(t *testing.T) {
	timer := countdown.New(10*time.Second, countdown.WithInterval(time.Millisecond))
	timer.Start()
	defer timer.Stop()

	assert.Eventually(t, func() bool {
		return timer.Remaining() <= 7*time.Second
	}, time.Second, time.Millisecond)
}

func TestTimer_StopsAtZero(t *testing.T) {
	timer := countdown.New(3*time.Second, countdown.WithInterval(time.Millisecond))
	timer.Start()

	assert.Eventually(t, func() bool {
		return timer.Remaining() == 0
	}, time.Second, time.Millisecond)

	timer.Stop()
	assert.Equal(t, time.Duration(0), timer.Remaining())
}

func TestTimer_StartStopIdempotent(t *testing.T) {
	timer := countdown.New(countdown.DefaultRemaining, countdown.WithInterval(time.Hour))

	timer.Stop()
	assert.False(t, timer.Running())

	timer.Start()
	timer.Start()
	assert.True(t, timer.Running())

	timer.Stop()
	timer.Stop()
	assert.False(t, timer.Running())
	assert.Equal(t, countdown.DefaultRemaining, timer.Remaining())
}

func TestTimer_ResumesWhereStopped(t *testing.T) {
	timer := countdown.New(time.Minute, countdown.WithInterval(time.Millisecond))
	timer.Start()
	assert.Eventually(t, func() bool { return timer.Remaining() < time.Minute }, time.Second, time.Millisecond)
	timer.Stop()

	paused := timer.Remaining()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, paused, timer.Remaining())
}

func TestParts(t *testing.T) {
	d, h, m, s := countdown.Parts(countdown.DefaultRemaining)
	assert.Equal(t, []int{16, 21, 57, 23}, []int{d, h, m, s})

	d, h, m, s = countdown.Parts(-time.Second)
	assert.Equal(t, []int{0, 0, 0, 0}, []int{d, h, m, s})
}

func TestNew_NegativeClamped(t *testing.T) {
	assert.Equal(t, time.Duration(0), countdown.New(-time.Minute).Remaining())
}
