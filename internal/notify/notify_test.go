package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowReplacesCurrentNotice(t *testing.T) {
	p := NewPresenter(0)

	first := p.Show(Success, "added")
	second := p.Show(Error, "failed")

	cur := p.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "failed", cur.Text)
	assert.NotEqual(t, first.Seq, second.Seq)
}

func TestStaleTimerCannotDismissNewerNotice(t *testing.T) {
	p := NewPresenter(0)

	old := p.Show(Info, "old")
	p.Show(Warning, "new")

	assert.False(t, p.Expire(old.Seq))
	require.NotNil(t, p.Current())
	assert.Equal(t, "new", p.Current().Text)
}

func TestExpireDismissesMatchingNotice(t *testing.T) {
	p := NewPresenter(0)
	n := p.Show(Success, "bye")

	assert.True(t, p.Expire(n.Seq))
	assert.Nil(t, p.Current())

	// expiring again is harmless
	assert.False(t, p.Expire(n.Seq))
}

func TestTTLDefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewPresenter(0).TTL())
	assert.Equal(t, time.Second, NewPresenter(time.Second).TTL())
}

func TestAllKindsShareLifecycle(t *testing.T) {
	p := NewPresenter(0)
	for _, k := range []Kind{Success, Error, Info, Warning} {
		n := p.Show(k, "msg")
		assert.Equal(t, k, p.Current().Kind)
		assert.True(t, p.Expire(n.Seq))
	}
}
