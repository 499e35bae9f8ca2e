package notify

import "time"

// Kind selects the visual treatment of a notice; lifecycle is identical
// across kinds.
type Kind int

const (
	Success Kind = iota
	Error
	Info
	Warning
)

// DefaultTTL is how long a notice stays visible before auto-dismissing.
const DefaultTTL = 3 * time.Second

// Notice is one transient user-facing message.
type Notice struct {
	Kind Kind
	Text string
	Seq  int
}

// Presenter holds at most one visible notice. Showing a new notice
// supersedes the current one immediately; expiry is sequence-checked so a
// timer armed for an old notice can never dismiss a newer one.
type Presenter struct {
	current *Notice
	seq     int
	ttl     time.Duration
}

// NewPresenter builds a presenter with the given ttl; ttl <= 0 means
// DefaultTTL.
func NewPresenter(ttl time.Duration) *Presenter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Presenter{ttl: ttl}
}

// TTL reports the auto-dismiss duration.
func (p *Presenter) TTL() time.Duration { return p.ttl }

// Show replaces any visible notice and returns the new one; callers arm a
// timer for TTL and hand Seq back to Expire when it fires.
func (p *Presenter) Show(kind Kind, text string) Notice {
	p.seq++
	n := Notice{Kind: kind, Text: text, Seq: p.seq}
	p.current = &n
	return n
}

// Expire dismisses the visible notice if seq still identifies it. Returns
// whether anything was dismissed.
func (p *Presenter) Expire(seq int) bool {
	if p.current == nil || p.current.Seq != seq {
		return false
	}
	p.current = nil
	return true
}

// Current returns the visible notice, or nil.
func (p *Presenter) Current() *Notice { return p.current }
