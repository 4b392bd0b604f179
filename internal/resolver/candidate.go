package resolver

import (
	"playervalue/internal/config"
	"playervalue/internal/scrape"
)

type candidate struct {
	row   scrape.ExtractedRow
	score float64
}

// picker keeps the best candidate seen so far. Career-ended rows either
// compete normally, are held back as a fallback, or are ignored, depending
// on the policy.
type picker struct {
	threshold float64
	policy    string
	best      *candidate
	fallback  *candidate
	offered   int
	eligible  int
}

func newPicker(threshold float64, policy string) *picker {
	return &picker{threshold: threshold, policy: policy}
}

func (p *picker) offer(c candidate) {
	p.offered++
	if c.score < p.threshold {
		return
	}
	if c.row.CareerEnded() {
		switch p.policy {
		case config.PolicyExclude:
			return
		case config.PolicyFallback:
			p.eligible++
			if better(c, p.fallback) {
				p.fallback = &c
			}
			return
		}
	}
	p.eligible++
	if better(c, p.best) {
		p.best = &c
	}
}

func (p *picker) winner() (candidate, bool) {
	switch {
	case p.best != nil:
		return *p.best, true
	case p.fallback != nil:
		return *p.fallback, true
	default:
		return candidate{}, false
	}
}

// better reports whether c replaces current: a strictly higher score, or an
// equal score with a strictly higher market value.
func better(c candidate, current *candidate) bool {
	if current == nil {
		return true
	}
	if c.score != current.score {
		return c.score > current.score
	}
	return c.row.Value > current.row.Value
}
