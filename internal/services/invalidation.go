package services

// StatsInvalidator drops cached aggregates after a write.
type StatsInvalidator interface {
	Invalidate()
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}

func invalidatorOrNoop(inv StatsInvalidator) StatsInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
