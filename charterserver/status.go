package charterserver

import (
	"github.com/juju/utils/voyeur"

	"github.com/rogpeppe/charter/collector"
)

// StatusValue holds the most recent collector status and
// broadcasts changes to it. It implements collector.Updater.
type StatusValue struct {
	v *voyeur.Value
}

var _ collector.Updater = (*StatusValue)(nil)

// NewStatusValue returns a StatusValue that holds no status yet.
func NewStatusValue() *StatusValue {
	return &StatusValue{
		v: voyeur.NewValue(nil),
	}
}

// UpdateStatus implements collector.Updater.UpdateStatus.
func (s *StatusValue) UpdateStatus(st collector.Status) {
	s.v.Set(st)
}

// Get returns the most recent status and whether there is one.
func (s *StatusValue) Get() (collector.Status, bool) {
	st, ok := s.v.Get().(collector.Status)
	return st, ok
}

// Close stops all watchers of the status.
func (s *StatusValue) Close() {
	s.v.Close()
}

func (s *StatusValue) watch() *voyeur.Watcher {
	return s.v.Watch()
}
