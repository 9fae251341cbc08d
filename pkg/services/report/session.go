package report

import (
	"sync"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

// Session carries pagination state across successive report queries. The
// page survives as long as the grouping and filters stay the same; any
// change to either snaps the view back to the first page.
type Session struct {
	mu          sync.Mutex
	fingerprint string
	page        int
}

func NewSession() *Session {
	return &Session{page: 1}
}

// Resolve reconciles a requested spec with the session. A spec whose
// fingerprint differs from the previous query always lands on page one,
// even when the request names a later page. Within an unchanged spec the
// requested page wins, and a request without a page keeps the current one.
func (s *Session) Resolve(spec domain.AggregationSpec) domain.AggregationSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := spec.Fingerprint()
	switch {
	case fp != s.fingerprint:
		s.fingerprint = fp
		s.page = 1
	case spec.Page.Index > 0:
		s.page = spec.Page.Index
	}
	spec.Page.Index = s.page
	return spec
}

// Page returns the page the session currently sits on.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}
