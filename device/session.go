// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// NopSession records category and activation changes without touching any
// platform API. Desktop systems have no session manager.
type NopSession struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	category Category
	active   bool
}

func NewNopSession(log logrus.FieldLogger) *NopSession {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NopSession{log: log}
}

func (s *NopSession) SetCategory(c Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.category != c {
		s.log.WithFields(logrus.Fields{
			"component": "session",
			"category":  c.String(),
		}).Debug("category changed")
	}
	s.category = c
	return nil
}

func (s *NopSession) SetActive(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = active
	return nil
}

// Category returns the current category.
func (s *NopSession) Category() Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Active reports whether the session was activated.
func (s *NopSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
