// Package feed fans ledger change notifications out to per-team
// subscribers. Notifications carry no row payload; consumers re-query.
package feed

import (
	"sync"

	"distance-tracker/internal/constants"

	"github.com/rs/zerolog"
)

type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

type Event struct {
	Team int  `json:"team"`
	Kind Kind `json:"kind"`
}

type Notifier struct {
	mu     sync.RWMutex
	subs   map[int]map[*Subscription]struct{}
	logger zerolog.Logger
}

type Subscription struct {
	C        chan Event
	team     int
	notifier *Notifier
	once     sync.Once
}

func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{
		subs:   make(map[int]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers for one team's change events. The caller owns the
// subscription and must Unsubscribe when its view is torn down, or the
// handler leaks.
func (n *Notifier) Subscribe(team int) *Subscription {
	sub := &Subscription{
		C:        make(chan Event, constants.FeedBufferSize),
		team:     team,
		notifier: n,
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs[team] == nil {
		n.subs[team] = make(map[*Subscription]struct{})
	}
	n.subs[team][sub] = struct{}{}
	return sub
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		n := s.notifier
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[s.team], s)
		close(s.C)
	})
}

// Publish delivers to every subscriber of the event's team. Slow
// subscribers lose events instead of blocking the mutating operation.
func (n *Notifier) Publish(event Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for sub := range n.subs[event.Team] {
		select {
		case sub.C <- event:
		default:
			n.logger.Warn().Int("team", event.Team).Msg("feed subscriber lagging, event dropped")
		}
	}
}

// SubscriberCount reports active subscriptions for a team.
func (n *Notifier) SubscriberCount(team int) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[team])
}
