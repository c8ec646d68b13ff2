// Package idgen issues identifiers: snowflake ids for join requests,
// comments and messages, and slug ids for groups.
package idgen

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/pkordes/backpackers/internal/domain"
)

// Prefixes of generated record ids.
const (
	PrefixJoinRequest = "req_"
	PrefixComment     = "cmt_"
	PrefixMessage     = "msg_"
)

// Generator produces time-ordered, node-unique ids.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a Generator for the given node id (0-1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen.NewGenerator: %w", err)
	}
	return &Generator{node: node}, nil
}

// NewID returns prefix followed by the base-36 form of a fresh snowflake.
func (g *Generator) NewID(prefix string) string {
	return prefix + g.node.Generate().Base36()
}

// SlugIssuer builds group ids from a name and the creation instant.
//
// The instant suffix is only unique at millisecond resolution. When two
// groups are created within the same millisecond (or the clock steps
// back), the second one gets a random suffix instead.
type SlugIssuer struct {
	mu     sync.Mutex
	lastMS int64
	now    func() time.Time
}

// NewSlugIssuer returns a SlugIssuer reading time from now. A nil now uses
// time.Now.
func NewSlugIssuer(now func() time.Time) *SlugIssuer {
	if now == nil {
		now = time.Now
	}
	return &SlugIssuer{now: now}
}

// Issue returns a slug id for groupName together with the instant it was
// derived from.
func (s *SlugIssuer) Issue(groupName string) (string, time.Time) {
	at := s.now()
	ms := at.UnixMilli()

	s.mu.Lock()
	fresh := ms > s.lastMS
	if fresh {
		s.lastMS = ms
	}
	s.mu.Unlock()

	if fresh {
		return domain.BuildSlugID(groupName, at), at
	}
	return RandomSlug(groupName), at
}

// RandomSlug returns the slug base of groupName with a random suffix.
func RandomSlug(groupName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return domain.JoinSlug(groupName, suffix)
}
