package day

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/trackpro/internal/constants"
)

// IDGenerator supplies ids for newly created tasks.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues prefix-1, prefix-2, ... in order.
type SequenceGenerator struct {
	Prefix string
	n      int
}

func (g *SequenceGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}

// VirtualTaskID is the id of the synthesized task for activityID on date.
// It depends on nothing else, so resolving the same virtual day twice
// yields the same ids.
func VirtualTaskID(date, activityID string) string {
	return constants.VirtualTaskPrefix + date + "-" + activityID
}
