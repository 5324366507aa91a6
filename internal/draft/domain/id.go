package domain

import (
	"github.com/bwmarrin/snowflake"
)

// LocalID identifies a variant row for the lifetime of a draft. It is
// never sent to the catalog.
type LocalID int64

func (id LocalID) String() string {
	return snowflake.ID(id).String()
}

func ParseLocalID(s string) (LocalID, error) {
	id, err := snowflake.ParseString(s)
	if err != nil {
		return 0, ErrInvalidLocalID
	}
	return LocalID(id.Int64()), nil
}

// IDGenerator hands out row identities. Implementations must never repeat
// an id, including across drafts built by the same generator.
type IDGenerator interface {
	NextID() LocalID
}

type snowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(node *snowflake.Node) IDGenerator {
	return &snowflakeIDs{node: node}
}

func (g *snowflakeIDs) NextID() LocalID {
	return LocalID(g.node.Generate().Int64())
}
