package ast

import "github.com/estreegen/jsparse/internal/arena"

// Module is the root of a parsed program: a flat statement list plus the
// arena every node in the tree was allocated out of. The arena is exposed so
// callers that need to build further nodes against the same tree (none do
// in this package, but embedders might) are not forced to create a second
// one.
type Module struct {
	Body  List[Loc[Statement]]
	Arena *arena.Arena
}
