package domain

// Role is the privilege tier stored on an Operator.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleReadWrite Role = "read_write"
	RoleRead      Role = "read"
)

// Tier is the minimum role an operation requires.
//
//	TierAdmin     → admin
//	TierReadWrite → admin ∨ read_write
//	TierRead      → admin ∨ read_write ∨ read
type Tier string

const (
	TierAdmin     Tier = "admin"
	TierReadWrite Tier = "read_write"
	TierRead      Tier = "read"
)

// rank orders the hierarchy admin ⊇ read_write ⊇ read. Unknown roles rank 0.
var rank = map[Role]int{
	RoleRead:      1,
	RoleReadWrite: 2,
	RoleAdmin:     3,
}

var tierRank = map[Tier]int{
	TierRead:      1,
	TierReadWrite: 2,
	TierAdmin:     3,
}

// Valid reports whether r is a member of the hierarchy.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// Satisfies reports whether r meets tier t. A role outside the hierarchy, or
// an unknown tier, never satisfies.
func (r Role) Satisfies(t Tier) bool {
	need, ok := tierRank[t]
	if !ok {
		return false
	}
	return rank[r] >= need
}
