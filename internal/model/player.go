package model

// Gender is consumed by some skills (spec.md §3).
type Gender int

const (
	GenderNeutral Gender = iota
	GenderMale
	GenderFemale
)

// RoleID identifies a player's hidden or revealed identity for the active
// game mode (lord/loyalist/rebel/renegade, or a faction tag in other modes).
// Role-assignment policy itself is an external collaborator (spec.md §1); this
// engine only stores and exposes the assigned id.
type RoleID string

const (
	RoleLord     RoleID = "lord"
	RoleLoyalist RoleID = "loyalist"
	RoleRebel    RoleID = "rebel"
	RoleRenegade RoleID = "renegade"
)

// Player holds per-seat state.
type Player struct {
	Seat          int
	Role          RoleID
	FactionID     string
	HeroID        string
	Gender        Gender
	MaxHealth     int
	CurrentHealth int
	Alive         bool

	HandZone  ZoneID
	EquipZone ZoneID
	JudgeZone ZoneID

	// Flags is a free-form per-turn/per-match marker map consumed by skills
	// and resolvers (e.g. "slashCountThisTurn", "skipPlayPhase").
	Flags map[string]any
}

// NewPlayer constructs a player at the given seat with zones wired up.
func NewPlayer(seat int, maxHealth int) *Player {
	return &Player{
		Seat:          seat,
		MaxHealth:     maxHealth,
		CurrentHealth: maxHealth,
		Alive:         true,
		HandZone:      HandZone(seat),
		EquipZone:     EquipZone(seat),
		JudgeZone:     JudgeZone(seat),
		Flags:         make(map[string]any),
	}
}

// Flag returns the named per-turn flag, defaulting to zero value.
func (p *Player) Flag(name string) any { return p.Flags[name] }

// IntFlag returns the named flag as an int, defaulting to 0.
func (p *Player) IntFlag(name string) int {
	v, _ := p.Flags[name].(int)
	return v
}

// BoolFlag returns the named flag as a bool, defaulting to false.
func (p *Player) BoolFlag(name string) bool {
	v, _ := p.Flags[name].(bool)
	return v
}

// SetFlag sets a per-turn/per-match marker.
func (p *Player) SetFlag(name string, v any) { p.Flags[name] = v }

// ClearTurnFlags drops per-turn markers at the start of a new turn for this
// seat. Callers pass the set of keys considered "per-turn"; everything else
// (e.g. persistent skill state) is left untouched.
func (p *Player) ClearTurnFlags(keys ...string) {
	for _, k := range keys {
		delete(p.Flags, k)
	}
}
