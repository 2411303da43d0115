package narration

// Script is the on-disk container for a narrated round
type Script struct {
	Version   string     `yaml:"version"`
	Map       string     `yaml:"map,omitempty"`
	Round     int        `yaml:"round,omitempty"`
	Moments   []Moment   `yaml:"moments"`
	Snapshots []Snapshot `yaml:"snapshots,omitempty"`
}

// Point is a normalized map coordinate
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Moment is one narrated beat of a round
type Moment struct {
	Index            int      `yaml:"index"`
	Focus            Point    `yaml:"focus"`
	Zoom             float64  `yaml:"zoom"`
	Narration        string   `yaml:"narration"`
	HighlightPlayers []string `yaml:"highlight_players,omitempty"`
}

// Side of the round a player is on
type Side string

const (
	SideAttack  Side = "attack"
	SideDefense Side = "defense"
)

// PlayerSnapshotEntry is one player's recorded state at a moment.
// Agent, FacingAngle, HasSpike, WeaponName and Role may be absent.
type PlayerSnapshotEntry struct {
	PlayerID    string   `yaml:"player_id"`
	TeamID      string   `yaml:"team_id"`
	Side        Side     `yaml:"side"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	IsAlive     bool     `yaml:"is_alive"`
	Health      int      `yaml:"health"`
	Agent       string   `yaml:"agent,omitempty"`
	FacingAngle *float64 `yaml:"facing_angle,omitempty"`
	HasSpike    bool     `yaml:"has_spike,omitempty"`
	WeaponName  string   `yaml:"weapon_name,omitempty"`
	Role        string   `yaml:"role,omitempty"`
}

// Snapshot is the set of player states paired with the moment at the same position
type Snapshot struct {
	Time    float64               `yaml:"time,omitempty"` // Round clock in seconds
	Players []PlayerSnapshotEntry `yaml:"players"`
}

// PlayerPosition is the shared player representation pushed to the state surface
type PlayerPosition struct {
	PlayerID    string  `json:"playerId"`
	TeamID      string  `json:"teamId"`
	Side        Side    `json:"side"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	IsAlive     bool    `json:"isAlive"`
	Health      int     `json:"health"`
	Agent       string  `json:"agent"`
	FacingAngle float64 `json:"facingAngle"`
	HasFacing   bool    `json:"hasFacing"`
	HasSpike    bool    `json:"hasSpike"`
	WeaponName  string  `json:"weaponName,omitempty"`
	Role        string  `json:"role,omitempty"`
}

// ToPosition maps the entry into the shared representation. Absent optional
// fields take their zero value; a missing facing angle clears HasFacing.
func (e PlayerSnapshotEntry) ToPosition() PlayerPosition {
	p := PlayerPosition{
		PlayerID:   e.PlayerID,
		TeamID:     e.TeamID,
		Side:       e.Side,
		X:          e.X,
		Y:          e.Y,
		IsAlive:    e.IsAlive,
		Health:     e.Health,
		Agent:      e.Agent,
		HasSpike:   e.HasSpike,
		WeaponName: e.WeaponName,
		Role:       e.Role,
	}
	if e.FacingAngle != nil {
		p.FacingAngle = *e.FacingAngle
		p.HasFacing = true
	}
	return p
}

// Positions maps every player of the snapshot. The result is never nil.
func (s Snapshot) Positions() []PlayerPosition {
	out := make([]PlayerPosition, 0, len(s.Players))
	for _, e := range s.Players {
		out = append(out, e.ToPosition())
	}
	return out
}
