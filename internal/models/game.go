package models

import (
	"fmt"
	"time"
)

// Game represents an upcoming game supplied by an external data source.
// The advisor treats games as plain records; where they come from (ESPN,
// a mock feed, a human) is the caller's business.
type Game struct {
	ID        string    `json:"id" validate:"required"`
	Sport     string    `json:"sport" validate:"required"`
	HomeTeam  string    `json:"home_team" validate:"required"`
	AwayTeam  string    `json:"away_team" validate:"required"`
	StartTime time.Time `json:"start_time"`
}

// Matchup returns a human-readable matchup label
func (g *Game) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}
