package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one angler's weigh-in at a competition
type LeaderboardEntry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CompetitionID uuid.UUID  `db:"competition_id" json:"competitionId" validate:"required"`
	AnglerID      *uuid.UUID `db:"angler_id" json:"anglerId,omitempty"`
	AnglerName    string     `db:"angler_name" json:"anglerName" validate:"required,max=255"`
	TeamName      string     `db:"team_name" json:"teamName,omitempty"`
	Peg           int        `db:"peg" json:"peg" validate:"gte=0"`
	// Weight is stored as entered, normally "<lb> lb <oz> oz"
	Weight    string    `db:"weight" json:"weight"`
	FishCount int       `db:"fish_count" json:"fishCount" validate:"gte=0"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RankedEntry is a leaderboard row ready for display
type RankedEntry struct {
	Position    int               `json:"position"`
	TotalOunces int               `json:"totalOunces"`
	Display     string            `json:"display"`
	Metric      string            `json:"metric"`
	Entry       *LeaderboardEntry `json:"entry"`
}

// TeamTotal aggregates the weights of a team's members
type TeamTotal struct {
	Position    int      `json:"position"`
	TeamName    string   `json:"teamName"`
	Members     []string `json:"members"`
	TotalOunces int      `json:"totalOunces"`
	Display     string   `json:"display"`
}

// Leaderboard is the ranked view of one competition
type Leaderboard struct {
	Competition *CompetitionView `json:"competition"`
	Entries     []RankedEntry    `json:"entries"`
	GeneratedAt time.Time        `json:"generatedAt"`
}
