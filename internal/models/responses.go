package models

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionList is the body of a competition listing
type CompetitionList struct {
	Competitions []*CompetitionView `json:"competitions"`
	Count        int                `json:"count"`
	Limit        int                `json:"limit"`
	Offset       int                `json:"offset"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}

// TeamList is the body of a team standings response
type TeamList struct {
	CompetitionID uuid.UUID   `json:"competitionId"`
	Teams         []TeamTotal `json:"teams"`
}

// AnglerList is the body of an angler directory response
type AnglerList struct {
	Anglers []*Angler `json:"anglers"`
	Count   int       `json:"count"`
}

// WeightConversion shows one weight in every display form
type WeightConversion struct {
	Value       string `json:"value"`
	Valid       bool   `json:"valid"`
	TotalOunces int    `json:"totalOunces"`
	Display     string `json:"display"`
	Metric      string `json:"metric"`
}

// WeighInRequest is the body of a weigh-in submission
type WeighInRequest struct {
	AnglerID   *uuid.UUID `json:"anglerId,omitempty"`
	AnglerName string     `json:"anglerName"`
	TeamName   string     `json:"teamName,omitempty"`
	Peg        int        `json:"peg"`
	Weight     string     `json:"weight"`
	FishCount  int        `json:"fishCount"`
}

// Entry builds the leaderboard entry for a competition
func (r WeighInRequest) Entry(competitionID uuid.UUID) *LeaderboardEntry {
	return &LeaderboardEntry{
		CompetitionID: competitionID,
		AnglerID:      r.AnglerID,
		AnglerName:    r.AnglerName,
		TeamName:      r.TeamName,
		Peg:           r.Peg,
		Weight:        r.Weight,
		FishCount:     r.FishCount,
	}
}
