// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// MatchStatus describes the lifecycle of a match record.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// EventType classifies an append-only match event.
type EventType string

const (
	EventRaidStart EventType = "raid_start"
	EventRaid      EventType = "raid"
	EventTackle    EventType = "tackle"
	EventAllOut    EventType = "all_out"
	EventTechnical EventType = "technical"
	EventTimeout   EventType = "timeout"
)

// RaidOutcome is the scorer-declared result of a raid.
type RaidOutcome string

const (
	OutcomeSuccess RaidOutcome = "success"
	OutcomeFail    RaidOutcome = "fail"
	OutcomeEmpty   RaidOutcome = "empty"
)

// Team represents a kabaddi team.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Emblem    string    `json:"emblem,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player represents an athlete belonging to a team.
type Player struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	Name         string    `json:"name"`
	JerseyNumber int       `json:"jersey_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MatchSettings is per-match configuration fixed at creation and consumed
// read-only by the scoring engine. Durations are in seconds.
type MatchSettings struct {
	HalfDuration    int `json:"half_duration"`
	NumberOfHalves  int `json:"number_of_halves"`
	RaidDuration    int `json:"raid_duration"`
	BreakDuration   int `json:"break_duration"`
	TimeoutsPerHalf int `json:"timeouts_per_half"`
}

// Match carries the persisted match record plus the live-derived fields.
// The derived fields (scores, out-set, counters) are always a pure function
// of the event log; the stored copy is only a materialized cache that the
// engine overwrites after every confirmed raid.
type Match struct {
	ID            int64         `json:"id"`
	TeamAID       int64         `json:"team_a_id"`
	TeamBID       int64         `json:"team_b_id"`
	Status        MatchStatus   `json:"status"`
	Settings      MatchSettings `json:"settings"`
	TeamAScore    int           `json:"team_a_score"`
	TeamBScore    int           `json:"team_b_score"`
	CurrentHalf   int           `json:"current_half"`
	RaidingTeamID int64         `json:"raiding_team_id"`
	OutPlayerIDs  []int64       `json:"out_player_ids"`
	TeamAEmpty    int           `json:"team_a_empty_raids"`
	TeamBEmpty    int           `json:"team_b_empty_raids"`
	TeamATimeouts int           `json:"team_a_timeouts"`
	TeamBTimeouts int           `json:"team_b_timeouts"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// RaidAction is the ephemeral scorer input describing one raid result.
// It is never persisted as-is; the engine turns it into a MatchEvent.
type RaidAction struct {
	RaiderID     int64       `json:"raider_id"`
	Outcome      RaidOutcome `json:"outcome"`
	TouchPoints  int         `json:"touch_points"`
	BonusPoint   bool        `json:"bonus_point"`
	DefendersOut []int64     `json:"defenders_out"`
	TacklerID    int64       `json:"tackler_id,omitempty"`
}

// EventPayload captures the inputs that produced an event's points. Events
// are self-contained: reconstruction answers every question from the event
// list alone, without consulting any other record.
type EventPayload struct {
	RaiderID     int64   `json:"raider_id,omitempty"`
	TouchPoints  int     `json:"touch_points,omitempty"`
	BonusPoint   bool    `json:"bonus_point,omitempty"`
	DefendersOut []int64 `json:"defenders_out,omitempty"`
	RaiderOut    bool    `json:"raider_out,omitempty"`
	TacklerID    int64   `json:"tackler_id,omitempty"`
	DoOrDie      bool    `json:"do_or_die,omitempty"`
	RevivedIDs   []int64 `json:"revived_ids,omitempty"`
	Half         int     `json:"half,omitempty"`
	RaidDuration int     `json:"raid_duration,omitempty"`
}

// MatchEvent is one immutable entry in a match's append-only log.
// Corrections are made by emitting a new event, never by editing history.
type MatchEvent struct {
	ID        string       `json:"id"`
	MatchID   int64        `json:"match_id"`
	Seq       int64        `json:"seq"`
	Type      EventType    `json:"type"`
	TeamID    int64        `json:"team_id"`
	PlayerID  *int64       `json:"player_id,omitempty"`
	Points    int          `json:"points"`
	Payload   EventPayload `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

// ShootoutSetup is the completed tie-breaker wizard output: seven eligible
// players and five ordered raiders per side, plus the toss result.
type ShootoutSetup struct {
	TeamAPlayers     []int64 `json:"team_a_players"`
	TeamBPlayers     []int64 `json:"team_b_players"`
	TeamARaiders     []int64 `json:"team_a_raiders"`
	TeamBRaiders     []int64 `json:"team_b_raiders"`
	TossWinnerID     int64   `json:"toss_winner_id"`
	WinnerRaidsFirst bool    `json:"winner_raids_first"`
	FirstRaidingID   int64   `json:"first_raiding_team_id"`
}
