// Package replay rebuilds live match state from the append-only event log.
// Rebuild is a pure function over the ordered event list: every observer
// (the scorer included) materializes state by re-running it on each change
// notification, so there is no incremental state to drift or trust.
package replay

import (
	"time"

	"github.com/kabaddi-live/scoring-service/internal/model"
)

// TeamTotals aggregates one team's contribution across the log.
type TeamTotals struct {
	TeamID          int64 `json:"team_id"`
	Score           int   `json:"score"`
	Raids           int   `json:"raids"`
	SuccessfulRaids int   `json:"successful_raids"`
	TouchPoints     int   `json:"touch_points"`
	BonusPoints     int   `json:"bonus_points"`
	TacklePoints    int   `json:"tackle_points"`
	AllOuts         int   `json:"all_outs"`
	SuperTackles    int   `json:"super_tackles"`
	TechnicalPoints int   `json:"technical_points"`
}

// PlayerTotals aggregates one player's raid and tackle points.
type PlayerTotals struct {
	PlayerID     int64 `json:"player_id"`
	RaidPoints   int   `json:"raid_points"`
	TacklePoints int   `json:"tackle_points"`
}

// HalfScore is the per-half score breakdown, bucketed by the half number
// each event recorded in its payload.
type HalfScore struct {
	Half  int `json:"half"`
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

// RaidClock describes whether a raid is currently in progress and how much
// of its window remains. Wall-clock derived: there is no ticking process.
type RaidClock struct {
	InProgress bool      `json:"in_progress"`
	TeamID     int64     `json:"team_id,omitempty"`
	RaiderID   int64     `json:"raider_id,omitempty"`
	Remaining  int       `json:"remaining_seconds"`
	StartedAt  time.Time `json:"started_at,omitzero"`
}

// HalfClock places the match inside its halves the same way RaidClock places
// a raid inside its window: from event timestamps against the wall clock.
// The first event anchors the start of play; each half runs HalfDuration
// seconds with BreakDuration between halves.
type HalfClock struct {
	Half      int  `json:"half"`
	Remaining int  `json:"remaining_seconds"`
	Break     bool `json:"break"`
}

// Snapshot is the full derived state of a match at one point in the log.
type Snapshot struct {
	TeamA          TeamTotals     `json:"team_a"`
	TeamB          TeamTotals     `json:"team_b"`
	Players        []PlayerTotals `json:"players"`
	TopRaiderID    int64          `json:"top_raider_id,omitempty"`
	TopDefenderID  int64          `json:"top_defender_id,omitempty"`
	Halves         []HalfScore    `json:"halves"`
	OutPlayerIDs   []int64        `json:"out_player_ids"`
	EmptyRaids     map[int64]int  `json:"empty_raids"`
	Timeouts       map[int64]int  `json:"timeouts"`
	CurrentHalf    int            `json:"current_half"`
	LastRaidTeamID int64          `json:"last_raid_team_id,omitempty"`
	Clock          RaidClock      `json:"clock"`
	HalfClock      HalfClock      `json:"half_clock"`

	outSet map[int64]bool
	pindex map[int64]int
}

// Out reports whether a player is in the reconstructed out-set.
func (s *Snapshot) Out(playerID int64) bool { return s.outSet[playerID] }

// OutSet returns a copy of the out-set keyed by player id.
func (s *Snapshot) OutSet() map[int64]bool {
	cp := make(map[int64]bool, len(s.outSet))
	for id := range s.outSet {
		cp[id] = true
	}
	return cp
}

// Rebuild materializes a Snapshot from the complete ordered event list.
// Deterministic and idempotent: the same list always yields the same
// snapshot, and it is safe to re-run on every new-event notification.
// Malformed or orphaned events degrade gracefully: their points still
// count, but they contribute nothing to timer or active-raid inference.
func Rebuild(teamAID, teamBID int64, settings model.MatchSettings, events []model.MatchEvent, now time.Time) Snapshot {
	s := Snapshot{
		TeamA:       TeamTotals{TeamID: teamAID},
		TeamB:       TeamTotals{TeamID: teamBID},
		EmptyRaids:  map[int64]int{teamAID: 0, teamBID: 0},
		Timeouts:    map[int64]int{teamAID: 0, teamBID: 0},
		CurrentHalf: 1,
		outSet:      make(map[int64]bool),
		pindex:      make(map[int64]int),
	}

	lastStart := -1
	lastScoring := -1

	for i, ev := range events {
		switch ev.Type {
		case model.EventRaidStart:
			lastStart = i
		case model.EventRaid:
			s.applyRaid(ev, teamAID, teamBID)
			lastScoring = i
		case model.EventAllOut:
			s.applyAllOut(ev, teamAID, teamBID)
			lastScoring = i
		case model.EventTackle:
			s.applyTackle(ev, teamAID, teamBID)
			lastScoring = i
		case model.EventTechnical:
			s.addScore(ev.TeamID, ev.Points, ev.Payload.Half, teamAID, teamBID)
			s.totals(ev.TeamID, teamAID, teamBID).TechnicalPoints += ev.Points
			lastScoring = i
		case model.EventTimeout:
			// Counted per half after the current half is settled below.
			lastScoring = i
		default:
			// Unknown event type: keep the score honest, infer nothing else.
			s.addScore(ev.TeamID, ev.Points, ev.Payload.Half, teamAID, teamBID)
			lastScoring = i
		}
		if h := half(ev.Payload.Half); h > s.CurrentHalf {
			s.CurrentHalf = h
		}
	}

	// The half clock can move the match forward past what any payload says,
	// never backward: an event stamped with half 2 keeps the half at 2 even
	// if the clock disagrees.
	s.HalfClock = halfClock(settings, events, now)
	if s.HalfClock.Half > s.CurrentHalf {
		s.CurrentHalf = s.HalfClock.Half
	}

	// Timeout allowances reset at the break, so only the current half counts.
	for _, ev := range events {
		if ev.Type == model.EventTimeout && half(ev.Payload.Half) == s.CurrentHalf {
			s.Timeouts[ev.TeamID]++
		}
	}

	// In-progress raid: the latest raid_start counts only while no scoring
	// event is the same age or newer. A cancelled raid_start is superseded
	// the moment anything later lands in the log.
	if lastStart >= 0 && lastStart > lastScoring {
		start := events[lastStart]
		dur := start.Payload.RaidDuration
		if dur <= 0 {
			dur = settings.RaidDuration
		}
		elapsed := int(now.Sub(start.CreatedAt).Seconds())
		remaining := dur - elapsed
		if remaining < 0 {
			remaining = 0
		}
		s.Clock = RaidClock{
			InProgress: true,
			TeamID:     start.TeamID,
			RaiderID:   start.Payload.RaiderID,
			Remaining:  remaining,
			StartedAt:  start.CreatedAt,
		}
		s.LastRaidTeamID = start.TeamID
	}

	s.rank()
	return s
}

func (s *Snapshot) applyRaid(ev model.MatchEvent, teamAID, teamBID int64) {
	t := s.totals(ev.TeamID, teamAID, teamBID)
	t.Raids++
	s.addScore(ev.TeamID, ev.Points, ev.Payload.Half, teamAID, teamBID)
	s.LastRaidTeamID = ev.TeamID

	if ev.Points > 0 {
		t.SuccessfulRaids++
		t.TouchPoints += ev.Payload.TouchPoints
		if ev.Payload.BonusPoint {
			t.BonusPoints++
		}
		s.EmptyRaids[ev.TeamID] = 0
	} else {
		s.EmptyRaids[ev.TeamID]++
	}
	for _, id := range ev.Payload.DefendersOut {
		s.markOut(id)
	}
	s.creditRaider(ev)
}

func (s *Snapshot) applyAllOut(ev model.MatchEvent, teamAID, teamBID int64) {
	t := s.totals(ev.TeamID, teamAID, teamBID)
	t.Raids++
	t.SuccessfulRaids++
	t.AllOuts++
	t.TouchPoints += ev.Payload.TouchPoints
	if ev.Payload.BonusPoint {
		t.BonusPoints++
	}
	s.addScore(ev.TeamID, ev.Points, ev.Payload.Half, teamAID, teamBID)
	s.EmptyRaids[ev.TeamID] = 0
	s.LastRaidTeamID = ev.TeamID

	// Revival: the touched defenders go out and the whole side comes back.
	for _, id := range ev.Payload.DefendersOut {
		s.markOut(id)
	}
	for _, id := range ev.Payload.RevivedIDs {
		s.markIn(id)
	}
	s.creditRaider(ev)
}

func (s *Snapshot) applyTackle(ev model.MatchEvent, teamAID, teamBID int64) {
	// A tackle is the defending team scoring; the raid belongs to the other
	// side. Do-or-die auto-outs arrive as tackles without a tackler.
	raidingTeam := other(ev.TeamID, teamAID, teamBID)
	s.totals(raidingTeam, teamAID, teamBID).Raids++
	s.EmptyRaids[raidingTeam] = 0
	s.LastRaidTeamID = raidingTeam

	t := s.totals(ev.TeamID, teamAID, teamBID)
	t.TacklePoints += ev.Points
	if ev.Points >= 2 {
		t.SuperTackles++
	}
	s.addScore(ev.TeamID, ev.Points, ev.Payload.Half, teamAID, teamBID)

	if ev.Payload.RaiderOut && ev.Payload.RaiderID != 0 {
		s.markOut(ev.Payload.RaiderID)
	}
	if ev.Payload.TacklerID != 0 {
		p := s.player(ev.Payload.TacklerID)
		p.TacklePoints += ev.Points
	}
}

// creditRaider attributes a raid's touch and bonus points to the raider.
// The all-out team bonus stays a team contribution.
func (s *Snapshot) creditRaider(ev model.MatchEvent) {
	if ev.Payload.RaiderID == 0 {
		return
	}
	pts := ev.Payload.TouchPoints
	if ev.Payload.BonusPoint {
		pts++
	}
	p := s.player(ev.Payload.RaiderID)
	p.RaidPoints += pts
}

func (s *Snapshot) addScore(teamID int64, points, rawHalf int, teamAID, teamBID int64) {
	if points == 0 {
		return
	}
	s.totals(teamID, teamAID, teamBID).Score += points

	h := half(rawHalf)
	for i := range s.Halves {
		if s.Halves[i].Half == h {
			if teamID == teamAID {
				s.Halves[i].TeamA += points
			} else {
				s.Halves[i].TeamB += points
			}
			return
		}
	}
	hs := HalfScore{Half: h}
	if teamID == teamAID {
		hs.TeamA = points
	} else {
		hs.TeamB = points
	}
	s.Halves = append(s.Halves, hs)
}

func (s *Snapshot) totals(teamID, teamAID, teamBID int64) *TeamTotals {
	if teamID == teamBID {
		return &s.TeamB
	}
	_ = teamAID
	return &s.TeamA
}

// player returns the running totals for a player, creating them on first
// encounter. Insertion order is preserved so ranking ties stay stable.
func (s *Snapshot) player(id int64) *PlayerTotals {
	if i, ok := s.pindex[id]; ok {
		return &s.Players[i]
	}
	s.Players = append(s.Players, PlayerTotals{PlayerID: id})
	s.pindex[id] = len(s.Players) - 1
	return &s.Players[len(s.Players)-1]
}

func (s *Snapshot) markOut(id int64) {
	if id == 0 || s.outSet[id] {
		return
	}
	s.outSet[id] = true
	s.OutPlayerIDs = append(s.OutPlayerIDs, id)
}

func (s *Snapshot) markIn(id int64) {
	if !s.outSet[id] {
		return
	}
	delete(s.outSet, id)
	for i, v := range s.OutPlayerIDs {
		if v == id {
			s.OutPlayerIDs = append(s.OutPlayerIDs[:i], s.OutPlayerIDs[i+1:]...)
			break
		}
	}
}

// rank picks top raider and defender; ties go to the first encountered.
func (s *Snapshot) rank() {
	bestRaid, bestTackle := 0, 0
	for _, p := range s.Players {
		if p.RaidPoints > bestRaid {
			bestRaid = p.RaidPoints
			s.TopRaiderID = p.PlayerID
		}
		if p.TacklePoints > bestTackle {
			bestTackle = p.TacklePoints
			s.TopDefenderID = p.PlayerID
		}
	}
}

// halfClock derives the half timer from the first event's timestamp. Before
// any event the match has not started and the first half is untouched. Past
// the final half the clock pins to it with nothing remaining.
func halfClock(settings model.MatchSettings, events []model.MatchEvent, now time.Time) HalfClock {
	hc := HalfClock{Half: 1, Remaining: settings.HalfDuration}
	if len(events) == 0 || settings.HalfDuration <= 0 {
		return hc
	}
	halves := settings.NumberOfHalves
	if halves <= 0 {
		halves = 1
	}
	period := settings.HalfDuration + settings.BreakDuration
	elapsed := int(now.Sub(events[0].CreatedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	idx := elapsed / period
	if idx >= halves {
		return HalfClock{Half: halves, Remaining: 0}
	}
	within := elapsed % period
	if within >= settings.HalfDuration {
		// Between halves: the finished half stays current until play resumes.
		return HalfClock{Half: idx + 1, Remaining: 0, Break: idx+1 < halves}
	}
	return HalfClock{Half: idx + 1, Remaining: settings.HalfDuration - within}
}

func other(teamID, teamAID, teamBID int64) int64 {
	if teamID == teamAID {
		return teamBID
	}
	return teamAID
}

func half(h int) int {
	if h <= 0 {
		return 1
	}
	return h
}
