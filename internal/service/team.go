package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kabaddi-live/scoring-service/internal/model"
	"github.com/kabaddi-live/scoring-service/internal/repository"
)

type teamService struct {
	teams   repository.TeamRepository
	players repository.PlayerRepository
	log     zerolog.Logger
}

// NewTeamService wires the read-only team and roster queries.
func NewTeamService(teams repository.TeamRepository, players repository.PlayerRepository, logger zerolog.Logger) TeamService {
	l := logger.With().Str("module", "service").Str("component", "team").Logger()
	return &teamService{teams: teams, players: players, log: l}
}

func (s *teamService) GetTeam(ctx context.Context, id int64) (model.Team, error) {
	if id <= 0 {
		return model.Team{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.teams.GetByID(ctx, id)
}

func (s *teamService) ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error) {
	res, err := s.teams.List(ctx, page.Normalized())
	if err != nil {
		s.log.Error().Err(err).Msg("list teams failed")
		return repository.PageResult[model.Team]{}, err
	}
	return res, nil
}

func (s *teamService) TeamRoster(ctx context.Context, teamID int64) ([]model.Player, error) {
	if teamID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.players.ListByTeam(ctx, teamID)
}

func (s *teamService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.players.GetByID(ctx, id)
}
