package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/tightlines/internal/models"
)

// MockCompetitionRepository mocks competition repository
type MockCompetitionRepository struct {
	mock.Mock
}

func (m *MockCompetitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	args := m.Called(ctx, competition)
	return args.Error(0)
}

func (m *MockCompetitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Competition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) List(ctx context.Context, filter models.CompetitionFilter) ([]*models.Competition, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) Update(ctx context.Context, competition *models.Competition) error {
	args := m.Called(ctx, competition)
	return args.Error(0)
}

func (m *MockCompetitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLeaderboardRepository mocks leaderboard repository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Create(ctx context.Context, entry *models.LeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeaderboardEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) GetByCompetition(ctx context.Context, competitionID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) Update(ctx context.Context, entry *models.LeaderboardEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	boards []*models.Leaderboard
}

func (p *recordingPublisher) PublishLeaderboard(_ uuid.UUID, board *models.Leaderboard) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boards = append(p.boards, board)
}
