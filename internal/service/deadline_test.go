package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/service"
)

// DeadlineTestSuite covers the deadline bounds used when extending a workspace.
type DeadlineTestSuite struct {
	suite.Suite
	newYear time.Time
}

func (s *DeadlineTestSuite) SetupTest() {
	s.newYear = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestDeadlineSuite(t *testing.T) {
	suite.Run(t, new(DeadlineTestSuite))
}

func runningWorkspace(updatedAt time.Time, deadline *time.Time) *domain.Workspace {
	return &domain.Workspace{
		ID:   "00000000-0000-0000-0000-000000000001",
		Name: "dev",
		LatestBuild: domain.Build{
			Status:     domain.BuildStatusRunning,
			Transition: domain.BuildTransitionStart,
			UpdatedAt:  updatedAt,
			Deadline:   deadline,
		},
	}
}

func stoppedWorkspace(ttlMillis *int64) *domain.Workspace {
	return &domain.Workspace{
		ID:        "00000000-0000-0000-0000-000000000002",
		Name:      "idle",
		TTLMillis: ttlMillis,
		LatestBuild: domain.Build{
			Status:     domain.BuildStatusStopped,
			Transition: domain.BuildTransitionStop,
			UpdatedAt:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (s *DeadlineTestSuite) TestMaxDeadline() {
	ws := runningWorkspace(s.newYear, nil)

	got, err := service.MaxDeadline(ws)
	s.Require().NoError(err)
	s.True(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).Equal(got))
}

func (s *DeadlineTestSuite) TestMaxDeadline_UndefinedWorkspace() {
	_, err := service.MaxDeadline(nil)
	s.ErrorIs(err, domain.ErrUndefinedWorkspace)
}

func (s *DeadlineTestSuite) TestMinDeadline() {
	got := service.MinDeadline(s.newYear)
	s.True(time.Date(2023, 1, 1, 0, 30, 0, 0, time.UTC).Equal(got))
}

func (s *DeadlineTestSuite) TestIsShuttingDown() {
	deadline := s.newYear
	ws := runningWorkspace(s.newYear.Add(-8*time.Hour), &deadline)

	s.True(service.IsShuttingDown(ws, nil, s.newYear.Add(time.Second)))
	s.False(service.IsShuttingDown(ws, nil, time.Date(2022, 12, 31, 23, 59, 59, 999_000_000, time.UTC)))
	// The deadline itself is not past yet.
	s.False(service.IsShuttingDown(ws, nil, s.newYear))
}

func (s *DeadlineTestSuite) TestIsShuttingDown_ExplicitDeadlineWins() {
	stored := s.newYear.Add(time.Hour)
	ws := runningWorkspace(s.newYear.Add(-8*time.Hour), &stored)

	explicit := s.newYear.Add(-time.Minute)
	s.True(service.IsShuttingDown(ws, &explicit, s.newYear))
}

func (s *DeadlineTestSuite) TestIsShuttingDown_NoDeadline() {
	ws := runningWorkspace(s.newYear, nil)
	s.False(service.IsShuttingDown(ws, nil, s.newYear.Add(48*time.Hour)))
}

func (s *DeadlineTestSuite) TestIsShuttingDown_NotRunning() {
	deadline := s.newYear
	ws := stoppedWorkspace(nil)
	ws.LatestBuild.Deadline = &deadline

	s.False(service.IsShuttingDown(ws, nil, s.newYear.Add(time.Hour)))
}

func (s *DeadlineTestSuite) TestDeadline() {
	chicago, err := time.LoadLocation("America/Chicago")
	s.Require().NoError(err)
	local := time.Date(2023, 1, 1, 6, 0, 0, 0, chicago)
	ws := runningWorkspace(s.newYear, &local)

	got, err := service.Deadline(ws)
	s.Require().NoError(err)
	s.Equal(time.UTC, got.Location())
	s.True(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC).Equal(got))

	_, err = service.Deadline(runningWorkspace(s.newYear, nil))
	s.ErrorIs(err, domain.ErrNoDeadline)

	_, err = service.Deadline(nil)
	s.ErrorIs(err, domain.ErrUndefinedWorkspace)
}

func (s *DeadlineTestSuite) TestMaxDeadlineChange() {
	deadline := s.newYear.Add(8 * time.Hour)

	s.Equal(16, service.MaxDeadlineChange(deadline, s.newYear.Add(24*time.Hour)))
	s.Equal(7, service.MaxDeadlineChange(deadline, s.newYear.Add(30*time.Minute)))
	s.Equal(0, service.MaxDeadlineChange(deadline, deadline.Add(59*time.Minute)))
	s.Equal(1, service.MaxDeadlineChange(deadline, deadline.Add(-119*time.Minute)))
}

func (s *DeadlineTestSuite) TestValidateDeadline() {
	ws := runningWorkspace(s.newYear, nil)
	now := s.newYear.Add(2 * time.Hour)

	s.NoError(service.ValidateDeadline(ws, now.Add(time.Hour), now))
	s.NoError(service.ValidateDeadline(ws, now.Add(service.MinExtension), now))
	s.NoError(service.ValidateDeadline(ws, s.newYear.Add(service.MaxExtension), now))

	s.ErrorIs(service.ValidateDeadline(ws, now.Add(10*time.Minute), now), domain.ErrDeadlineOutOfRange)
	s.ErrorIs(service.ValidateDeadline(ws, s.newYear.Add(25*time.Hour), now), domain.ErrDeadlineOutOfRange)
	s.ErrorIs(service.ValidateDeadline(nil, now, now), domain.ErrUndefinedWorkspace)
}
