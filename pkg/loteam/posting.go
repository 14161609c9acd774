package loteam

import (
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/liftout/liftout/pkg/lock"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
)

// TeamService owns team creation, readiness checks and the posting state
// machine. Posting transitions run under a per-team lock on top of the stor's
// conditional updates, so a racing pair of posts resolves to one transition
// and one idempotent no-op.
type TeamService struct {
	teamStor       stor.TeamStor
	membershipStor stor.MembershipStor
	teamLocks      *lock.IDLocker
}

func NewTeamService(teamStor stor.TeamStor, membershipStor stor.MembershipStor) *TeamService {
	return &TeamService{
		teamStor:       teamStor,
		membershipStor: membershipStor,
		teamLocks:      lock.NewIDLocker(),
	}
}

func (s *TeamService) CreateTeam(name, description, industry string, creatorID int) (*model.Team, error) {
	team := &model.Team{
		Name:        name,
		Description: description,
		Industry:    industry,
		CreatorID:   creatorID,
	}

	return s.teamStor.CreateTeam(team)
}

func (s *TeamService) GetTeam(teamID int) (*model.Team, error) {
	team, err := s.teamStor.GetTeamByID(teamID)
	if errors.Is(err, stor.ErrNotFound) {
		return nil, ErrNotFound
	}
	return team, err
}

// Readiness evaluates the posting requirements against the team's current
// active roster. Any authenticated caller may view readiness.
func (s *TeamService) Readiness(teamID int) (*Readiness, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.membershipStor.GetActiveMembers(teamID)
	if err != nil {
		return nil, err
	}

	readiness := EvaluateReadiness(team, members)
	return &readiness, nil
}

// Post transitions the team from draft to posted. Posting an already posted
// team succeeds without changing anything. When requirements are unmet the
// returned PreconditionFailedError carries the full requirement list.
func (s *TeamService) Post(teamID, actorID int) (*model.Team, error) {
	var team *model.Team

	err := s.teamLocks.WithLock(teamID, func() error {
		t, err := s.GetTeam(teamID)
		if err != nil {
			return err
		}

		allowed, err := canManageTeam(s.membershipStor, t, actorID)
		switch {
		case err != nil:
			return err
		case !allowed:
			return ErrForbidden
		}

		if t.IsPosted() {
			// Idempotent: report the posted team as is.
			team = t
			return nil
		}

		members, err := s.membershipStor.GetActiveMembers(teamID)
		if err != nil {
			return err
		}

		readiness := EvaluateReadiness(t, members)
		if !readiness.CanPost {
			return &PreconditionFailedError{Requirements: readiness.Requirements}
		}

		team, err = s.teamStor.MarkTeamPosted(teamID, time.Now())
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"team_id":  teamID,
			"actor_id": actorID,
		}).Info("team posted")

		return nil
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// Unpost withdraws a posted team back to draft, stamping unposted_at.
// Unposting a draft team is a no-op success, mirroring Post.
func (s *TeamService) Unpost(teamID, actorID int) (*model.Team, error) {
	var team *model.Team

	err := s.teamLocks.WithLock(teamID, func() error {
		t, err := s.GetTeam(teamID)
		if err != nil {
			return err
		}

		allowed, err := canManageTeam(s.membershipStor, t, actorID)
		switch {
		case err != nil:
			return err
		case !allowed:
			return ErrForbidden
		}

		if !t.IsPosted() {
			team = t
			return nil
		}

		team, err = s.teamStor.MarkTeamUnposted(teamID, time.Now())
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"team_id":  teamID,
			"actor_id": actorID,
		}).Info("team unposted")

		return nil
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// Locker exposes the per-team locks so membership mutations serialize against
// posting transitions on the same team.
func (s *TeamService) Locker() *lock.IDLocker {
	return s.teamLocks
}
