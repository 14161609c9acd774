package stor

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
	"gorm.io/gorm"
)

type GormTeamStor struct {
	db *gorm.DB
}

func NewGormTeamStor(db *gorm.DB) *GormTeamStor {
	return &GormTeamStor{db: db}
}

// CreateTeam creates the team in draft along with the creator's own active
// lead membership, all in one transaction. The creator counts toward team
// size from the start.
func (s *GormTeamStor) CreateTeam(team *model.Team) (*model.Team, error) {
	var (
		err            error
		membershipUUID string
	)

	if team.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if membershipUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	slugOfName := slug.Make(team.Name)
	team.Slug = slugOfName
	slugNext := 1

	team.PostingStatus = model.PostingDraft
	team.Size = 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
	CreateLoop:
		for {
			err = tx.Create(team).Error
			switch {
			case err == nil:
				break CreateLoop
			case errors.Is(err, gorm.ErrDuplicatedKey):
				// Assume a collision on the slug. Add an incrementing
				// integer to the slug name and try again.
				team.Slug = fmt.Sprintf("%s-%d", slugOfName, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}

		creatorID := team.CreatorID
		membership := &model.TeamMembership{
			UUID:        membershipUUID,
			TeamID:      team.ID,
			UserID:      &creatorID,
			Role:        "Team Lead",
			Level:       model.RoleLead,
			Status:      model.MembershipActive,
			InvitedAt:   time.Now(),
			InvitedByID: creatorID,
		}

		return tx.Create(membership).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

func (s *GormTeamStor) GetTeamByID(teamID int) (*model.Team, error) {
	var team model.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) GetTeamBySlug(teamSlug string) (*model.Team, error) {
	var team model.Team
	if err := s.db.Where("slug = ?", teamSlug).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) MarkTeamPosted(teamID int, postedAt time.Time) (*model.Team, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&model.Team{}).
			Where("id = ? and posting_status = ?", teamID, model.PostingDraft).
			Updates(map[string]interface{}{
				"posting_status": model.PostingPosted,
				"posted_at":      postedAt,
				"unposted_at":    nil,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Either the team doesn't exist or it's already posted. The
			// reload below sorts out which.
			return nil
		}

		return tx.Model(&model.Team{}).
			Where("id = ? and (availability_status is null or availability_status = '')", teamID).
			Update("availability_status", "available").Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(teamID)
}

func (s *GormTeamStor) MarkTeamUnposted(teamID int, unpostedAt time.Time) (*model.Team, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Model(&model.Team{}).
			Where("id = ? and posting_status = ?", teamID, model.PostingPosted).
			Updates(map[string]interface{}{
				"posting_status": model.PostingDraft,
				"unposted_at":    unpostedAt,
			}).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(teamID)
}
