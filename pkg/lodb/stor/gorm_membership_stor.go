package stor

import (
	"errors"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
	"gorm.io/gorm"
)

type GormMembershipStor struct {
	db *gorm.DB
}

func NewGormMembershipStor(db *gorm.DB) *GormMembershipStor {
	return &GormMembershipStor{db: db}
}

func (s *GormMembershipStor) GetMembership(teamID, membershipID int) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	err := s.db.Preload("User").
		Where("team_id = ?", teamID).
		First(&membership, membershipID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) GetMembershipByID(membershipID int) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	if err := s.db.Preload("User").First(&membership, membershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) GetMembershipByToken(token string) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	err := s.db.Where("invitation_token = ?", token).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) GetActiveMembers(teamID int) ([]model.TeamMembership, error) {
	var memberships []model.TeamMembership
	err := s.db.Preload("User").
		Where("team_id = ?", teamID).
		Where("status = ?", model.MembershipActive).
		Order("id").
		Find(&memberships).Error
	return memberships, err
}

func (s *GormMembershipStor) GetActiveMembershipForUser(teamID, userID int) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	err := s.db.Where("team_id = ?", teamID).
		Where("user_id = ?", userID).
		Where("status = ?", model.MembershipActive).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) GetMembershipForEmail(teamID int, email string) (*model.TeamMembership, error) {
	var membership model.TeamMembership
	err := s.db.Where("team_id = ?", teamID).
		Where("email = ?", email).
		Where("status <> ?", model.MembershipInactive).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) CountActiveMembers(teamID int) (int, error) {
	var count int64
	err := s.db.Model(&model.TeamMembership{}).
		Where("team_id = ?", teamID).
		Where("status = ?", model.MembershipActive).
		Count(&count).Error
	return int(count), err
}

func (s *GormMembershipStor) CreateInvitation(membership *model.TeamMembership) (*model.TeamMembership, error) {
	var err error

	if membership.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	membership.Status = model.MembershipPending

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(membership).Error
	})

	if err != nil {
		return nil, err
	}

	return membership, nil
}

func (s *GormMembershipStor) UpdateRole(teamID, membershipID int, role string, level model.RoleLevel) (*model.TeamMembership, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&model.TeamMembership{}).
			Where("id = ? and team_id = ?", membershipID, teamID).
			Where("status = ?", model.MembershipActive).
			Updates(map[string]interface{}{
				"role":  role,
				"level": level,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.GetMembership(teamID, membershipID)
}

// RemoveMember soft deletes a membership. The active count check, the status
// flip and the team size decrement happen in one transaction so concurrent
// removals can't both pass the floor check.
func (s *GormMembershipStor) RemoveMember(teamID, membershipID int) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		var membership model.TeamMembership
		err := tx.Where("team_id = ?", teamID).First(&membership, membershipID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrNotFound
		case err != nil:
			return err
		case membership.Status != model.MembershipActive:
			return ErrNotActive
		}

		var team model.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}

		if membership.UserID != nil && *membership.UserID == team.CreatorID {
			return ErrCreatorProtected
		}

		var activeCount int64
		err = tx.Model(&model.TeamMembership{}).
			Where("team_id = ?", teamID).
			Where("status = ?", model.MembershipActive).
			Count(&activeCount).Error
		if err != nil {
			return err
		}

		if activeCount-1 < 2 {
			return ErrMemberFloor
		}

		err = tx.Model(&membership).
			Update("status", model.MembershipInactive).Error
		if err != nil {
			return err
		}

		return tx.Model(&team).Update("size", team.Size-1).Error
	})
}

func (s *GormMembershipStor) RotateInvitation(membershipID int, token string, invitedAt time.Time, expiresAt time.Time) (*model.TeamMembership, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&model.TeamMembership{}).
			Where("id = ?", membershipID).
			Where("status = ?", model.MembershipPending).
			Updates(map[string]interface{}{
				"invitation_token":      token,
				"invited_at":            invitedAt,
				"invitation_expires_at": expiresAt,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrStaleInvitation
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.GetMembershipByID(membershipID)
}

// AcceptInvitation is conditional on the token still being current, so an
// accept racing a resend either consumes the pre-rotation token or loses
// cleanly with ErrStaleInvitation.
func (s *GormMembershipStor) AcceptInvitation(token string, userID *int) (*model.TeamMembership, error) {
	var membershipID int

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var membership model.TeamMembership
		err := tx.Where("invitation_token = ?", token).First(&membership).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrNotFound
		case err != nil:
			return err
		}

		membershipID = membership.ID

		updates := map[string]interface{}{
			"status":           model.MembershipActive,
			"invitation_token": "",
		}
		if userID != nil {
			updates["user_id"] = *userID
		}

		result := tx.Model(&model.TeamMembership{}).
			Where("invitation_token = ?", token).
			Where("status = ?", model.MembershipPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrStaleInvitation
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.GetMembershipByID(membershipID)
}
