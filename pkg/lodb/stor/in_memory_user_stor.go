package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
)

type InMemoryUserStor struct {
	ErrToReturn error
	users       []model.User
	lastID      int
}

func NewInMemoryUserStor(users []model.User) *InMemoryUserStor {
	return &InMemoryUserStor{users: users, lastID: 30000}
}

func (s *InMemoryUserStor) CreateUser(user *model.User) (*model.User, error) {
	userUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	s.lastID = s.lastID + 1
	user.ID = s.lastID
	user.UUID = userUUID
	s.users = append(s.users, *user)

	u := *user
	return &u, nil
}

func (s *InMemoryUserStor) GetUserByID(userID int) (*model.User, error) {
	for i := range s.users {
		if s.users[i].ID == userID {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStor) GetUserByEmail(email string) (*model.User, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStor) GetUserByAPIToken(apitoken string) (*model.User, error) {
	for i := range s.users {
		if s.users[i].ApiToken == apitoken {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}
