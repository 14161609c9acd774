package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNotifyAPI = errors.New("notification api")

// Invitation is the payload handed to the notification service, which owns
// email rendering and delivery.
type Invitation struct {
	Email     string    `json:"email"`
	TeamName  string    `json:"team_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Resend    bool      `json:"resend"`
}

type Notifier interface {
	SendInvitation(invitation Invitation) error
}

// HTTPNotifier posts invitation notifications to the notification service.
type HTTPNotifier struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		client:  resty.New(),
		baseURL: baseURL,
	}
}

func (n *HTTPNotifier) SendInvitation(invitation Invitation) error {
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(invitation).
		Post(n.baseURL + "/notifications/team-invitation")
	if err != nil {
		return errors.Join(ErrNotifyAPI, err)
	}

	if resp.IsError() {
		return errors.Join(ErrNotifyAPI,
			fmt.Errorf("(HTTP Status: %d) sending invitation notification for %s", resp.StatusCode(), invitation.Email))
	}

	return nil
}
