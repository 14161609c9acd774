package notify

type MockNotifier struct {
	err  error
	Sent []Invitation
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (n *MockNotifier) SetError(err error) {
	n.err = err
}

func (n *MockNotifier) SendInvitation(invitation Invitation) error {
	if n.err != nil {
		return n.err
	}

	n.Sent = append(n.Sent, invitation)
	return nil
}
