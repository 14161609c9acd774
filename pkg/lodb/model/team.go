package model

import (
	"time"
)

type PostingStatus string

const (
	PostingDraft  PostingStatus = "draft"
	PostingPosted PostingStatus = "posted"
)

// Team is a collective entity that can be posted for discovery by companies.
// PostingStatus only ever moves between draft and posted; a team that was
// posted and then withdrawn is draft with UnpostedAt set.
type Team struct {
	ID                 int           `json:"id"`
	UUID               string        `json:"uuid"`
	Slug               string        `json:"slug"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Industry           string        `json:"industry"`
	Size               int           `json:"size"`
	PostingStatus      PostingStatus `json:"posting_status"`
	PostedAt           *time.Time    `json:"posted_at"`
	UnpostedAt         *time.Time    `json:"unposted_at"`
	AvailabilityStatus string        `json:"availability_status"`
	CreatorID          int           `json:"creator_id"`
	Creator            *User         `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (t *Team) IsPosted() bool {
	return t.PostingStatus == PostingPosted
}
