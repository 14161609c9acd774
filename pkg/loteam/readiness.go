package loteam

import (
	"fmt"
	"math"
	"strings"

	"github.com/liftout/liftout/pkg/lodb/model"
)

const (
	// MinActiveMembers is the floor for both posting readiness and member
	// removal.
	MinActiveMembers = 2

	// MinBioLength is the canonical complete-profile bio threshold.
	MinBioLength = 10

	// MinDescriptionLength is the minimum team description length for
	// posting.
	MinDescriptionLength = 20
)

type RequirementResult struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Met      bool   `json:"met"`
	Details  string `json:"details"`
	Priority int    `json:"priority"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
}

type Readiness struct {
	CanPost         bool                `json:"can_post"`
	ProgressPercent int                 `json:"progress_percent"`
	Requirements    []RequirementResult `json:"requirements"`
}

// EvaluateReadiness computes whether a team qualifies to be posted from a
// snapshot of the team record and its active memberships. It's pure: same
// snapshot in, identical result out, requirement order included. Every
// requirement is evaluated even when an earlier one fails so the caller sees
// everything outstanding at once.
func EvaluateReadiness(team *model.Team, members []model.TeamMembership) Readiness {
	requirements := []RequirementResult{
		evalMinMembers(members),
		evalCompleteProfiles(members),
		evalDescription(team),
		evalIndustry(team),
		evalHasLead(members),
	}

	met := 0
	canPost := true
	for _, r := range requirements {
		if r.Met {
			met = met + 1
		} else {
			canPost = false
		}
	}

	progress := int(math.Round(float64(met) / float64(len(requirements)) * 100))

	return Readiness{
		CanPost:         canPost,
		ProgressPercent: progress,
		Requirements:    requirements,
	}
}

func evalMinMembers(members []model.TeamMembership) RequirementResult {
	count := len(members)
	return RequirementResult{
		ID:       "min_members",
		Label:    "Minimum team size",
		Met:      count >= MinActiveMembers,
		Details:  fmt.Sprintf("team has %d of %d required active members", count, MinActiveMembers),
		Priority: 1,
		Current:  count,
		Required: MinActiveMembers,
	}
}

func evalCompleteProfiles(members []model.TeamMembership) RequirementResult {
	complete := 0
	for _, m := range members {
		if profileComplete(m.User) {
			complete = complete + 1
		}
	}

	return RequirementResult{
		ID:       "complete_profiles",
		Label:    "Complete member profiles",
		Met:      complete == len(members),
		Details:  fmt.Sprintf("%d of %d active members have a complete profile", complete, len(members)),
		Priority: 2,
		Current:  complete,
		Required: len(members),
	}
}

func profileComplete(u *model.User) bool {
	if u == nil {
		return false
	}

	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return false
	}

	return len(u.Bio) >= MinBioLength
}

func evalDescription(team *model.Team) RequirementResult {
	length := len(team.Description)
	return RequirementResult{
		ID:       "team_description",
		Label:    "Team description",
		Met:      length >= MinDescriptionLength,
		Details:  fmt.Sprintf("description is %d of %d required characters", length, MinDescriptionLength),
		Priority: 3,
		Current:  length,
		Required: MinDescriptionLength,
	}
}

func evalIndustry(team *model.Team) RequirementResult {
	met := strings.TrimSpace(team.Industry) != ""
	details := "team industry is set"
	if !met {
		details = "team industry is not set"
	}

	return RequirementResult{
		ID:       "team_industry",
		Label:    "Team industry",
		Met:      met,
		Details:  details,
		Priority: 4,
	}
}

func evalHasLead(members []model.TeamMembership) RequirementResult {
	met := false
	for _, m := range members {
		if m.Level.IsLead() {
			met = true
			break
		}
	}

	details := "team has a lead"
	if !met {
		details = "no active member is the team lead"
	}

	return RequirementResult{
		ID:       "has_lead",
		Label:    "Team lead",
		Met:      met,
		Details:  details,
		Priority: 5,
	}
}
