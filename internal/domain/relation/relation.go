// Package relation derives which team a user belongs to from team member
// lists. Users carry no reference to their team; the association lives on
// the team side only.
package relation

import "github.com/okian/octofit/internal/domain/record"

// FindTeam returns the first team, in order, that lists user as a member.
// Members may be bare identifiers or embedded user records. A user without
// an identifier belongs to no team.
func FindTeam(user record.Record, teams []record.Team) (record.Team, bool) {
	id, ok := user.ID()
	if !ok {
		return record.Team{}, false
	}
	for _, t := range teams {
		for _, m := range t.Members {
			if m.Matches(id) {
				return t, true
			}
		}
	}
	return record.Team{}, false
}

// MemberCount is the number of member entries a team lists.
func MemberCount(t record.Team) int {
	return len(t.Members)
}
