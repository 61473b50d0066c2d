// Package edit holds the editable copy of a user record and turns it into
// the body of a user PATCH.
package edit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/octofit/internal/domain/record"
)

// User fields copied into a draft.
const (
	FieldName     = "name"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldAge      = "age"
	FieldTeamID   = "team_id"
)

// Draft is the mutable copy of a user being edited. Values are kept as typed
// text; Body decides their wire form. It never aliases a Collection.
type Draft struct {
	UserID   string
	Name     string
	Username string
	Email    string
	Age      string
	// TeamID is the choice value of the selected team, empty for none.
	TeamID string
}

// NewDraft copies the editable fields of user. team is the team derived for
// the user, if any.
func NewDraft(user record.Record, team record.Team, hasTeam bool) (Draft, error) {
	id, ok := user.ID()
	if !ok {
		return Draft{}, fmt.Errorf("%w: user has no identifier", ErrNoUserID)
	}
	d := Draft{UserID: id}
	d.Name, _ = user.String(FieldName)
	d.Username, _ = user.String(FieldUsername)
	d.Email, _ = user.String(FieldEmail)
	d.Age, _ = user.String(FieldAge)
	if hasTeam {
		d.TeamID = team.Choice
	}
	return d, nil
}

// Body is the PATCH payload. Age and TeamID serialize as null when blank and
// as JSON numbers when they hold an integer.
type Body struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Age      any    `json:"age"`
	TeamID   any    `json:"team_id"`
}

// Body builds the PATCH payload for the draft.
func (d Draft) Body() Body {
	return Body{
		Name:     d.Name,
		Username: d.Username,
		Email:    d.Email,
		Age:      wireValue(d.Age),
		TeamID:   wireValue(d.TeamID),
	}
}

func wireValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.Number(strconv.FormatInt(n, 10))
	}
	return s
}
