package edit

import (
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/okian/octofit/internal/domain/record"
)

// Changes lists the JSON pointers of the fields the draft changes relative
// to the user as displayed and the team choice it was opened with.
func Changes(user record.Record, openedTeamID string, d Draft) ([]string, error) {
	before := Draft{UserID: d.UserID, TeamID: openedTeamID}
	before.Name, _ = user.String(FieldName)
	before.Username, _ = user.String(FieldUsername)
	before.Email, _ = user.String(FieldEmail)
	before.Age, _ = user.String(FieldAge)

	patch, err := jsondiff.Compare(before.Body(), d.Body())
	if err != nil {
		return nil, fmt.Errorf("diff draft: %w", err)
	}
	paths := make([]string, 0, len(patch))
	for _, op := range patch {
		paths = append(paths, fmt.Sprint(op.Path))
	}
	return paths, nil
}
