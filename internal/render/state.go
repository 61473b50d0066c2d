package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/viewstate"
	"github.com/okian/octofit/internal/screen"
)

// WriteState renders a view state: a loading line, the error message, or
// the table built by table and narrowed by filter.
func WriteState[T any](w io.Writer, name string, s viewstate.State[T], table func(T) Table, filter string) error {
	switch s.Phase {
	case viewstate.Loading:
		_, err := fmt.Fprintf(w, "Loading %s…\n", name)
		return err
	case viewstate.Errored:
		_, err := fmt.Fprintf(w, "Error: %s\n", s.Message)
		return err
	default:
		return table(s.Data).Filter(filter).Write(w)
	}
}

// WriteCollection renders the state of a collection screen.
func WriteCollection(w io.Writer, resource client.Resource, s viewstate.State[record.Collection], filter string) error {
	return WriteState(w, string(resource), s, func(c record.Collection) Table {
		return Collection(resource, c)
	}, filter)
}

// WriteUsers renders the state of the users screen.
func WriteUsers(w io.Writer, s viewstate.State[screen.UsersView], filter string) error {
	return WriteState(w, string(client.Users), s, Users, filter)
}

// WriteEdit renders the edit view: the draft, the team choices and the
// save status.
func WriteEdit(w io.Writer, st screen.EditStatus, teams []record.Team) error {
	if !st.Open {
		return nil
	}
	d := st.Draft
	var b strings.Builder
	fmt.Fprintf(&b, "Edit user %s\n", d.UserID)
	fmt.Fprintf(&b, "  Name:     %s\n", d.Name)
	fmt.Fprintf(&b, "  Username: %s\n", d.Username)
	fmt.Fprintf(&b, "  Email:    %s\n", d.Email)
	fmt.Fprintf(&b, "  Age:      %s\n", d.Age)
	b.WriteString("  Team:\n")
	mark := func(selected bool) string {
		if selected {
			return "*"
		}
		return " "
	}
	fmt.Fprintf(&b, "   %s -- No team --\n", mark(d.TeamID == ""))
	for _, t := range teams {
		fmt.Fprintf(&b, "   %s %s\n", mark(d.TeamID != "" && d.TeamID == t.Choice), t.Name)
	}
	switch {
	case st.Saving:
		b.WriteString("Saving…\n")
	case st.Err != "":
		fmt.Fprintf(&b, "Error: %s\n", st.Err)
	case st.Success:
		b.WriteString("User updated successfully!\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
