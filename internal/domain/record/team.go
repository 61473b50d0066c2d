package record

// Team field names.
const (
	FieldTeamID  = "team_id"
	FieldName    = "name"
	FieldMembers = "members"
)

// Team is the typed view of a team record used by relation derivation. It
// is built once per fetch.
type Team struct {
	Record  Record
	ID      string
	Name    string
	Members []Ref

	// Choice is the value submitted as a user's team_id: the team's
	// "team_id" field when present, else its identifier.
	Choice string
}

// TeamFrom builds the typed view of one team record.
func TeamFrom(r Record) Team {
	t := Team{Record: r, Members: r.Refs(FieldMembers)}
	t.ID, _ = r.ID()
	t.Name, _ = r.String(FieldName)
	if choice, ok := r.String(FieldTeamID); ok {
		t.Choice = choice
	} else {
		t.Choice = t.ID
	}
	if t.Members == nil {
		t.Members = []Ref{}
	}
	return t
}

// Teams builds team views for a whole collection, preserving order.
func Teams(c Collection) []Team {
	out := make([]Team, 0, len(c))
	for _, r := range c {
		out = append(out, TeamFrom(r))
	}
	return out
}

// TeamByChoice returns the first team whose Choice equals choice.
func TeamByChoice(teams []Team, choice string) (Team, bool) {
	for _, t := range teams {
		if choice != "" && t.Choice == choice {
			return t, true
		}
	}
	return Team{}, false
}
