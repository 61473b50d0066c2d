package render

import (
	"strconv"
	"strings"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/relation"
	"github.com/okian/octofit/internal/screen"
)

// Users renders the users table with each user's derived team.
func Users(v screen.UsersView) Table {
	t := Table{
		Title:   "Users",
		Noun:    "user",
		Headers: []string{"Name", "Username", "Email", "Age", "Team"},
		Empty:   "No users found.",
	}
	for _, u := range v.Users {
		team := NA
		if tm, ok := v.TeamOf(u); ok && tm.Name != "" {
			team = tm.Name
		}
		t.Rows = append(t.Rows, []string{
			firstTruthy(u, NA, "name"),
			firstTruthy(u, NA, "username"),
			firstTruthy(u, NA, "email"),
			firstTruthy(u, NA, "age"),
			team,
		})
	}
	return t
}

// Teams renders teams with their member labels and counts.
func Teams(c record.Collection) Table {
	t := Table{
		Title:   "Teams",
		Noun:    "team",
		Headers: []string{"Team", "Members", "Count"},
		Empty:   "No teams found.",
	}
	for _, team := range record.Teams(c) {
		labels := make([]string, 0, len(team.Members))
		for _, m := range team.Members {
			labels = append(labels, memberLabel(m))
		}
		members := "No members"
		if len(labels) > 0 {
			members = strings.Join(labels, ", ")
		}
		t.Rows = append(t.Rows, []string{
			firstTruthy(team.Record, NA, "name"),
			members,
			strconv.Itoa(relation.MemberCount(team)),
		})
	}
	return t
}

func memberLabel(m record.Ref) string {
	if u, ok := m.Embedded(); ok {
		return firstTruthy(u, "Member", "username", "email", record.FieldID, record.FieldAltID)
	}
	if m.ID() == "" {
		return "Member"
	}
	return m.ID()
}

// Activities renders activities with the user resolved from an embedded
// object or a bare reference.
func Activities(c record.Collection) Table {
	t := Table{
		Title:   "Activities",
		Noun:    "record",
		Headers: []string{"User", "Activity Type", "Duration (min)", "Date"},
		Empty:   "No activities found.",
	}
	for _, a := range c {
		t.Rows = append(t.Rows, []string{
			activityUser(a),
			firstTruthy(a, NA, "activity_type", "type"),
			firstTruthy(a, NA, "duration"),
			FormatDate(a["date"]),
		})
	}
	return t
}

func activityUser(a record.Record) string {
	if ref, ok := a.Ref("user"); ok {
		if u, embedded := ref.Embedded(); embedded {
			return firstTruthy(u, NA, "name", "username", "email", record.FieldID)
		}
		if ref.ID() != "" {
			return ref.ID()
		}
	}
	return firstTruthy(a, NA, "name", "username")
}

// Leaderboard renders ranked entries. A missing rank falls back to the
// entry's position.
func Leaderboard(c record.Collection) Table {
	t := Table{
		Title:   "Leaderboard",
		Noun:    "competitor",
		Headers: []string{"Rank", "User", "Team", "Calories", "Activities", "Distance (km)"},
		Empty:   "No leaderboard entries found.",
	}
	for i, e := range c {
		t.Rows = append(t.Rows, []string{
			firstTruthy(e, strconv.Itoa(i+1), "rank"),
			leaderboardName(e),
			firstTruthy(e, NA, "team"),
			firstPresent(e, "0", "total_calories", "score"),
			firstPresent(e, NA, "total_activities"),
			firstPresent(e, NA, "total_distance"),
		})
	}
	return t
}

func leaderboardName(e record.Record) string {
	if truthy(e["user_name"]) {
		return text(e["user_name"])
	}
	if ref, ok := e.Ref("user"); ok {
		if u, embedded := ref.Embedded(); embedded {
			return firstTruthy(u, NA, "name", "username")
		}
		if ref.ID() != "" {
			return ref.ID()
		}
	}
	return NA
}

// Workouts renders workout suggestions.
func Workouts(c record.Collection) Table {
	t := Table{
		Title:   "Workouts",
		Noun:    "workout",
		Headers: []string{"Workout", "Description", "Difficulty", "Duration", "Exercises", "Recommended For"},
		Empty:   "No workouts found.",
	}
	for _, w := range c {
		duration := NA
		if truthy(w["duration"]) {
			duration = text(w["duration"]) + " min"
		}
		t.Rows = append(t.Rows, []string{
			firstTruthy(w, NA, "title", "name"),
			firstTruthy(w, NA, "description"),
			firstTruthy(w, NA, "difficulty"),
			duration,
			listOr(w, "exercises", "; "),
			listOr(w, "recommended_for", ", "),
		})
	}
	return t
}

// Collection renders c with the table of resource.
func Collection(resource client.Resource, c record.Collection) Table {
	switch resource {
	case client.Teams:
		return Teams(c)
	case client.Activities:
		return Activities(c)
	case client.Leaderboard:
		return Leaderboard(c)
	case client.Workouts:
		return Workouts(c)
	default:
		return Users(screen.NewUsersView(c, nil))
	}
}
