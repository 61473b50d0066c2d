package render

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/edit"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/viewstate"
	"github.com/okian/octofit/internal/screen"
)

func mustNormalize(body string) record.Collection {
	c, err := record.Normalize([]byte(body))
	if err != nil {
		panic(err)
	}
	return c
}

func TestUsersTable(t *testing.T) {
	Convey("Given users and teams with bare member ids", t, func() {
		users := mustNormalize(`[
			{"_id":"u1","name":"Tony Stark","username":"ironman","email":"tony@avengers.io","age":48},
			{"_id":"u2","name":"","email":"x@y.z","age":0}
		]`)
		teams := mustNormalize(`[{"_id":"t1","name":"Team Marvel","members":["u1"]}]`)

		table := Users(screen.NewUsersView(users, teams))

		Convey("Then rows carry the derived team or N/A", func() {
			So(table.Rows, ShouldHaveLength, 2)
			So(table.Rows[0], ShouldResemble, []string{"Tony Stark", "ironman", "tony@avengers.io", "48", "Team Marvel"})
			So(table.Rows[1], ShouldResemble, []string{NA, NA, "x@y.z", NA, NA})
			So(table.Count(), ShouldEqual, "2 users")
		})
	})
}

func TestTeamsTable(t *testing.T) {
	Convey("Given teams with embedded, bare and no members", t, func() {
		teams := mustNormalize(`[
			{"_id":"t1","name":"Team Marvel","members":[{"_id":"u1","username":"ironman"},{"_id":"u2","email":"cap@avengers.io"},"u3"]},
			{"_id":"t2","name":"Team DC","members":[]}
		]`)
		table := Teams(teams)

		So(table.Rows[0], ShouldResemble, []string{"Team Marvel", "ironman, cap@avengers.io, u3", "3"})
		So(table.Rows[1], ShouldResemble, []string{"Team DC", "No members", "0"})
		So(table.Count(), ShouldEqual, "2 teams")
	})
}

func TestActivitiesTable(t *testing.T) {
	Convey("Given activities with embedded users, bare users and extended dates", t, func() {
		acts := mustNormalize(`[
			{"user":{"_id":"u1","username":"ironman"},"activity_type":"Running","duration":30,"date":{"$date":"2024-03-05T10:00:00Z"}},
			{"user":"u2","type":"Cycling","date":"2024-01-02"},
			{"name":"Walk-in"}
		]`)
		table := Activities(acts)

		So(table.Rows[0], ShouldResemble, []string{"ironman", "Running", "30", "Mar 5, 2024"})
		So(table.Rows[1], ShouldResemble, []string{"u2", "Cycling", NA, "Jan 2, 2024"})
		So(table.Rows[2], ShouldResemble, []string{"Walk-in", NA, NA, NA})
		So(table.Count(), ShouldEqual, "3 records")
	})
}

func TestLeaderboardTable(t *testing.T) {
	Convey("Given leaderboard entries with missing ranks and calories", t, func() {
		entries := mustNormalize(`[
			{"rank":1,"user_name":"Thor","team":"Team Marvel","total_calories":900,"total_activities":5,"total_distance":12.5},
			{"user":{"name":"Diana"},"score":0},
			{"user":"u9"}
		]`)
		table := Leaderboard(entries)

		So(table.Rows[0], ShouldResemble, []string{"1", "Thor", "Team Marvel", "900", "5", "12.5"})
		So(table.Rows[1], ShouldResemble, []string{"2", "Diana", NA, "0", NA, NA})
		So(table.Rows[2], ShouldResemble, []string{"3", "u9", NA, "0", NA, NA})
		So(table.Count(), ShouldEqual, "3 competitors")
	})
}

func TestWorkoutsTable(t *testing.T) {
	Convey("Given workouts with lists and fallbacks", t, func() {
		ws := mustNormalize(`{"results":[
			{"title":"Hero HIIT","description":"Burst","difficulty":"Hard","duration":20,"exercises":["Burpees","Sprints"],"recommended_for":["Team Marvel"]},
			{"name":"Stretch"}
		]}`)
		table := Workouts(ws)

		So(table.Rows[0], ShouldResemble, []string{"Hero HIIT", "Burst", "Hard", "20 min", "Burpees; Sprints", "Team Marvel"})
		So(table.Rows[1], ShouldResemble, []string{"Stretch", NA, NA, NA, NA, NA})
		So(Collection(client.Workouts, ws).Title, ShouldEqual, "Workouts")
	})
}

func TestTableWrite(t *testing.T) {
	Convey("Given an empty table", t, func() {
		var buf bytes.Buffer
		So(Teams(record.Collection{}).Write(&buf), ShouldBeNil)
		So(buf.String(), ShouldEqual, "Teams (0 teams)\nNo teams found.\n")
	})

	Convey("Given a single row table", t, func() {
		var buf bytes.Buffer
		table := Table{Title: "Teams", Noun: "team", Headers: []string{"Team", "Count"}, Rows: [][]string{{"Blue", "1"}}}
		So(table.Write(&buf), ShouldBeNil)
		So(buf.String(), ShouldStartWith, "Teams (1 team)\n")
		So(buf.String(), ShouldContainSubstring, "Blue")
	})
}

func TestFilter(t *testing.T) {
	Convey("Given a users table", t, func() {
		table := Users(screen.NewUsersView(mustNormalize(`[
			{"_id":"u1","name":"Tony Stark"},
			{"_id":"u2","name":"Bruce Wayne"}
		]`), nil))

		So(table.Filter("").Rows, ShouldHaveLength, 2)
		So(table.Filter("wayne").Rows, ShouldResemble, [][]string{{"Bruce Wayne", NA, NA, NA, NA}})
		So(table.Filter("zzz").Rows, ShouldBeEmpty)
	})
}

func TestFormatDate(t *testing.T) {
	Convey("Dates render in one layout whatever their wire form", t, func() {
		So(FormatDate("2024-03-05T10:00:00Z"), ShouldEqual, "Mar 5, 2024")
		So(FormatDate(map[string]any{"$date": "2024-03-05T10:00:00.000Z"}), ShouldEqual, "Mar 5, 2024")
		So(FormatDate(float64(0)), ShouldEqual, NA)
		So(FormatDate(nil), ShouldEqual, NA)
		So(FormatDate("yesterday"), ShouldEqual, "yesterday")
	})
}

func TestWriteState(t *testing.T) {
	Convey("Given view states of a collection screen", t, func() {
		var buf bytes.Buffer

		Convey("Loading prints the loading line", func() {
			So(WriteCollection(&buf, client.Teams, viewstate.State[record.Collection]{Phase: viewstate.Loading}, ""), ShouldBeNil)
			So(buf.String(), ShouldEqual, "Loading teams…\n")
		})

		Convey("Errored prints the message", func() {
			s := viewstate.State[record.Collection]{Phase: viewstate.Errored, Message: "HTTP error: status 503"}
			So(WriteCollection(&buf, client.Teams, s, ""), ShouldBeNil)
			So(buf.String(), ShouldEqual, "Error: HTTP error: status 503\n")
		})

		Convey("Loaded users print the table", func() {
			view := screen.NewUsersView(mustNormalize(`[{"_id":"u1","name":"Tony"}]`), nil)
			So(WriteUsers(&buf, viewstate.State[screen.UsersView]{Phase: viewstate.Loaded, Data: view}, ""), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "Users (1 user)\n")
		})
	})
}

func TestWriteEdit(t *testing.T) {
	Convey("Given an open draft with a team", t, func() {
		teams := record.Teams(mustNormalize(`[{"_id":"t1","team_id":1,"name":"Team Marvel"},{"_id":"t2","team_id":2,"name":"Team DC"}]`))
		st := screen.EditStatus{Open: true, Draft: edit.Draft{UserID: "u1", Name: "Tony", TeamID: "2"}, Success: true}
		var buf bytes.Buffer

		So(WriteEdit(&buf, st, teams), ShouldBeNil)
		out := buf.String()
		So(out, ShouldContainSubstring, "Edit user u1")
		So(out, ShouldContainSubstring, "* Team DC")
		So(out, ShouldContainSubstring, "  Team Marvel")
		So(out, ShouldContainSubstring, "User updated successfully!")
	})

	Convey("A closed edit view prints nothing", t, func() {
		var buf bytes.Buffer
		So(WriteEdit(&buf, screen.EditStatus{}, nil), ShouldBeNil)
		So(buf.Len(), ShouldEqual, 0)
	})
}
