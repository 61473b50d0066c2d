package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/okian/octofit/internal/domain/record"
)

type hero struct {
	name     string
	username string
	email    string
	age      int
	team     int
}

var heroes = []hero{ //nolint:gochecknoglobals // immutable seed data
	{"Iron Man", "ironman", "tony.stark@marvel.com", 48, 1},
	{"Captain America", "cap", "steve.rogers@marvel.com", 105, 1},
	{"Thor", "thor", "thor.odinson@marvel.com", 120, 1},
	{"Black Widow", "widow", "natasha.romanoff@marvel.com", 35, 1},
	{"Hulk", "hulk", "bruce.banner@marvel.com", 49, 1},
	{"Batman", "batman", "bruce.wayne@dc.com", 42, 2},
	{"Superman", "superman", "clark.kent@dc.com", 35, 2},
	{"Wonder Woman", "wonderwoman", "diana.prince@dc.com", 110, 2},
	{"Flash", "flash", "barry.allen@dc.com", 28, 2},
	{"Aquaman", "aquaman", "arthur.curry@dc.com", 40, 2},
}

var teamSeeds = []struct { //nolint:gochecknoglobals // immutable seed data
	id          int
	name        string
	description string
}{
	{1, "Team Marvel", "Earth's Mightiest Heroes"},
	{2, "Team DC", "Justice League"},
}

var activityTypes = []string{"Running", "Cycling", "Swimming", "Weightlifting", "Yoga", "Boxing"} //nolint:gochecknoglobals // immutable seed data

var workoutSeeds = []record.Record{ //nolint:gochecknoglobals // immutable seed data
	{
		"title": "Super Soldier Strength Training", "description": "Build strength like Captain America",
		"difficulty": "Advanced", "duration": 60,
		"exercises":       []any{"Push-ups: 4 sets of 25", "Pull-ups: 4 sets of 15", "Squats: 4 sets of 30", "Bench Press: 4 sets of 12", "Deadlifts: 4 sets of 10"},
		"recommended_for": []any{"strength", "muscle building"},
	},
	{
		"title": "Speedster Cardio Blast", "description": "Run fast like The Flash",
		"difficulty": "Intermediate", "duration": 45,
		"exercises":       []any{"Sprint intervals: 10x100m", "Jumping jacks: 3 sets of 50", "Burpees: 3 sets of 20", "Mountain climbers: 3 sets of 30", "Cool down jog: 10 minutes"},
		"recommended_for": []any{"cardio", "speed", "endurance"},
	},
	{
		"title": "Warrior Princess Workout", "description": "Train like Wonder Woman",
		"difficulty": "Advanced", "duration": 75,
		"exercises":       []any{"Sword swings: 3 sets of 20", "Shield raises: 3 sets of 25", "Lunges: 4 sets of 15 per leg", "Planks: 4 sets of 90 seconds", "Battle rope: 3 sets of 45 seconds"},
		"recommended_for": []any{"strength", "endurance", "agility"},
	},
	{
		"title": "Zen Master Flexibility", "description": "Find your inner peace with yoga",
		"difficulty": "Beginner", "duration": 30,
		"exercises":       []any{"Sun salutations: 5 rounds", "Warrior poses: hold each for 1 minute", "Tree pose: 1 minute per side", "Child's pose: 3 minutes", "Meditation: 5 minutes"},
		"recommended_for": []any{"flexibility", "balance", "mindfulness"},
	},
	{
		"title": "Aquatic Endurance Training", "description": "Train like the King of Atlantis",
		"difficulty": "Intermediate", "duration": 60,
		"exercises":       []any{"Swimming laps: 20 lengths", "Underwater sprints: 5 sets", "Water treading: 10 minutes", "Pool-edge push-ups: 3 sets of 15", "Water resistance training: 20 minutes"},
		"recommended_for": []any{"swimming", "endurance", "full body"},
	},
	{
		"title": "Dark Knight HIIT", "description": "High intensity training for vigilant heroes",
		"difficulty": "Advanced", "duration": 40,
		"exercises":       []any{"Box jumps: 4 sets of 20", "Kettlebell swings: 4 sets of 25", "Medicine ball slams: 4 sets of 15", "Battle ropes: 4 sets of 45 seconds", "Tire flips: 3 sets of 10"},
		"recommended_for": []any{"HIIT", "strength", "power"},
	},
}

// ObjectID formats n like a Mongo object id so seeded ids look like the
// real upstream's.
func ObjectID(n int) string {
	return fmt.Sprintf("65a1f0c2e4b0%012x", n)
}

// MongoDate wraps t in the extended JSON date shape.
func MongoDate(t time.Time) map[string]any {
	return map[string]any{"$date": t.UTC().Format(time.RFC3339)}
}

// Seed replaces every collection with the superhero data set. The same seed
// value always produces the same documents.
func Seed(ctx context.Context, s *Store, now time.Time, seed uint64) error {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	next := 0
	nextID := func() string {
		next++
		return ObjectID(next)
	}

	users := make([]record.Record, 0, len(heroes))
	members := map[int][]any{}
	for _, h := range heroes {
		id := nextID()
		users = append(users, record.Record{
			record.FieldID: id,
			"name":         h.name,
			"username":     h.username,
			"email":        h.email,
			"age":          h.age,
			"created_at":   MongoDate(now),
		})
		members[h.team] = append(members[h.team], id)
	}

	teams := make([]record.Record, 0, len(teamSeeds))
	for _, t := range teamSeeds {
		teams = append(teams, record.Record{
			record.FieldID: nextID(),
			"team_id":      t.id,
			"name":         t.name,
			"description":  t.description,
			"created_at":   MongoDate(now),
			"members":      members[t.id],
		})
	}

	var activities []record.Record
	entries := make([]leaderboardEntry, 0, len(users))
	for i, u := range users {
		uid, _ := u.ID()
		entry := leaderboardEntry{userID: uid, userName: heroes[i].name, teamID: heroes[i].team}
		for range 3 + rng.IntN(5) {
			a := record.Record{
				record.FieldID:  nextID(),
				"user_id":       uid,
				"activity_type": activityTypes[rng.IntN(len(activityTypes))],
				"duration":      15 + rng.IntN(106),
				"distance":      round2(1 + rng.Float64()*24),
				"calories":      100 + rng.IntN(701),
				"date":          MongoDate(now.AddDate(0, 0, -rng.IntN(31))),
			}
			a["notes"] = "Great " + strings.ToLower(activityTypes[rng.IntN(len(activityTypes))]) + " session"
			activities = append(activities, a)

			entry.activities++
			entry.calories += a["calories"].(int)
			entry.distance += a["distance"].(float64)
			entry.duration += a["duration"].(int)
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	assignRanksWithTies(entries)
	leaderboard := make([]record.Record, 0, len(entries))
	for _, e := range entries {
		leaderboard = append(leaderboard, record.Record{
			record.FieldID:     nextID(),
			"user_id":          e.userID,
			"user_name":        e.userName,
			"team_id":          e.teamID,
			"total_activities": e.activities,
			"total_calories":   e.calories,
			"total_distance":   round2(e.distance),
			"total_duration":   e.duration,
			"rank":             e.rank,
			"last_updated":     MongoDate(now),
		})
	}

	workouts := make([]record.Record, 0, len(workoutSeeds))
	for _, w := range workoutSeeds {
		doc := w.Clone()
		doc[record.FieldID] = nextID()
		doc["created_at"] = MongoDate(now)
		workouts = append(workouts, doc)
	}

	return s.Update(ctx, func(tx *Tx) error {
		for name, docs := range map[string][]record.Record{
			Users: users, Teams: teams, Activities: activities,
			Leaderboard: leaderboard, Workouts: workouts,
		} {
			tx.s.docs[name] = nil
			for _, d := range docs {
				if _, err := tx.Insert(name, d); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

type leaderboardEntry struct {
	userID     string
	userName   string
	teamID     int
	activities int
	calories   int
	distance   float64
	duration   int
	rank       int
}

// sortEntries orders by calories descending, then user name ascending.
func sortEntries(entries []leaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].calories != entries[j].calories {
			return entries[i].calories > entries[j].calories
		}
		return entries[i].userName < entries[j].userName
	})
}

// assignRanksWithTies gives equal calories the same rank; the next distinct
// total takes the following rank.
func assignRanksWithTies(entries []leaderboardEntry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].calories != entries[i-1].calories {
			rank++
		}
		entries[i].rank = rank
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
