package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/okian/octofit/internal/adapters/repository"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/pkg/logger"
)

// hiddenUserFields never leave the sandbox.
var hiddenUserFields = []string{"password"} //nolint:gochecknoglobals // immutable

type envelope struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []record.Record `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	base := "http://" + r.Host + "/api/"
	render.JSON(w, r, map[string]string{
		repository.Users:       base + "users/",
		repository.Teams:       base + "teams/",
		repository.Activities:  base + "activities/",
		repository.Leaderboard: base + "leaderboard/",
		repository.Workouts:    base + "workouts/",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.list_users"
	users, err := s.store.List(r.Context(), repository.Users)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	for _, u := range users {
		publicUser(u)
	}
	s.writeList(w, r, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.get_user"
	var user record.Record
	err := s.store.View(r.Context(), func(tx *repository.Tx) error {
		var err error
		user, err = tx.Get(repository.Users, chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	render.JSON(w, r, publicUser(user))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.list_teams"
	var teams []record.Record
	err := s.store.View(r.Context(), func(tx *repository.Tx) error {
		teams = tx.List(repository.Teams)
		if !s.embedMembers {
			return nil
		}
		for _, t := range teams {
			refs := t.Refs(record.FieldMembers)
			members := make([]any, 0, len(refs))
			for _, m := range refs {
				if u, err := tx.Get(repository.Users, m.ID()); err == nil {
					members = append(members, map[string]any(publicUser(u)))
				}
			}
			t[record.FieldMembers] = members
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.writeList(w, r, teams)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.list_activities"
	var activities []record.Record
	err := s.store.View(r.Context(), func(tx *repository.Tx) error {
		activities = tx.List(repository.Activities)
		for _, a := range activities {
			uid, _ := a.String("user_id")
			a["user"] = uid
			if !s.embedMembers {
				continue
			}
			if u, err := tx.Get(repository.Users, uid); err == nil {
				a["user"] = map[string]any(publicUser(u))
			}
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.writeList(w, r, activities)
}

// handleListLeaderboard resolves team names and orders by rank.
func (s *Server) handleListLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.list_leaderboard"
	var entries []record.Record
	err := s.store.View(r.Context(), func(tx *repository.Tx) error {
		names := map[string]string{}
		for _, t := range tx.List(repository.Teams) {
			if id, ok := t.String(record.FieldTeamID); ok {
				names[id], _ = t.String(record.FieldName)
			}
		}
		docs := tx.List(repository.Leaderboard)
		sort.SliceStable(docs, func(i, j int) bool {
			a, _ := docs[i].Number("rank")
			b, _ := docs[j].Number("rank")
			return a < b
		})
		for _, d := range docs {
			entry := record.Record{record.FieldID: d[record.FieldID]}
			entry["user_name"] = valueOr(d, "user_name", "N/A")
			teamID, hasTeam := d.String(record.FieldTeamID)
			switch name, known := names[teamID]; {
			case known:
				entry["team"] = name
			case hasTeam:
				entry["team"] = fmt.Sprintf("Team %s", teamID)
			default:
				entry["team"] = "N/A"
			}
			for _, f := range []string{"total_calories", "total_activities", "total_distance", "total_duration", "rank"} {
				entry[f] = valueOr(d, f, 0)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.writeList(w, r, entries)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.list_workouts"
	docs, err := s.store.List(r.Context(), repository.Workouts)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	workouts := make([]record.Record, 0, len(docs))
	for _, d := range docs {
		title, ok := d.First("title", "name")
		if !ok {
			title = "N/A"
		}
		workouts = append(workouts, record.Record{
			record.FieldID:    d[record.FieldID],
			"title":           title,
			"description":     valueOr(d, "description", ""),
			"difficulty":      valueOr(d, "difficulty", "N/A"),
			"duration":        valueOr(d, "duration", 0),
			"exercises":       valueOr(d, "exercises", []any{}),
			"recommended_for": valueOr(d, "recommended_for", []any{}),
		})
	}
	s.writeList(w, r, workouts)
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, items []record.Record) {
	if items == nil {
		items = []record.Record{}
	}
	if s.envelope {
		render.JSON(w, r, envelope{Count: len(items), Results: items})
		return
	}
	render.JSON(w, r, items)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrUserNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, ErrBadRequest):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled):
		return
	}
	if status >= http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func publicUser(u record.Record) record.Record {
	for _, f := range hiddenUserFields {
		delete(u, f)
	}
	return u
}

func valueOr(r record.Record, field string, fallback any) any {
	if v, ok := r.Value(field); ok {
		return v
	}
	return fallback
}
