package sandbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/okian/octofit/internal/adapters/repository"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/pkg/logger"
)

const maxPatchBytes = 1 << 20

// patchableUserFields are the user fields a PATCH may set directly.
var patchableUserFields = []string{"name", "username", "email", "age"} //nolint:gochecknoglobals // immutable

type userResponse struct {
	ID       string `json:"_id"`
	Name     any    `json:"name"`
	Username any    `json:"username"`
	Email    any    `json:"email"`
	Age      any    `json:"age"`
	TeamID   any    `json:"team_id"`
	Team     any    `json:"team"`
}

// handlePatchUser updates user fields and moves team membership. A present
// team_id removes the user from every team first, then adds it to the team
// whose team_id equals the integer value given; null or a non-integer
// leaves the user without a team.
func (s *Server) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	const op = "sandbox.patch_user"
	id := chi.URLParam(r, "id")

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBytes))
	if err != nil {
		s.fail(w, r, op, fmt.Errorf("%w: read body: %w", ErrBadRequest, err))
		return
	}
	var body map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		s.fail(w, r, op, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}

	var resp userResponse
	var conflict map[string][]string
	err = s.store.Update(r.Context(), func(tx *repository.Tx) error {
		user, err := tx.Get(repository.Users, id)
		if err != nil {
			return err
		}

		fields := record.Record{}
		for _, f := range patchableUserFields {
			v, present := body[f]
			if !present {
				continue
			}
			if f == "age" {
				if n, ok := coerceInt(v); ok {
					v = n
				} else {
					v = nil
				}
			}
			fields[f] = v
		}

		if email, ok := fields.String("email"); ok {
			if _, taken := tx.Find(repository.Users, func(u record.Record) bool {
				uid, _ := u.ID()
				other, _ := u.String("email")
				return uid != id && strings.EqualFold(other, email)
			}); taken {
				conflict = map[string][]string{"email": {"user with this email already exists."}}
				return ErrEmailTaken
			}
		}

		if len(fields) > 0 {
			updated, err := mergeFields(user, fields)
			if err != nil {
				return err
			}
			if err := tx.Replace(repository.Users, updated); err != nil {
				return err
			}
			user = updated
		}

		if v, present := body[record.FieldTeamID]; present {
			if err := moveUser(tx, id, v); err != nil {
				return err
			}
		}

		resp = userResponse{
			ID:       id,
			Name:     valueOr(user, "name", ""),
			Username: valueOr(user, "username", ""),
			Email:    valueOr(user, "email", ""),
			Age:      user["age"],
		}
		if team, ok := tx.Find(repository.Teams, func(t record.Record) bool {
			for _, m := range t.Refs(record.FieldMembers) {
				if m.Matches(id) {
					return true
				}
			}
			return false
		}); ok {
			resp.TeamID = team[record.FieldTeamID]
			resp.Team = team[record.FieldName]
		}
		return nil
	})
	if conflict != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, conflict)
		return
	}
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.log.Info(r.Context(), "user updated", logger.String("user_id", id), logger.Any("team_id", resp.TeamID))
	render.JSON(w, r, resp)
}

// mergeFields applies fields to user as a JSON merge patch. A null value
// removes the field.
func mergeFields(user, fields record.Record) (record.Record, error) {
	doc, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("merge user fields: %w", err)
	}
	return record.Decode(merged)
}

func moveUser(tx *repository.Tx, userID string, teamID any) error {
	if _, err := tx.UpdateEach(repository.Teams, func(t record.Record) bool {
		refs := t.Refs(record.FieldMembers)
		kept := make([]any, 0, len(refs))
		for _, m := range refs {
			if !m.Matches(userID) {
				kept = append(kept, m.ID())
			}
		}
		if len(kept) == len(refs) {
			return false
		}
		t[record.FieldMembers] = kept
		return true
	}); err != nil {
		return err
	}

	n, ok := coerceInt(teamID)
	if !ok {
		return nil
	}
	_, err := tx.UpdateEach(repository.Teams, func(t record.Record) bool {
		if tid, ok := t.Number(record.FieldTeamID); !ok || tid != float64(n) {
			return false
		}
		members, _ := t[record.FieldMembers].([]any)
		for _, m := range t.Refs(record.FieldMembers) {
			if m.Matches(userID) {
				return false
			}
		}
		t[record.FieldMembers] = append(members, userID)
		return true
	})
	return err
}

// coerceInt accepts integers, integral floats and their string forms.
func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			return int(f), true
		}
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}
