package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/edit"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

// OpenEdit starts editing the user with id. The draft is a copy of the user
// as displayed plus the choice value of its derived team.
func (u *Users) OpenEdit(userID string) (edit.Draft, error) {
	state := u.state.State()

	u.mu.Lock()
	if u.lifetime.Err() != nil {
		u.mu.Unlock()
		return edit.Draft{}, ErrClosed
	}
	if u.saving {
		u.mu.Unlock()
		return edit.Draft{}, ErrSaveInProgress
	}
	if !state.IsLoaded() {
		u.mu.Unlock()
		return edit.Draft{}, ErrNotLoaded
	}
	user, ok := state.Data.Users.Find(userID)
	if !ok {
		u.mu.Unlock()
		return edit.Draft{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	team, hasTeam := state.Data.TeamOf(user)
	d, err := edit.NewDraft(user, team, hasTeam)
	if err != nil {
		u.mu.Unlock()
		return edit.Draft{}, err
	}

	u.stopCloseTimer()
	u.gen++
	u.slot = &draftSlot{gen: u.gen, draft: d, original: user.Clone(), openedTeam: d.TeamID}
	u.status = EditStatus{Open: true, Draft: d}
	u.mu.Unlock()

	u.notify()
	return d, nil
}

// UpdateDraft applies fn to the draft. The user id cannot be changed. An
// edit after a successful save keeps the draft open.
func (u *Users) UpdateDraft(fn func(*edit.Draft)) (edit.Draft, error) {
	u.mu.Lock()
	if u.slot == nil {
		u.mu.Unlock()
		return edit.Draft{}, ErrNoDraft
	}
	if u.saving {
		u.mu.Unlock()
		return edit.Draft{}, ErrSaveInProgress
	}
	u.stopCloseTimer()
	d := u.slot.draft
	fn(&d)
	d.UserID = u.slot.draft.UserID
	u.slot.draft = d
	u.status.Draft = d
	u.status.Success = false
	u.mu.Unlock()

	u.notify()
	return d, nil
}

// CancelEdit discards the draft. It is refused while a save is in flight.
func (u *Users) CancelEdit() error {
	u.mu.Lock()
	if u.saving {
		u.mu.Unlock()
		return ErrSaveInProgress
	}
	u.stopCloseTimer()
	u.slot = nil
	u.status = EditStatus{}
	u.mu.Unlock()

	u.notify()
	return nil
}

// Save runs the edit transaction: validate, PATCH the user, re-fetch users,
// re-fetch teams. Each step starts only after the previous one succeeded.
// On failure the draft stays open as typed and the error is shown in the
// edit view; on success the draft closes after the close delay.
func (u *Users) Save(ctx context.Context) error {
	u.mu.Lock()
	switch {
	case u.lifetime.Err() != nil:
		u.mu.Unlock()
		return ErrClosed
	case u.slot == nil:
		u.mu.Unlock()
		return ErrNoDraft
	case u.saving:
		u.mu.Unlock()
		return ErrSaveInProgress
	}
	u.stopCloseTimer()
	u.saving = true
	u.status.Saving = true
	u.status.Success = false
	u.status.Err = ""
	slot := *u.slot
	ctx, cancel := joinContext(ctx, u.lifetime)
	u.wg.Add(1)
	u.mu.Unlock()
	defer u.wg.Done()
	defer cancel()

	u.notify()

	start := time.Now()
	err := u.save(ctx, slot)
	metrics.RecordSaveLatency(float64(time.Since(start).Milliseconds()))

	u.mu.Lock()
	u.saving = false
	u.status.Saving = false
	if err != nil {
		u.status.Err = message(err)
	} else {
		u.status.Success = true
		if u.lifetime.Err() == nil {
			gen := slot.gen
			u.closeTimer = time.AfterFunc(u.closeDelay, func() { u.closeDraft(gen) })
		}
	}
	u.mu.Unlock()

	u.notify()
	return err
}

func (u *Users) save(ctx context.Context, slot draftSlot) error {
	log := u.log.With(logger.String("user_id", slot.draft.UserID))
	fail := func(step Step, err error) error {
		metrics.RecordSave(metrics.OutcomeFailure)
		metrics.RecordSaveFailure(string(step))
		log.Warn(ctx, "save failed", logger.String("step", string(step)), logger.Error(err))
		return &SaveError{Step: step, Err: err}
	}

	if err := slot.draft.Validate(); err != nil {
		return fail(StepValidate, err)
	}
	if changes, err := edit.Changes(slot.original, slot.openedTeam, slot.draft); err == nil {
		log.Debug(ctx, "saving user", logger.Any("changes", changes))
	}

	if _, err := u.client.Patch(ctx, u.endpoints.User(slot.draft.UserID), slot.draft.Body()); err != nil {
		return fail(StepPatch, err)
	}

	users, err := u.client.Fetch(ctx, u.endpoints.Collection(client.Users))
	if err != nil {
		return fail(StepRefreshUsers, err)
	}
	u.state.Update(func(v UsersView) UsersView {
		return UsersView{Users: users, Teams: v.Teams}
	})

	teams, err := u.client.Fetch(ctx, u.endpoints.Collection(client.Teams))
	if err != nil {
		return fail(StepRefreshTeams, err)
	}
	u.state.Update(func(v UsersView) UsersView {
		return NewUsersView(v.Users, teams)
	})

	metrics.RecordSave(metrics.OutcomeSuccess)
	log.Info(ctx, "user saved")
	return nil
}

// closeDraft closes the draft opened as generation gen, unless another
// draft replaced it or a new save started.
func (u *Users) closeDraft(gen uint64) {
	u.mu.Lock()
	if u.lifetime.Err() != nil || u.slot == nil || u.slot.gen != gen || u.saving {
		u.mu.Unlock()
		return
	}
	u.slot = nil
	u.closeTimer = nil
	u.status = EditStatus{}
	u.mu.Unlock()

	u.notify()
}

// stopCloseTimer requires u.mu.
func (u *Users) stopCloseTimer() {
	if u.closeTimer != nil {
		u.closeTimer.Stop()
		u.closeTimer = nil
	}
}
