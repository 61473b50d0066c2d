package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/octofit/internal/domain/record"
)

func TestStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		n := 0
		s := NewStore(ctx, WithMetricsUpdateInterval(0), WithIDGenerator(func() string {
			n++
			return ObjectID(1000 + n)
		}))
		defer func() { _ = s.Close() }()

		Convey("Inserted documents get ids and keep insertion order", func() {
			err := s.Update(ctx, func(tx *Tx) error {
				if _, err := tx.Insert(Teams, record.Record{"name": "B"}); err != nil {
					return err
				}
				_, err := tx.Insert(Teams, record.Record{"_id": "x", "name": "A"})
				return err
			})
			So(err, ShouldBeNil)

			docs, err := s.List(ctx, Teams)
			So(err, ShouldBeNil)
			So(len(docs), ShouldEqual, 2)
			So(docs[0]["_id"], ShouldEqual, ObjectID(1001))
			So(docs[1]["name"], ShouldEqual, "A")
			So(s.Count(ctx, Teams), ShouldEqual, 2)
		})

		Convey("Duplicate ids are rejected", func() {
			err := s.Update(ctx, func(tx *Tx) error {
				if _, err := tx.Insert(Users, record.Record{"_id": "u"}); err != nil {
					return err
				}
				_, err := tx.Insert(Users, record.Record{"_id": "u"})
				return err
			})
			So(errors.Is(err, ErrDuplicateID), ShouldBeTrue)
		})

		Convey("Reads never alias stored documents", func() {
			_ = s.Update(ctx, func(tx *Tx) error {
				_, err := tx.Insert(Users, record.Record{"_id": "u", "name": "Tony"})
				return err
			})
			docs, _ := s.List(ctx, Users)
			docs[0]["name"] = "changed"

			var got record.Record
			_ = s.View(ctx, func(tx *Tx) error {
				var err error
				got, err = tx.Get(Users, "u")
				return err
			})
			So(got["name"], ShouldEqual, "Tony")
		})

		Convey("Read-only transactions refuse writes", func() {
			err := s.View(ctx, func(tx *Tx) error {
				_, err := tx.Insert(Users, record.Record{})
				return err
			})
			So(errors.Is(err, ErrReadOnly), ShouldBeTrue)
		})

		Convey("Missing documents report not found", func() {
			err := s.View(ctx, func(tx *Tx) error {
				_, err := tx.Get(Users, "nobody")
				return err
			})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			err = s.Update(ctx, func(tx *Tx) error {
				return tx.Replace(Users, record.Record{"_id": "nobody"})
			})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("UpdateEach stores only changed copies", func() {
			_ = s.Update(ctx, func(tx *Tx) error {
				for _, id := range []string{"a", "b", "c"} {
					if _, err := tx.Insert(Teams, record.Record{"_id": id, "hits": 0}); err != nil {
						return err
					}
				}
				return nil
			})
			var changed int
			err := s.Update(ctx, func(tx *Tx) error {
				var err error
				changed, err = tx.UpdateEach(Teams, func(r record.Record) bool {
					if id, _ := r.ID(); id == "b" {
						r["hits"] = 1
						return true
					}
					return false
				})
				return err
			})
			So(err, ShouldBeNil)
			So(changed, ShouldEqual, 1)
			docs, _ := s.List(ctx, Teams)
			So(docs[1]["hits"], ShouldEqual, 1)
			So(docs[0]["hits"], ShouldEqual, 0)
		})

		Convey("A cancelled context is refused", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.List(cctx, Users)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		s := NewStore(ctx, WithMetricsUpdateInterval(0))
		defer func() { _ = s.Close() }()
		So(Seed(ctx, s, now, 7), ShouldBeNil)

		Convey("Every collection is populated", func() {
			So(s.Count(ctx, Users), ShouldEqual, 10)
			So(s.Count(ctx, Teams), ShouldEqual, 2)
			So(s.Count(ctx, Workouts), ShouldEqual, 6)
			So(s.Count(ctx, Leaderboard), ShouldEqual, 10)
			So(s.Count(ctx, Activities), ShouldBeBetweenOrEqual, 30, 70)
		})

		Convey("Team members reference user ids", func() {
			teams, _ := s.List(ctx, Teams)
			marvel := record.TeamFrom(teams[0])
			So(marvel.Choice, ShouldEqual, "1")
			So(len(marvel.Members), ShouldEqual, 5)
			So(marvel.Members[0].ID(), ShouldEqual, ObjectID(1))
		})

		Convey("Leaderboard ranks follow calories", func() {
			board, _ := s.List(ctx, Leaderboard)
			So(board[0]["rank"], ShouldEqual, 1)
			for i := 1; i < len(board); i++ {
				prev, _ := board[i-1].Number("total_calories")
				cur, _ := board[i].Number("total_calories")
				So(prev, ShouldBeGreaterThanOrEqualTo, cur)
			}
		})

		Convey("The same seed reproduces the same data", func() {
			other := NewStore(ctx, WithMetricsUpdateInterval(0))
			defer func() { _ = other.Close() }()
			So(Seed(ctx, other, now, 7), ShouldBeNil)
			a, _ := s.List(ctx, Activities)
			b, _ := other.List(ctx, Activities)
			So(b, ShouldResemble, a)
		})
	})
}

func TestAssignRanksWithTies(t *testing.T) {
	Convey("Equal totals share a rank", t, func() {
		entries := []leaderboardEntry{{userName: "b", calories: 10}, {userName: "a", calories: 10}, {userName: "c", calories: 5}}
		sortEntries(entries)
		assignRanksWithTies(entries)
		So(entries[0].userName, ShouldEqual, "a")
		So(entries[0].rank, ShouldEqual, 1)
		So(entries[1].rank, ShouldEqual, 1)
		So(entries[2].rank, ShouldEqual, 2)
	})
}

func TestMetricsUpdater(t *testing.T) {
	Convey("The updater stops on Close", t, func() {
		s := NewStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		So(s.Close(), ShouldBeNil)
		So(s.Close(), ShouldBeNil)
	})
}
