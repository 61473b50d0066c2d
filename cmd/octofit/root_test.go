package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/octofit/internal/adapters/http/sandbox"
	"github.com/okian/octofit/internal/adapters/repository"
)

func runCLI(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI(t *testing.T) {
	Convey("Given a seeded sandbox", t, func() {
		ctx := context.Background()
		store := repository.NewStore(ctx, repository.WithMetricsUpdateInterval(0))
		So(repository.Seed(ctx, store, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 3), ShouldBeNil)
		srv := httptest.NewServer(sandbox.New(store).Handler())
		defer srv.Close()

		Convey("The teams command prints the teams table", func() {
			out, err := runCLI("teams", "--base-url", srv.URL)
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "Teams (2 teams)\n")
		})

		Convey("The filter flag applies to every screen", func() {
			out, err := runCLI("users", "--base-url", srv.URL, "--filter", "batman")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "Users (1 user)\n")
			So(out, ShouldContainSubstring, "Team DC")
		})

		Convey("edit-user only sends the flags that were passed", func() {
			out, err := runCLI("edit-user", repository.ObjectID(6), "--base-url", srv.URL, "--team", "")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "User updated successfully!")

			out, err = runCLI("users", "--base-url", srv.URL, "--filter", "batman")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "bruce.wayne@dc.com")
			So(out, ShouldNotContainSubstring, "Team DC")
		})

		Convey("watch rejects unknown screens", func() {
			_, err := runCLI("watch", "friends", "--base-url", srv.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
