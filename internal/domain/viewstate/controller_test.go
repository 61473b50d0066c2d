package viewstate

import (
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu     sync.Mutex
	phases []Phase
}

func (r *recorder) observe(s State[[]string]) {
	r.mu.Lock()
	r.phases = append(r.phases, s.Phase)
	r.mu.Unlock()
}

func (r *recorder) seen() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Phase(nil), r.phases...)
}

func TestController(t *testing.T) {
	convey.Convey("Given a new controller", t, func() {
		c := NewController[[]string]("teams")
		rec := &recorder{}
		c.Observe(rec.observe)

		convey.Convey("It starts loading", func() {
			convey.So(c.State().IsLoading(), convey.ShouldBeTrue)
			convey.So(c.Name(), convey.ShouldEqual, "teams")
		})

		convey.Convey("A fetch result moves it to Loaded", func() {
			tk := c.Begin()
			convey.So(c.Resolve(tk, []string{"a"}), convey.ShouldBeTrue)
			s := c.State()
			convey.So(s.IsLoaded(), convey.ShouldBeTrue)
			convey.So(s.Data, convey.ShouldResemble, []string{"a"})
			convey.So(rec.seen(), convey.ShouldResemble, []Phase{Loading, Loaded})
		})

		convey.Convey("A failure moves it to Errored with the message", func() {
			tk := c.Begin()
			convey.So(c.Fail(tk, "HTTP error: status 500"), convey.ShouldBeTrue)
			s := c.State()
			convey.So(s.IsErrored(), convey.ShouldBeTrue)
			convey.So(s.Message, convey.ShouldEqual, "HTTP error: status 500")
		})

		convey.Convey("Stale tickets are ignored", func() {
			old := c.Begin()
			fresh := c.Begin()
			convey.So(c.Resolve(old, []string{"old"}), convey.ShouldBeFalse)
			convey.So(c.State().IsLoading(), convey.ShouldBeTrue)
			convey.So(c.Resolve(fresh, []string{"new"}), convey.ShouldBeTrue)
			convey.So(c.State().Data, convey.ShouldResemble, []string{"new"})
		})

		convey.Convey("Update refreshes Loaded data without a Loading step", func() {
			tk := c.Begin()
			c.Resolve(tk, []string{"a"})
			ok := c.Update(func(d []string) []string { return append(d, "b") })
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(c.State().Data, convey.ShouldResemble, []string{"a", "b"})
			convey.So(rec.seen(), convey.ShouldResemble, []Phase{Loading, Loaded, Loaded})
		})

		convey.Convey("Update is a no-op unless Loaded", func() {
			convey.So(c.Update(func(d []string) []string { return d }), convey.ShouldBeFalse)
			tk := c.Begin()
			c.Fail(tk, "boom")
			convey.So(c.Update(func(d []string) []string { return d }), convey.ShouldBeFalse)
			convey.So(c.State().IsErrored(), convey.ShouldBeTrue)
		})

		convey.Convey("After Close every delivery is a no-op", func() {
			tk := c.Begin()
			c.Close()
			convey.So(c.Closed(), convey.ShouldBeTrue)
			convey.So(c.Resolve(tk, []string{"late"}), convey.ShouldBeFalse)
			convey.So(c.Fail(tk, "late"), convey.ShouldBeFalse)
			c.Begin()
			convey.So(c.State().IsLoading(), convey.ShouldBeTrue)
			convey.So(rec.seen(), convey.ShouldResemble, []Phase{Loading})
		})
	})
}

func TestPhaseString(t *testing.T) {
	convey.Convey("Phases have stable names", t, func() {
		convey.So(Loading.String(), convey.ShouldEqual, "loading")
		convey.So(Loaded.String(), convey.ShouldEqual, "loaded")
		convey.So(Errored.String(), convey.ShouldEqual, "errored")
		convey.So(Phase(9).String(), convey.ShouldEqual, "unknown")
	})
}
