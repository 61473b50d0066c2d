package screen

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/record"
)

var testEndpoints = client.NewEndpoints("http://upstream.test")

// fakeClient records calls in order and serves canned collections.
type fakeClient struct {
	mu       sync.Mutex
	calls    []string
	data     map[string]record.Collection
	fetchErr map[string]error
	patchErr error
	gates    map[string]chan struct{}
	onPatch  func(f *fakeClient, endpoint string, body any)
}

func newFakeClient() *fakeClient {
	mustParse := func(body string) record.Collection {
		c, err := record.Normalize([]byte(body))
		if err != nil {
			panic(err)
		}
		return c
	}
	return &fakeClient{
		data: map[string]record.Collection{
			testEndpoints.Collection(client.Users): mustParse(`[
				{"_id":"U1","name":"Tony Stark","username":"ironman","email":"tony@stark.com","age":48},
				{"_id":"U2","name":"Steve Rogers","username":"cap","email":"steve@avengers.org","age":105},
				{"_id":"U9","name":"Loki","username":"loki","email":"loki@asgard.net"}
			]`),
			testEndpoints.Collection(client.Teams): mustParse(`[
				{"_id":"T1","team_id":1,"name":"Marvel","members":["U1",{"_id":"U2","username":"cap"}]},
				{"_id":"T2","team_id":2,"name":"DC","members":[]}
			]`),
			testEndpoints.Collection(client.Workouts): mustParse(`[{"_id":"W1","title":"HIIT"}]`),
		},
		fetchErr: map[string]error{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeClient) Fetch(ctx context.Context, endpoint string) (record.Collection, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "GET "+endpoint)
	gate := f.gates[endpoint]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &client.Error{Kind: client.KindTransport, Message: "transport error: " + ctx.Err().Error(), Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[endpoint]; err != nil {
		return nil, err
	}
	return f.data[endpoint].Clone(), nil
}

func (f *fakeClient) Patch(ctx context.Context, endpoint string, body any) (record.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "PATCH "+endpoint)
	gate := f.gates[endpoint]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	if f.onPatch != nil {
		f.onPatch(f, endpoint, body)
	}
	return record.Record{"_id": "U1"}, nil
}

func (f *fakeClient) gate(endpoint string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[endpoint] = ch
	return ch
}

func (f *fakeClient) setFetchErr(endpoint string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr[endpoint] = err
}

func (f *fakeClient) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeClient) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) countPrefix(prefix string) int {
	n := 0
	for _, c := range f.callLog() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// eventually polls cond until it holds or two seconds pass.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
