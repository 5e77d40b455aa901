package fdp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/fdp"
	"github.com/c360studio/fdpharvest/rdfgraph"
	vocab "github.com/c360studio/fdpharvest/vocabulary/fdp"
)

func TestClientGetGraph(t *testing.T) {
	srv := newFDPServer(t, map[string]string{
		"/dataset/1": prefixes + `<{{base}}/dataset/1> a dcat:Dataset ; dct:title "One" .`,
		"/broken":    "this is <not turtle",
		"/person.json": `{"displayName": "Josiah Carberry"}`,
	})
	client := fdp.NewClient(5 * time.Second)
	ctx := context.Background()

	t.Run("parses turtle", func(t *testing.T) {
		g := client.GetGraph(ctx, srv.URL+"/dataset/1")
		assert.Equal(t, 2, g.Len())
		assert.True(t, g.Has(rdfgraph.IRI(srv.URL+"/dataset/1"), rdfgraph.IRI(vocab.RDFType), rdfgraph.IRI(vocab.ClassDataset)))
		assert.Equal(t, "text/turtle", srv.accept("/dataset/1"))
	})

	t.Run("http error yields empty graph", func(t *testing.T) {
		g := client.GetGraph(ctx, srv.URL+"/missing")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("parse error yields empty graph", func(t *testing.T) {
		g := client.GetGraph(ctx, srv.URL+"/broken")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("connection error yields empty graph", func(t *testing.T) {
		g := client.GetGraph(ctx, "http://127.0.0.1:1/unreachable")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("get json", func(t *testing.T) {
		var v struct {
			DisplayName string `json:"displayName"`
		}
		require.NoError(t, client.GetJSON(ctx, srv.URL+"/person.json", &v))
		assert.Equal(t, "Josiah Carberry", v.DisplayName)
	})
}

func TestClientAcceptOverride(t *testing.T) {
	srv := newFDPServer(t, map[string]string{"/term": prefixes})
	client := fdp.NewClient(time.Second, fdp.WithAccept(rdfgraph.AcceptAny))

	client.GetGraph(context.Background(), srv.URL+"/term")
	assert.Equal(t, rdfgraph.AcceptAny, srv.accept("/term"))
}

func TestClientMaxContentSize(t *testing.T) {
	srv := newFDPServer(t, map[string]string{
		"/big": prefixes + `<{{base}}/big> dct:title "a long enough title" .`,
	})
	client := fdp.NewClient(time.Second, fdp.WithMaxContentSize(16))

	_, err := client.Fetch(context.Background(), srv.URL+"/big", "text/turtle", nil)
	assert.ErrorContains(t, err, "content too large")
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		code      int
		temporary bool
	}{
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		err := &fdp.StatusError{URL: "http://x", Code: tt.code}
		assert.Equal(t, tt.temporary, err.Temporary(), "code %d", tt.code)
	}
}

func TestClientGetGraphResolvesRemoteContext(t *testing.T) {
	userAgents := make(chan string, 1)
	contexts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/ld+json")
		_, _ = w.Write([]byte(`{"@context": {"title": "http://purl.org/dc/terms/title"}}`))
	}))
	t.Cleanup(contexts.Close)

	srv := newFDPServer(t, map[string]string{
		"/dataset.json": `{"@context": "` + contexts.URL + `/context.jsonld", "@id": "{{base}}/dataset.json", "title": "One"}`,
	})
	client := fdp.NewClient(5*time.Second, fdp.WithUserAgent("fdpharvest-test"))

	g := client.GetGraph(context.Background(), srv.URL+"/dataset.json")
	assert.True(t, g.Has(rdfgraph.IRI(srv.URL+"/dataset.json"), rdfgraph.IRI(vocab.DCTTitle), rdfgraph.Literal("One")))
	assert.Equal(t, "fdpharvest-test", <-userAgents)

	// The context is cached by the client.
	client.GetGraph(context.Background(), srv.URL+"/dataset.json")
	assert.Len(t, userAgents, 0)
}

func TestClientGetGraphBoundsHangingContext(t *testing.T) {
	release := make(chan struct{})
	contexts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(contexts.Close)
	// Runs before contexts.Close so the server can drain.
	t.Cleanup(func() { close(release) })

	srv := newFDPServer(t, map[string]string{
		"/dataset.json": `{"@context": "` + contexts.URL + `/slow.jsonld", "@id": "{{base}}/dataset.json", "title": "One"}`,
	})
	client := fdp.NewClient(500 * time.Millisecond)

	done := make(chan *rdfgraph.Graph, 1)
	go func() { done <- client.GetGraph(context.Background(), srv.URL+"/dataset.json") }()

	select {
	case g := <-done:
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("GetGraph did not return while the context server hangs")
	}
}
