package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/publish"
)

const guid = "dataset=https://fdp.example.org/dataset/d1"

func TestPackageName(t *testing.T) {
	name := publish.PackageName(guid)
	assert.True(t, strings.HasPrefix(name, "fdp-"))
	assert.Len(t, name, len("fdp-")+36)
	assert.Equal(t, name, publish.PackageName(guid))
	assert.NotEqual(t, name, publish.PackageName("dataset=https://fdp.example.org/dataset/d2"))
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink, err := publish.NewDirSink(dir)
	require.NoError(t, err)

	id, err := sink.Publish(context.Background(), guid, profile.Package{"title": "First"})
	require.NoError(t, err)
	assert.Equal(t, publish.PackageName(guid), id)

	_, err = sink.Publish(context.Background(), guid, profile.Package{"title": "Second"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	require.NoError(t, err)
	var msg publish.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, guid, msg.GUID)
	assert.Equal(t, "Second", msg.Package["title"])
	assert.False(t, msg.HarvestedAt.IsZero())
}

func TestDirSinkCancelled(t *testing.T) {
	sink, err := publish.NewDirSink(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sink.Publish(ctx, guid, profile.Package{})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeJetStream struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return &jetstream.PubAck{Stream: "FDP", Sequence: uint64(len(f.subjects))}, nil
}

func TestJetStreamSink(t *testing.T) {
	js := &fakeJetStream{}
	sink := publish.NewJetStreamSink(js, "")

	id, err := sink.Publish(context.Background(), guid, profile.Package{"title": "T"})
	require.NoError(t, err)

	require.Len(t, js.subjects, 1)
	assert.Equal(t, "fdp.package."+id, js.subjects[0])

	var msg publish.Message
	require.NoError(t, json.Unmarshal(js.payloads[0], &msg))
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, "T", msg.Package["title"])
}

func TestJetStreamSinkError(t *testing.T) {
	js := &fakeJetStream{err: errors.New("no responders")}
	sink := publish.NewJetStreamSink(js, "harvest.pkg")

	assert.Equal(t, "harvest.pkg.x", sink.Subject("x"))
	_, err := sink.Publish(context.Background(), guid, profile.Package{})
	assert.ErrorContains(t, err, "no responders")
}
