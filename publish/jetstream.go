package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/fdpharvest/profile"
)

// DefaultSubjectPrefix is prepended to the package name to form the subject.
const DefaultSubjectPrefix = "fdp.package"

// Publisher is the part of jetstream.JetStream the sink uses.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStreamSink publishes packages to a JetStream stream, one subject per
// package. The package name doubles as the message id, so the stream's
// duplicate window drops replays of the same record.
type JetStreamSink struct {
	js     Publisher
	prefix string
}

// NewJetStreamSink creates a sink publishing under prefix. An empty prefix
// means DefaultSubjectPrefix.
func NewJetStreamSink(js Publisher, prefix string) *JetStreamSink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &JetStreamSink{js: js, prefix: prefix}
}

// Subject returns the subject a package with the given name is published on.
func (s *JetStreamSink) Subject(name string) string {
	return s.prefix + "." + name
}

// Publish sends pkg and waits for the stream acknowledgement.
func (s *JetStreamSink) Publish(ctx context.Context, guid string, pkg profile.Package) (string, error) {
	msg := newMessage(guid, pkg)
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal package: %w", err)
	}
	if _, err := s.js.Publish(ctx, s.Subject(msg.ID), data, jetstream.WithMsgID(msg.ID)); err != nil {
		return "", fmt.Errorf("publish package %s: %w", msg.ID, err)
	}
	return msg.ID, nil
}
