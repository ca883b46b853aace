package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/couchbase/gocb/v2"
)

type CouchbaseConfig struct {
	ConnStr  string
	Bucket   string
	Username string
	Password string
	TTL      time.Duration
	Timeout  time.Duration
}

// CouchbaseStore keeps each value as a JSON document in the bucket's default
// collection.
type CouchbaseStore struct {
	cluster    *gocb.Cluster
	collection *gocb.Collection
	ttl        time.Duration
	timeout    time.Duration
}

func NewCouchbaseStore(cfg CouchbaseConfig) (*CouchbaseStore, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	cluster, err := gocb.Connect(cfg.ConnStr, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, err
	}

	bucket := cluster.Bucket(cfg.Bucket)
	if err := bucket.WaitUntilReady(5*time.Second, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, err
	}

	return &CouchbaseStore{
		cluster:    cluster,
		collection: bucket.DefaultCollection(),
		ttl:        cfg.TTL,
		timeout:    cfg.Timeout,
	}, nil
}

func (s *CouchbaseStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.collection.Upsert(key, json.RawMessage(data), &gocb.UpsertOptions{
		Expiry:  s.ttl,
		Timeout: s.opTimeout(ctx),
	})
	return err
}

func (s *CouchbaseStore) Load(ctx context.Context, key string) ([]byte, error) {
	res, err := s.collection.Get(key, &gocb.GetOptions{
		Timeout: s.opTimeout(ctx),
	})
	if errors.Is(err, gocb.ErrDocumentNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := res.Content(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *CouchbaseStore) Close() error {
	return s.cluster.Close(nil)
}

// opTimeout shortens the configured timeout to the context deadline, since
// the SDK calls do not take a context.
func (s *CouchbaseStore) opTimeout(ctx context.Context) time.Duration {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
