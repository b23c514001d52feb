package truth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

// Source loads the raw truth collection.
type Source interface {
	Load(ctx context.Context) ([]Truth, error)
	String() string
}

type document struct {
	Truths []Truth `json:"truths"`
}

// Decode parses a {"truths": [...]} JSON document. Unknown fields are rejected.
func Decode(data []byte) ([]Truth, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if doc.Truths == nil {
		return nil, fmt.Errorf("%w: missing \"truths\" array", ErrDecode)
	}
	return doc.Truths, nil
}

// FileSource reads truths from a JSON file.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading path on every Load.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]Truth, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrSource, err)
	}
	return Decode(data)
}

func (s *FileSource) String() string { return "file:" + s.Path }

// redisGetter is the subset of redis.Cmdable used by RedisSource.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads the same JSON document from a Redis string key.
type RedisSource struct {
	client redisGetter
	key    string
}

// NewRedisSource returns a source reading key from client on every Load.
func NewRedisSource(client redisGetter, key string) *RedisSource {
	return &RedisSource{client: client, key: key}
}

func (s *RedisSource) Load(ctx context.Context) ([]Truth, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: redis key %q does not exist", ErrSource, s.key)
	}
	if err != nil {
		return nil, errors.Join(ErrSource, err)
	}
	return Decode(data)
}

func (s *RedisSource) String() string { return "redis:" + s.key }
