package cache

import (
	"context"
	"strings"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// URL schemes accepted by [Open].
const (
	SchemeNone  = "none"
	SchemeFile  = "file://"
	SchemeRedis = "redis://"
	SchemeMongo = "mongodb://"
)

// Open returns the backend named by url:
//
//	""                  file cache in fileDir
//	none                null cache
//	file:///path        file cache at path
//	redis://, rediss:// Redis
//	mongodb://, mongodb+srv://
//	                    MongoDB
func Open(ctx context.Context, url, fileDir string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case url == "":
		c, err = fileCache(fileDir)
	case url == SchemeNone:
		c = NewNullCache()
	case strings.HasPrefix(url, SchemeFile):
		c, err = fileCache(strings.TrimPrefix(url, SchemeFile))
	case strings.HasPrefix(url, SchemeRedis), strings.HasPrefix(url, "rediss://"):
		c, err = redisCache(ctx, url)
	case strings.HasPrefix(url, SchemeMongo), strings.HasPrefix(url, "mongodb+srv://"):
		c, err = mongoCache(ctx, url)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported cache url %q (want none, file://, redis:// or mongodb://)", url)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func fileCache(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func redisCache(ctx context.Context, url string) (Cache, error) {
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func mongoCache(ctx context.Context, url string) (Cache, error) {
	c, err := NewMongoCache(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Describe returns a short backend name for logs.
func Describe(c Cache) string {
	switch c.(type) {
	case *FileCache:
		return "file"
	case *RedisCache:
		return "redis"
	case *MongoCache:
		return "mongo"
	case NullCache:
		return "none"
	}
	return "custom"
}
