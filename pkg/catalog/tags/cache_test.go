package tags

import (
	"context"
	"errors"
	"testing"

	catalogerrors "github.com/diwise/asset-catalog/pkg/catalog/errors"
	"github.com/matryer/is"
)

func TestNameForIDLoadsOnMiss(t *testing.T) {
	is := is.New(t)

	loads := 0
	c, err := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		loads++
		return map[string]string{"a1b2": "PII", "c3d4": "Confidential"}, nil
	}), 0)
	is.NoErr(err)

	ctx := context.Background()

	is.Equal(c.NameForID(ctx, "a1b2"), "PII")
	is.Equal(c.NameForID(ctx, "c3d4"), "Confidential")
	is.Equal(loads, 1) // second lookup should be served from the cache
}

func TestUnknownIDIsReportedAsDeleted(t *testing.T) {
	is := is.New(t)

	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		return map[string]string{}, nil
	}), 10)

	is.Equal(c.NameForID(context.Background(), "gone"), DeletedTagName)
}

func TestLoaderFailureFallsBackToDeleted(t *testing.T) {
	is := is.New(t)

	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		return nil, errors.New("catalog unavailable")
	}), 10)

	is.Equal(c.NameForID(context.Background(), "x"), DeletedTagName)
}

func TestIDForName(t *testing.T) {
	is := is.New(t)

	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		return map[string]string{"a1b2": "PII"}, nil
	}), 10)

	id, err := c.IDForName(context.Background(), "PII")
	is.NoErr(err)
	is.Equal(id, "a1b2")

	_, err = c.IDForName(context.Background(), "Secret")
	is.True(errors.Is(err, catalogerrors.ErrNotFound))
}

func TestUnknownIDsAreRememberedUntilTheNextLoad(t *testing.T) {
	is := is.New(t)

	loads := 0
	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		loads++
		return map[string]string{"a1b2": "PII"}, nil
	}), 10)

	ctx := context.Background()

	is.Equal(c.NameForID(ctx, "gone"), DeletedTagName)
	is.Equal(c.NameForID(ctx, "gone"), DeletedTagName)
	is.Equal(loads, 1)

	_, err := c.IDForName(ctx, "Secret")
	is.True(errors.Is(err, catalogerrors.ErrNotFound))
	_, err = c.IDForName(ctx, "Secret")
	is.True(errors.Is(err, catalogerrors.ErrNotFound))
	is.Equal(loads, 2)

	is.Equal(c.NameForID(ctx, "gone"), DeletedTagName) // forgotten by the second load
	is.Equal(loads, 3)
}

func TestFailedLoadsAreRetried(t *testing.T) {
	is := is.New(t)

	loads := 0
	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		loads++
		if loads == 1 {
			return nil, errors.New("catalog unavailable")
		}
		return map[string]string{"a1b2": "PII"}, nil
	}), 10)

	ctx := context.Background()

	is.Equal(c.NameForID(ctx, "a1b2"), DeletedTagName)
	is.Equal(c.NameForID(ctx, "a1b2"), "PII")
	is.Equal(loads, 2)
}

func TestCacheGrowsToHoldAllTags(t *testing.T) {
	is := is.New(t)

	all := map[string]string{"t1": "A", "t2": "B", "t3": "C", "t4": "D", "t5": "E"}

	loads := 0
	c, _ := NewCache(LoaderFunc(func(ctx context.Context) (map[string]string, error) {
		loads++
		return all, nil
	}), 2)

	ctx := context.Background()

	for id, name := range all {
		is.Equal(c.NameForID(ctx, id), name)
	}
	is.Equal(loads, 1)
}
