package driver_test

import (
	"testing"

	"unparen/internal/driver"
	"unparen/internal/parens"
)

func digest(b byte) driver.Digest {
	var d driver.Digest
	for i := range d {
		d[i] = b
	}
	return d
}

func TestCacheKeyDependsOnContentAndOptions(t *testing.T) {
	base := driver.CacheKey(digest('a'), parens.DefaultOptions())
	if base == (driver.Digest{}) {
		t.Fatal("cache key should be non-zero")
	}
	if again := driver.CacheKey(digest('a'), parens.DefaultOptions()); again != base {
		t.Fatal("cache key must be deterministic")
	}
	if other := driver.CacheKey(digest('b'), parens.DefaultOptions()); other == base {
		t.Fatal("content change must change the key")
	}
	if other := driver.CacheKey(digest('a'), parens.AlwaysRemove()); other == base {
		t.Fatal("policy change must change the key")
	}
	overflow := parens.DefaultOptions()
	overflow.CheckOverflow = true
	if other := driver.CacheKey(digest('a'), overflow); other == base {
		t.Fatal("check_overflow change must change the key")
	}
}
