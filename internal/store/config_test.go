package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigSetGet(t *testing.T) {
	c := NewConfig()

	c.Set("title", "My Site")
	assert.Equal(t, "My Site", c.Get("title"))

	c.Set("title", "Renamed")
	assert.Equal(t, "Renamed", c.Get("title"), "last set wins")
}

func TestConfigUnsetKeyReadsAsNil(t *testing.T) {
	c := NewConfig()
	assert.Nil(t, c.Get("nope"))
}

func TestConfigPrefixDefaults(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, "/", c.Get(KeyHTTPPrefix))
	assert.Equal(t, "/", c.Get(KeyAssetHTTPPrefix), "asset prefix follows http_prefix")

	c.Set(KeyHTTPPrefix, "/site")
	assert.Equal(t, "/site", c.Get(KeyAssetHTTPPrefix), "asset prefix tracks an overridden http_prefix")

	c.Set(KeyAssetHTTPPrefix, "/cdn")
	assert.Equal(t, "/cdn", c.Get(KeyAssetHTTPPrefix), "explicit asset prefix decouples")
	assert.Equal(t, "/site", c.Get(KeyHTTPPrefix))
}

func TestConfigFreezePanicsOnSet(t *testing.T) {
	c := NewConfig()
	c.Freeze()

	assert.Panics(t, func() { c.Set("k", "v") })
	assert.NotPanics(t, func() { c.Get("k") }, "reads stay legal after freeze")
}
