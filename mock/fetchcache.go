package mock

import (
	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

var _ dictgen.FetchCache = (*FetchCache)(nil)

// FetchCache is a mock implementation of dictgen.FetchCache.
type FetchCache struct {
	GetFn func(url string) ([]byte, bool, error)
	PutFn func(url string, data []byte) error
}

func (c *FetchCache) Get(url string) ([]byte, bool, error) {
	return c.GetFn(url)
}

func (c *FetchCache) Put(url string, data []byte) error {
	return c.PutFn(url, data)
}
