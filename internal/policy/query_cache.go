package policy

import (
	"errors"
	"sync"

	"github.com/open-policy-agent/opa/rego"
)

// queryCache memoizes prepared rego queries per rule so the module is only
// compiled on first use.
type queryCache struct {
	sync.Mutex
	cache map[string]*rego.PreparedEvalQuery
}

func newQueryCache() *queryCache {
	return &queryCache{cache: map[string]*rego.PreparedEvalQuery{}}
}

func (qc *queryCache) Get(key string, orElse func(string) (*rego.PreparedEvalQuery, error)) (*rego.PreparedEvalQuery, error) {
	qc.Lock()
	defer qc.Unlock()

	result, ok := qc.cache[key]
	if ok {
		return result, nil
	}

	result, err := orElse(key)
	if err == nil {
		qc.cache[key] = result
		return result, nil
	}

	return nil, errors.New("failed to get prepared query from cache")
}
