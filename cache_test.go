package xsd

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCacheReuse(t *testing.T) {
	cache := NewSchemaCache()

	first, err := cache.Parse([]byte(partySchemaDoc))
	require.NoError(t, err)
	second, err := cache.Parse([]byte(partySchemaDoc))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestSchemaCacheKeyIncludesOptions(t *testing.T) {
	cache := NewSchemaCache()

	plain, err := cache.Parse([]byte(personQuirkDoc))
	require.NoError(t, err)
	repaired, err := cache.Parse([]byte(personQuirkDoc), WithKnownQuirks())
	require.NoError(t, err)

	assert.NotSame(t, plain, repaired)
	assert.Equal(t, 2, cache.Len())
	assert.Len(t, plain.ComplexType("PersonIdentification13__1").Elements(), 1)
	assert.Len(t, repaired.ComplexType("PersonIdentification13__1").Elements(), 2)
}

func TestSchemaCacheError(t *testing.T) {
	cache := NewSchemaCache()

	_, err := cache.Parse([]byte(`<xs:schema`))
	require.Error(t, err)
	// The failed parse stays cached and keeps failing.
	_, err = cache.Parse([]byte(`<xs:schema`))
	require.Error(t, err)
}

func TestSchemaCachePurge(t *testing.T) {
	cache := NewSchemaCache()

	_, err := cache.Parse([]byte(partySchemaDoc))
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestSchemaCacheConcurrent(t *testing.T) {
	cache := NewSchemaCache()

	var wg sync.WaitGroup
	results := make([]*Schema, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			schema, err := cache.Parse([]byte(partySchemaDoc))
			assert.NoError(t, err)
			results[i] = schema
		}(i)
	}
	wg.Wait()

	for _, schema := range results[1:] {
		assert.Same(t, results[0], schema)
	}
	assert.Equal(t, 1, cache.Len())
}
