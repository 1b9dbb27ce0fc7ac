package rawcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_StableUnderKeyReordering(t *testing.T) {
	a := []byte(`{"b":1,"a":2}`)
	b := []byte(`{"a":2,"b":1}`)

	hashA, err := ContentHash(a)
	require.NoError(t, err)
	hashB, err := ContentHash(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
}

func TestContentHash_ChangesOnValueChange(t *testing.T) {
	a := []byte(`{"a":2,"b":1}`)
	b := []byte(`{"a":2,"b":2}`)

	hashA, err := ContentHash(a)
	require.NoError(t, err)
	hashB, err := ContentHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, hashA, hashB)
}

func TestContentHash_NonJSONHashesRawBytes(t *testing.T) {
	a := []byte(`<xml>1</xml>`)
	b := []byte(`<xml>1</xml>`)
	c := []byte(`<xml>2</xml>`)

	hashA, err := ContentHash(a)
	require.NoError(t, err)
	hashB, err := ContentHash(b)
	require.NoError(t, err)
	hashC, err := ContentHash(c)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
	assert.NotEqual(t, hashA, hashC)
}
