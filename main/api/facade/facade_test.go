package facade

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/Taraxa-project/taraxa-trie/main/api"
	"github.com/Taraxa-project/taraxa-trie/taraxa/db/memory"
	"github.com/Taraxa-project/taraxa-trie/taraxa/trie"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dog_doge_horse_root = "40779683ef431a619a6aebb3d0c7c20c1d5a92d6d4f76739d0fa7bcfbae41350"

func TestTrieFacade(t *testing.T) {
	assert := assert.New(t)
	tr := New(nil)
	assert.Equal(trie.EmptyRoot.Bytes(), tr.Root())
	assert.Nil(tr.DBValues())

	assert.True(tr.Insert([]byte("dog"), []byte("puppy")))
	assert.True(tr.Insert([]byte("doge"), []byte("coin")))
	assert.True(tr.Insert([]byte("horse"), []byte("stallion")))
	assert.Equal(trie.EmptyRoot.Bytes(), tr.Root())
	assert.True(tr.Commit())
	assert.Len(tr.Root(), 32)
	assert.Equal(dog_doge_horse_root, hex.EncodeToString(tr.Root()))

	assert.Equal([]byte("coin"), tr.Get([]byte("doge")))
	assert.Nil(tr.Get([]byte("cat")))
	assert.Len(tr.Values(), 1)
	if tree := tr.DBValues(); assert.NotNil(tree) {
		assert.Len(tree.Children, 2)
	}

	assert.True(tr.Remove([]byte("cat")))
	assert.True(tr.Remove([]byte("dog")))
	assert.Nil(tr.Get([]byte("dog")))
	assert.True(tr.Commit())
	assert.NotEqual(dog_doge_horse_root, hex.EncodeToString(tr.Root()))

	tr.Clear()
	assert.Equal(trie.EmptyRoot.Bytes(), tr.Root())
	assert.Empty(tr.Values())
}

func TestFailuresAreReportedAsFalseOrNil(t *testing.T) {
	assert := assert.New(t)
	tr := New(&api.Config{})
	assert.False(tr.Insert(make([]byte, trie.NibbleSizeBound), []byte{1}))
	assert.False(tr.trie.Dirty())
	assert.True(tr.Remove(make([]byte, trie.NibbleSizeBound)))

	var nil_trie *Trie
	assert.False(nil_trie.Insert([]byte("dog"), []byte("puppy")))
	assert.Nil(nil_trie.Get([]byte("dog")))
	assert.Nil(nil_trie.DBValues())
	assert.Nil(nil_trie.Root())
	assert.Nil(nil_trie.Values())
	assert.False(nil_trie.Commit())
	assert.False(nil_trie.Remove([]byte("dog")))
	assert.NotPanics(nil_trie.Clear)
}

func TestGetOnMissingNodeIsNotOk(t *testing.T) {
	assert := assert.New(t)
	db := memory.NewNodeDB(0)
	built := trie.New(db, trie.Opts{})
	for _, key := range []string{"\x10a", "\x10b", "\x20a", "\x20b"} {
		require.NoError(t, built.Insert([]byte(key), make([]byte, 40)))
	}
	root, err := built.Commit()
	require.NoError(t, err)
	var inner []common.Hash
	db.ForEach(func(hash common.Hash, enc []byte) {
		if hash != root {
			inner = append(inner, hash)
		}
	})
	require.NotEmpty(t, inner)
	for _, hash := range inner {
		for db.Has(hash) {
			db.Remove(hash)
		}
	}
	reopened, err := trie.NewWithRoot(db, root, trie.Opts{})
	require.NoError(t, err)
	tr := &Trie{db: db, trie: reopened}

	failed := tr.apply(api.Op{Type: api.OpGet, Key: []byte("\x10a")})
	assert.False(failed.Ok)
	assert.Nil(failed.Value)

	absent := tr.apply(api.Op{Type: api.OpGet, Key: []byte("\x30")})
	assert.True(absent.Ok)
	assert.Nil(absent.Value)
}

func TestRunJson(t *testing.T) {
	assert := assert.New(t)
	request := `{
		"config": {"db": {"initialCapacity": 64}, "trie": {"cacheSize": 16}},
		"ops": [
			{"type": "insert", "key": "0x646f67", "value": "0x7075707079"},
			{"type": "insert", "key": "0x646f6765", "value": "0x636f696e"},
			{"type": "insert", "key": "0x686f727365", "value": "0x7374616c6c696f6e"},
			{"type": "get", "key": "0x646f67"},
			{"type": "get", "key": "0x636174"},
			{"type": "root"},
			{"type": "commit"},
			{"type": "dbValues"},
			{"type": "values"},
			{"type": "bogus"}
		]
	}`
	var response api.Response
	require.NoError(t, json.Unmarshal([]byte(RunJson(request)), &response))
	assert.Nil(response.Error)
	assert.Equal("0x"+dog_doge_horse_root, response.Root.Hex())
	require.Len(t, response.Results, 10)
	for _, i := range []int{0, 1, 2} {
		assert.True(response.Results[i].Ok)
	}
	assert.Equal("0x7075707079", response.Results[3].Value.String())
	assert.Nil(response.Results[4].Value)
	assert.Equal(trie.EmptyRoot, *response.Results[5].Root)
	assert.Equal(response.Root, *response.Results[6].Root)
	if tree := response.Results[7].Tree; assert.NotNil(tree) {
		assert.Equal("NibbledBranch", tree.Type)
		assert.Equal("6", *tree.Nibbles)
	}
	assert.Len(response.Results[8].Values, 1)
	assert.False(response.Results[9].Ok)
}

func TestRunJsonMalformedRequest(t *testing.T) {
	assert := assert.New(t)
	var response api.Response
	require.NoError(t, json.Unmarshal([]byte(RunJson("{")), &response))
	assert.NotNil(response.Error)
	assert.Empty(response.Results)
}

func TestHashFunctions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("99e9d85137db46ef", hex.EncodeToString(Twox64(nil)))
	assert.Equal("26aa394eea5630e07c48ae0c9558cef7", hex.EncodeToString(Twox128([]byte("System"))))
	assert.Equal("0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", hex.EncodeToString(Blake2_256(nil)))
	assert.Len(Blake2_512(nil), 64)
	assert.Len(Blake2_128(nil), 16)
	for name, fn := range HashFunctions {
		assert.NotEmpty(fn([]byte("x")), name)
	}
}
