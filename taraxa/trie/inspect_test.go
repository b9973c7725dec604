package trie

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectDogDogeHorse(t *testing.T) {
	assert := assert.New(t)
	tr, _ := build(t, dog_doge_horse)
	tree, err := tr.DBValues()
	require.NoError(t, err)
	require.NotNil(t, tree)
	enc, err := json.Marshal(tree)
	assert.NoError(err)
	assert.JSONEq(`{
		"type": "NibbledBranch",
		"id": "`+dog_doge_horse_root+`",
		"nibbles": "6",
		"children": [
			{
				"type": "NibbledBranch",
				"id": null,
				"nibbles": "6f67",
				"value": "0x7075707079",
				"parent_nibble": "4",
				"children": [
					{"type": "Leaf", "id": null, "nibbles": "5", "value": "0x636f696e", "parent_nibble": "6"}
				]
			},
			{"type": "Leaf", "id": null, "nibbles": "6f727365", "value": "0x7374616c6c696f6e", "parent_nibble": "8"}
		]
	}`, string(enc))
}

func TestInspectHashedChildren(t *testing.T) {
	assert := assert.New(t)
	tr, _ := build(t, two_level_pairs())
	tree, err := tr.DBValues()
	require.NoError(t, err)
	assert.Equal("Branch", tree.Type)
	assert.Nil(tree.Nibbles)
	assert.Nil(tree.Value)
	require.Len(t, tree.Children, 2)
	for i, child := range tree.Children {
		assert.Equal([]string{"1", "2"}[i], child.ParentNibble)
		assert.Equal("NibbledBranch", child.Type)
		assert.NotNil(child.ID)
		assert.Equal("06", *child.Nibbles)
		require.Len(t, child.Children, 2)
		for _, leaf := range child.Children {
			assert.Equal("Leaf", leaf.Type)
			assert.Equal("", *leaf.Nibbles)
			assert.Len(*leaf.Value, 40)
		}
	}
}

func TestInspectEmptyValueAndMissingRoot(t *testing.T) {
	assert := assert.New(t)
	tr, db := new_trie()
	tree, err := tr.DBValues()
	assert.NoError(err)
	assert.Nil(tree)

	tree, err = Inspect(db, common.HexToHash("0x01"))
	assert.NoError(err)
	assert.Nil(tree)

	assert.NoError(tr.Insert([]byte("k"), nil))
	_, err = tr.Commit()
	assert.NoError(err)
	tree, err = tr.DBValues()
	assert.NoError(err)
	assert.Equal("Leaf", tree.Type)
	if assert.NotNil(tree.Value) {
		assert.Empty(*tree.Value)
	}
	assert.Contains(tree.String(), `"value":"0x"`)
}

func TestInspectSkipsMissingChildren(t *testing.T) {
	assert := assert.New(t)
	tr, db := build(t, two_level_pairs())
	child := *tr.root.(*branchNode).Children[1].(*branchNode).flags.hash
	for db.Has(child) {
		db.Remove(child)
	}
	tree, err := Inspect(db, tr.Root())
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal("2", tree.Children[0].ParentNibble)
}

func TestInspectSkipsMalformedChildren(t *testing.T) {
	assert := assert.New(t)
	tr, db := build(t, two_level_pairs())
	child := *tr.root.(*branchNode).Children[2].(*branchNode).flags.hash
	tree, err := Inspect(corrupting_db{db, child}, tr.Root())
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	assert.Equal("1", tree.Children[0].ParentNibble)
}

func TestInspectMalformedRoot(t *testing.T) {
	tr, db := build(t, dog_doge_horse)
	_, err := Inspect(corrupting_db{db, tr.Root()}, tr.Root())
	assert.Equal(t, ErrMalformedNode, errors.Cause(err))
}

func TestDot(t *testing.T) {
	assert := assert.New(t)
	tr, _ := build(t, dog_doge_horse)
	tree, err := tr.DBValues()
	require.NoError(t, err)
	out := tree.Dot().String()
	assert.True(strings.HasPrefix(out, "digraph"))
	assert.Contains(out, "nibbles: 6f67")
	assert.Contains(out, "NibbledBranch")
	assert.Equal(3, strings.Count(out, "->"))

	var empty *TreeNode
	assert.NotContains(empty.Dot().String(), "->")
}
