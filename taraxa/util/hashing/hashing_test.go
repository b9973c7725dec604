package hashing

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestBlake2(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(
		common.FromHex("0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"),
		Blake2_256(nil))
	assert.Equal(
		common.FromHex("786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce"),
		Blake2_512(nil))
	assert.Len(Blake2_128([]byte("abc")), 16)
	// the empty trie root
	assert.Equal(
		common.HexToHash("03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314"),
		Blake2Hash([]byte{0}))
	assert.Equal(Blake2Hash([]byte("dog"), []byte("e")), Blake2Hash([]byte("doge")))
}

func TestTwox(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(common.FromHex("99e9d85137db46ef"), Twox64(nil))
	assert.Equal(common.FromHex("26aa394eea5630e07c48ae0c9558cef7"), Twox128([]byte("System")))
	assert.Equal(Twox64([]byte("System")), Twox128([]byte("System"))[:8])
}
