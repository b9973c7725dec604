package api

import (
	"github.com/Taraxa-project/taraxa-trie/taraxa/db/memory"
	"github.com/Taraxa-project/taraxa-trie/taraxa/trie"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/jsonutil"
)

type Config struct {
	DB   memory.Config `json:"db"`
	Trie trie.Opts     `json:"trie"`
}

// LoadConfig reads a JSON config file. An empty path yields the defaults.
func LoadConfig(file string) (ret *Config, err error) {
	ret = new(Config)
	if file == "" {
		return
	}
	if err = jsonutil.DecodeFile(file, ret); err != nil {
		return nil, err
	}
	return
}
