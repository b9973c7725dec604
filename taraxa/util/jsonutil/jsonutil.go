package jsonutil

import (
	"encoding/json"
	"io/ioutil"

	"github.com/Taraxa-project/taraxa-trie/taraxa/util"
	"github.com/pkg/errors"
)

func MustEncode(obj interface{}) []byte {
	bs, err := json.Marshal(obj)
	util.PanicIfNotNil(err)
	return bs
}

func MustEncodePretty(obj interface{}) []byte {
	bs, err := json.MarshalIndent(obj, "", "  ")
	util.PanicIfNotNil(err)
	return bs
}

// DecodeFile unmarshals the JSON content of file into obj.
func DecodeFile(file string, obj interface{}) error {
	raw, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "reading %s", file)
	}
	return errors.Wrapf(json.Unmarshal(raw, obj), "parsing %s", file)
}
