package lib

import (
	"bytes"
	"encoding/gob"
	"os"
	"regexp"
)

var re1 = regexp.MustCompile("[^a-zA-Z]+")

func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	} else if os.IsNotExist(err) {
		return false
	}

	return true
}

/*
	return an encoded object as bytes
*/
func Marshal(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	err := gob.NewEncoder(b).Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

/*
	return a decoded object from bytes
*/
func Unmarshal(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	return gob.NewDecoder(b).Decode(v)
}

/*
	Association key for a board component: the designator class, comment,
	and footprint together identify interchangeable placements.
*/
func bcKey(component *BoardComponent) []byte {
	key, _ := Marshal([]string{
		re1.ReplaceAllString(component.Designator, ""),
		component.Comment,
		component.Footprint,
	})

	return key
}
