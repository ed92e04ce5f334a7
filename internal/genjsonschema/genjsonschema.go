package main

import (
	"encoding/json"
	"os"

	binwrapper "github.com/s12chung/bin-wrapper"
)

func main() {
	schema, err := binwrapper.GetJSONSchema()
	if err != nil {
		panic(err)
	}
	out, err := os.Create("binwrapper.schema.json")
	if err != nil {
		panic(err)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(schema)
	if err != nil {
		panic(err)
	}
	err = out.Close()
	if err != nil {
		panic(err)
	}
}
