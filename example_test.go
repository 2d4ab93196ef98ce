package sketchdata_test

import (
	"context"
	"fmt"
	"log"

	"github.com/go-git/go-billy/v5/memfs"

	sketchdata "github.com/kataras/sketch-data-extractor"
	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

func ExampleExport() {
	card := &layer.Layer{Kind: layer.Group, Name: "Card", Children: []*layer.Layer{
		{Kind: layer.Text, Name: "Title", Text: "Hello"},
		{Kind: layer.Group, Name: "Spacer"},
	}}

	result, err := sketchdata.Export(context.Background(), []*layer.Layer{card}, nil, sketchdata.Options{
		DocumentName: "Shop",
		FS:           memfs.New(),
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.File)
	fmt.Print(string(result.JSON))
	// Output:
	// shop.json
	// [
	//   {
	//     "Title": "Hello"
	//   }
	// ]
}
