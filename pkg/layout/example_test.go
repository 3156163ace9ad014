package layout_test

import (
	"fmt"
	"log"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/layout"
	"github.com/ssargent/bdat/pkg/record"
)

// ExampleSchema_Factory decodes two records described in YAML
func ExampleSchema_Factory() {
	schema, err := layout.Parse([]byte(`
types:
  person:
    fields:
      - {name: name, type: char, until_zero: true}
      - {name: age, type: u8}
`))
	if err != nil {
		log.Fatal(err)
	}

	factory, err := schema.Factory("person")
	if err != nil {
		log.Fatal(err)
	}

	buf := codec.NewBuffer([]byte("Alice\x00\x1eBob\x00\x19"))
	v, end, err := record.Decode(factory, buf, record.Sequential(0), record.ReadSpec{Count: codec.Fixed(2)})
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range v.(record.Records) {
		name, _ := r.Field("name")
		age, _ := r.Field("age")
		fmt.Printf("%q %v\n", name, age)
	}
	fmt.Println("end", end)

	// Output:
	// "Alice\x00" 30
	// "Bob\x00" 25
	// end 12
}
