package text_test

import (
	"fmt"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/text"
)

func ExampleReplacer_ReplaceText() {
	// Create a replacer
	replacer, err := text.NewReplacer(text.ReplacementRule{
		Search:  "foo",
		Replace: "bar",
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Apply it
	result := replacer.ReplaceText("foofoo")

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: foofoo
	// Modified: barbar
	// Changes: 2
	// Was Modified: true
}

func ExampleNewReplacer() {
	_, err := text.NewReplacer(text.ReplacementRule{
		Search: "[a-",
		Regex:  true,
	})
	fmt.Printf("Validation failed: %v\n", err != nil)

	// Output:
	// Validation failed: true
}

func ExampleStripBOM() {
	content, found := text.StripBOM([]byte("\xEF\xBB\xBFhello"))
	fmt.Printf("%q %v\n", content, found)

	// Output:
	// "hello" true
}
