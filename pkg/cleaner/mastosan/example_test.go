package mastosan_test

import (
	"context"
	"fmt"

	"github.com/jmylchreest/mastosan/pkg/cleaner/mastosan"
)

func ExampleSlackdown() {
	out, _ := mastosan.Slackdown(context.Background(), `<p>hello <a href="https://example.com">world</a></p>`)
	fmt.Println(out)
	// Output: hello <https://example.com|world>
}

func ExampleMarkdown() {
	out, _ := mastosan.Markdown(context.Background(), `<p>hello <a href="https://example.com">world</a></p>`)
	fmt.Println(out)
	// Output: hello [world](https://example.com)
}

func ExampleText() {
	out, _ := mastosan.Text(context.Background(), `<p>one</p><p>two<br>three</p>`)
	fmt.Println(out)
	// Output:
	// one
	//
	// two
	//
	// three
}
