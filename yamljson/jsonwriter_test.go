package yamljson

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	gojson "github.com/goccy/go-json"
)

func writeJSONString(t *testing.T, input string, opts Options) string {
	t.Helper()
	rd := NewReader(strings.NewReader(input), opts)
	var sb strings.Builder
	if err := WriteJSON(&sb, rd); err != nil {
		t.Fatalf("%v", err)
	}
	return sb.String()
}

func TestWriteJSONSimple(t *testing.T) {
	got := writeJSONString(t, "a: 1\nb: 2\n", Options{})
	if got != `{"a":"1","b":"2"}` {
		t.Errorf("got %v", got)
	}
}

func TestWriteJSONNested(t *testing.T) {
	got := writeJSONString(t, "xs:\n  - a\n  - b\nk: v\n", Options{})
	if got != `{"xs":["a","b"],"k":"v"}` {
		t.Errorf("got %v", got)
	}
}

func TestWriteJSONEmptyDocument(t *testing.T) {
	got := writeJSONString(t, "", Options{})
	if got != "null" {
		t.Errorf("got %v", got)
	}
}

func TestWriteJSONEscaping(t *testing.T) {
	got := writeJSONString(t, "k: |\n  a\"b\\c\n  second\n", Options{})
	if got != `{"k":"a\"b\\c\nsecond\n"}` {
		t.Errorf("got %v", got)
	}
}

// The streamed output must agree with the tree built from the same
// events, as seen by an independent JSON decoder.
func TestWriteJSONMatchesBuild(t *testing.T) {
	inputs := []string{
		"a: 1\nb: 2\n",
		"server:\n  host: localhost\n  ports:\n    - \"8080\"\n    - \"8081\"\n",
		"- a\n- b:\n    c: 1\n",
		"k: >-\n  one\n  two\n\n",
		"weird: \"tab\\there \\u263A\"\n",
	}
	for _, input := range inputs {
		out := writeJSONString(t, input, Options{})
		var fromStream any
		if err := gojson.Unmarshal([]byte(out), &fromStream); err != nil {
			t.Fatalf("%q: output does not parse as JSON: %v\n%v", input, err, out)
		}
		built, err := Build(NewReader(strings.NewReader(input), Options{}))
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if diff := deep.Equal(fromStream, built); diff != nil {
			t.Errorf("%q: stream and tree disagree: %v", input, diff)
		}
	}
}

func TestAppendString(t *testing.T) {
	cases := []struct{ in, out string }{
		{"", `""`},
		{"plain", `"plain"`},
		{"a\"b", `"a\"b"`},
		{"a\\b", `"a\\b"`},
		{"a\nb", `"a\nb"`},
		{"a\tb", `"a\tb"`},
		{"a\rb", `"a\rb"`},
		{"ctrl\x01", `"ctrl\u0001"`},
		{"héllo", `"héllo"`},
	}
	for _, c := range cases {
		if got := string(AppendString(nil, c.in)); got != c.out {
			t.Errorf("%q: got %v, expected %v", c.in, got, c.out)
		}
	}
}
