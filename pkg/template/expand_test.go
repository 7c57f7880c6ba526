package template

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	vars := map[string]string{"name": "20240618", "out": "/tmp/20240618_intro.png"}

	got := Expand("--title Interruption {name}", vars)
	if got != "--title Interruption 20240618" {
		t.Errorf("unexpected expansion %q", got)
	}
}

func TestExpand_UnknownPlaceholderKept(t *testing.T) {
	got := Expand("{name} {mystery}", map[string]string{"name": "20240618"})
	if got != "20240618 {mystery}" {
		t.Errorf("unexpected expansion %q", got)
	}
}

func TestExpandAll(t *testing.T) {
	vars := map[string]string{"name": "20240618"}
	got := ExpandAll([]string{"--name", "{name}", "--grid"}, vars)
	want := []string{"--name", "20240618", "--grid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
}
