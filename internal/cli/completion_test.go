package cli

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// complete runs a shell completion request and returns the suggestions.
func complete(t *testing.T, args ...string) []string {
	t.Helper()
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("completion %v: %v", args, err)
	}
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line != "" && !strings.HasPrefix(line, ":") {
			got = append(got, line)
		}
	}
	return got
}

func TestFlagValueCompletions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"viz type", []string{"render", "--type", ""}, []string{"matrix", "nodelink"}},
		{"layout strategy", []string{"layout", "x.json", "--strategy", ""}, []string{"shelf", "guillotine", "column"}},
		{"pack strategy", []string{"pack", "items.json", "--strategy", "g"}, []string{"guillotine"}},
		{"formats", []string{"render", "--format", ""}, []string{"svg", "json", "png", "pdf"}},
		{"more formats", []string{"render", "--format", "svg,p"}, []string{"svg,png", "svg,pdf"}},
		{"cache", []string{"classify", "--cache", "r"}, []string{"redis://"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := complete(t, tt.args...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteFormatsSkipsGiven(t *testing.T) {
	got, _ := completeFormats(nil, nil, "json,svg,")
	if want := []string{"json,svg,png", "json,svg,pdf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("completeFormats() = %v, want %v", got, want)
	}
}
