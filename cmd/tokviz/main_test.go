package main

import "testing"

func TestNewCLIRegistersSubcommands(t *testing.T) {
	root := newCLI()

	want := map[string]bool{"encode": false, "decode": false, "info": false}
	for _, c := range root.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}
