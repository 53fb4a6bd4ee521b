package commands

import (
	"errors"
	"flag"
	"slices"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		want   []string
		wantOK bool
	}{
		{"gravity 0 -9.8 0", []string{"gravity", "0", "-9.8", "0"}, true},
		{"/pause", []string{"pause"}, true},
		{"   spawn   -r 2  ", []string{"spawn", "-r", "2"}, true},
		{"", nil, false},
		{"   ", nil, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.line)
		if ok != tt.wantOK || !slices.Equal(got, tt.want) {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry()

	var gotRadius float64
	var gotArgs []string
	fs := flag.NewFlagSet("spawn", flag.ExitOnError)
	radius := fs.Float64("r", 0.5, "radius")
	r.Register("spawn", "spawn a sphere", fs, func(args []string) error {
		gotRadius = *radius
		gotArgs = args
		return nil
	})

	if err := r.ExecuteLine("spawn -r 2 1 2 3"); err != nil {
		t.Fatal(err)
	}
	if gotRadius != 2 || !slices.Equal(gotArgs, []string{"1", "2", "3"}) {
		t.Errorf("radius %v args %v", gotRadius, gotArgs)
	}

	if err := r.ExecuteLine("spawn"); err != nil {
		t.Fatal(err)
	}
	if gotRadius != 0.5 {
		t.Errorf("flag value leaked into next call: radius %v", gotRadius)
	}

	if err := r.ExecuteLine("spawn -bogus"); err == nil {
		t.Error("expected flag error")
	}
	if err := r.ExecuteLine("explode"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command err = %v", err)
	}
	if err := r.Execute(nil); err == nil {
		t.Error("expected missing subcommand error")
	}
	if err := r.ExecuteLine(""); err != nil {
		t.Errorf("blank line err = %v", err)
	}
}

func TestRegistry_NegativePositional(t *testing.T) {
	r := NewRegistry()
	var gotArgs []string
	var gotVerbose bool
	var gotOffset float64
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "")
	offset := fs.Float64("o", 0, "")
	r.Register("move", "", fs, func(args []string) error {
		gotArgs, gotVerbose, gotOffset = args, *verbose, *offset
		return nil
	})
	r.Register("plain", "", nil, func(args []string) error {
		gotArgs = args
		return nil
	})

	tests := []struct {
		line    string
		args    []string
		verbose bool
		offset  float64
	}{
		{"plain -1 0 0", []string{"-1", "0", "0"}, false, 0},
		{"plain -2.5e1 -3 4", []string{"-2.5e1", "-3", "4"}, false, 0},
		{"move -1 2 3", []string{"-1", "2", "3"}, false, 0},
		{"move -o -2 -1 2 3", []string{"-1", "2", "3"}, false, -2},
		{"move -verbose -1 2", []string{"-1", "2"}, true, 0},
		{"move -o=-4 -5", []string{"-5"}, false, -4},
		{"move -- -1", []string{"-1"}, false, 0},
	}
	for _, tt := range tests {
		gotArgs, gotVerbose, gotOffset = nil, false, 0
		if err := r.ExecuteLine(tt.line); err != nil {
			t.Errorf("%q: %v", tt.line, err)
			continue
		}
		if !slices.Equal(gotArgs, tt.args) || gotVerbose != tt.verbose || gotOffset != tt.offset {
			t.Errorf("%q: args %v verbose %v offset %v; want %v %v %v",
				tt.line, gotArgs, gotVerbose, gotOffset, tt.args, tt.verbose, tt.offset)
		}
	}

	if err := r.ExecuteLine("move -x 1"); err == nil {
		t.Error("expected error for undefined flag")
	}
}

func TestRegistry_RunError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("fail", "", nil, func([]string) error { return boom })

	if err := r.ExecuteLine("fail"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRegistry_Help(t *testing.T) {
	r := NewRegistry()
	r.Register("step", "advance one tick", nil, func([]string) error { return nil })
	r.Register("pause", "", nil, func([]string) error { return nil })

	help := r.Help()
	want := []string{"pause", "step - advance one tick"}
	if !slices.Equal(help, want) {
		t.Errorf("Help() = %v, want %v", help, want)
	}

	c, ok := r.Lookup("step")
	if !ok || !strings.HasPrefix(c.Usage(), "step - advance one tick") {
		t.Errorf("Lookup/Usage = %v, %v", c, ok)
	}
}
