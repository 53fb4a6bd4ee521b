package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownCommand is returned by Execute for a name nothing was registered under.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse with the remaining positional args.
type Command struct {
	Name    string
	Summary string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Usage returns "name [flags]" followed by the flag defaults, one per line.
func (c *Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Summary != "" {
		b.WriteString(" - ")
		b.WriteString(c.Summary)
	}
	c.FlagSet.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s (default %q) %s", f.Name, f.DefValue, f.Usage)
	})
	return b.String()
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. fs may be nil for commands without flags. The flag set is
// switched to ContinueOnError with discarded output so a bad flag returns an error
// instead of exiting or printing.
func (r *Registry) Register(name, summary string, fs *flag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.Init(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Summary: summary, FlagSet: fs, Run: run}
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns one "name - summary" line per command, sorted by name.
func (r *Registry) Help() []string {
	lines := make([]string, 0, len(r.cmds))
	for _, n := range r.Names() {
		c := r.cmds[n]
		if c.Summary == "" {
			lines = append(lines, n)
			continue
		}
		lines = append(lines, n+" - "+c.Summary)
	}
	return lines
}

// Parse tokenizes a terminal line by whitespace. A leading "/" is accepted and dropped.
// ok is false for a blank line.
func Parse(line string) (args []string, ok bool) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	args = strings.Fields(line)
	return args, len(args) > 0
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	// Flag values must not leak into the next invocation.
	defer cmd.FlagSet.VisitAll(func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
	})
	if err := cmd.FlagSet.Parse(markPositional(cmd.FlagSet, args[1:])); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// markPositional inserts "--" before the first token that is a number rather than a
// flag, so "gravity -1 0 0" reaches Run as three positional arguments. Values of
// non-boolean flags ("-v -1,0,0" or "-r -2") are skipped over, not treated as positional.
func markPositional(fs *flag.FlagSet, args []string) []string {
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" || !strings.HasPrefix(tok, "-") {
			return args
		}
		if isNumber(tok) {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
		name, _, hasValue := strings.Cut(strings.TrimLeft(tok, "-"), "=")
		f := fs.Lookup(name)
		if f == nil || hasValue {
			continue
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			continue
		}
		i++
	}
	return args
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ExecuteLine parses line and executes it. A blank line does nothing.
func (r *Registry) ExecuteLine(line string) error {
	args, ok := Parse(line)
	if !ok {
		return nil
	}
	return r.Execute(args)
}
