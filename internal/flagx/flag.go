// Package flagx isolates the flags one component cares about from the rest
// of the command line, so separate flag sets can parse the same os.Args.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in keep, together with their values.
// Both "-f value" and "-f=value" spellings are recognized.
func FilterArgs(args []string, keep []string) []string {
	wanted := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		wanted[k] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(name, "-") {
			if _, ok := wanted[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := wanted[arg]; !ok {
			continue
		}
		out = append(out, arg)
		// a bare flag may carry its value in the next argument
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, args[i])
		}
	}

	return out
}

// JsonConfigFlags pulls the config-file path out of os.Args, honoring both
// -c and -config. It leaves every other flag for the caller to parse and
// returns "" when no config flag was given.
func JsonConfigFlags() string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
