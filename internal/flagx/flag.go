// Package flagx contains helpers for parsing a subset of the command line
// without tripping over flags owned by other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Pick returns only the arguments belonging to the given flag names, keeping
// their values. Both "-f value" and "-f=value" forms are supported. Anything
// else is dropped, so a flag.FlagSet parsing the result never sees flags it
// does not define.
func Pick(args []string, names ...string) []string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	picked := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := wanted[name]; ok {
				picked = append(picked, arg)
			}
			continue
		}

		if _, ok := wanted[arg]; ok {
			picked = append(picked, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				picked = append(picked, args[i+1])
				i++
			}
		}
	}
	return picked
}

// ConfigFilePath extracts the config file path given via -c or -config,
// ignoring every other argument. Returns "" when neither flag is present.
func ConfigFilePath() string {
	var path string

	args := Pick(os.Args[1:], "-c", "-config")

	fs := flag.NewFlagSet("configfile", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return path
}
