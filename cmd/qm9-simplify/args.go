// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/pflag"
)

// dirAliases maps the two-letter single-dash aliases of the directory flags,
// which pflag cannot express as shorthands, to their long names.
var dirAliases = map[string]string{
	"-id": "--input_dir",
	"-od": "--output_dir",
}

// normalizeArgs rewrites "-id DIR", "-id=DIR", "-od DIR" and "-od=DIR" to the
// long flag forms. Arguments after "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		long, ok := dirAliases[name]
		switch {
		case ok && hasValue:
			out = append(out, long+"="+value)
		case ok:
			out = append(out, long)
		default:
			out = append(out, arg)
		}
	}
	return out
}

// dirFlagNames accepts --input-dir and --output-dir as spellings of
// --input_dir and --output_dir.
func dirFlagNames(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "input-dir":
		name = "input_dir"
	case "output-dir":
		name = "output_dir"
	}
	return pflag.NormalizedName(name)
}
