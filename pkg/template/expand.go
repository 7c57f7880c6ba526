// Package template expands placeholders in configured command lines.
// The plotter command is specified in the config file with event
// placeholders that are filled in at invocation time.
package template

import "strings"

// Expand replaces {key} placeholders in text with values from vars.
//
// Supported placeholders are whatever the caller supplies; for the
// plotter these are:
//
//	{name}   - event name (yyyymmdd)
//	{start}  - padded window start, RFC 3339
//	{stop}   - padded window stop, RFC 3339
//	{out}    - output image path
//
// Unknown placeholders are left untouched so misconfigurations stay
// visible in the invoked command line.
func Expand(text string, vars map[string]string) string {
	for key, value := range vars {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text
}

// ExpandAll applies Expand to each element of args.
func ExpandAll(args []string, vars map[string]string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = Expand(arg, vars)
	}
	return out
}
