package convert

import (
	"sort"
	"strconv"
)

// BuildArgs translates a validated request into the engine argument list.
// Pure and deterministic: the same request always yields a byte-identical
// slice, which keeps invocations reproducible and testable.
//
// Mapping rules:
//   - the output format emits exactly one --generate flag
//   - transpose emits one flag with its value, or nothing when absent
//   - meta pairs emit one --meta flag each, in sorted key order
//   - diagrams emits --no-diagrams only when disabled (the engine default
//     already renders diagrams)
//   - each configuration reference emits one --config flag, in the order the
//     client supplied the presets, because later references override earlier
//     ones inside the engine
func BuildArgs(req *Request) []string {
	opts := req.Options
	args := make([]string, 0, 2+2*len(opts.Meta)+2*len(opts.Configs)+2)

	args = append(args, req.Format.generateFlag())

	if opts.Transpose != nil {
		args = append(args, "--transpose="+strconv.Itoa(*opts.Transpose))
	}

	if len(opts.Meta) > 0 {
		keys := make([]string, 0, len(opts.Meta))
		for key := range opts.Meta {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			args = append(args, "--meta", key+"="+opts.Meta[key])
		}
	}

	if !opts.Diagrams {
		args = append(args, "--no-diagrams")
	}

	for _, ref := range opts.Configs {
		args = append(args, "--config", ref)
	}

	return args
}
