package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/mercury-transport/mercury-go/pkg/wire"
)

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ApplyOverrides returns a copy of env with its header overrides merged into
// the payload. Keys of env.Headers are paths from the envelope root; keys of
// env.Data["headers"] are paths relative to env.Data. A path that exists is
// replaced in place, array elements included; a missing one is added with
// intermediate objects created as needed. If there is nothing to apply, env
// is returned unchanged.
func ApplyOverrides(env *wire.Envelope) (*wire.Envelope, error) {
	ops := overrideOps("", env.Headers)
	if env.Data != nil {
		if dataHeaders, ok := env.Data[wire.KeyHeaders].(map[string]any); ok {
			ops = append(ops, overrideOps("/data", dataHeaders)...)
		}
	}
	if len(ops) == 0 {
		return env, nil
	}

	doc, err := wire.Encode(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	for i := range ops {
		if pointerExists(tree, ops[i].Path) {
			ops[i].Op = "replace"
		}
	}

	rawPatch, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encode override patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(rawPatch)
	if err != nil {
		return nil, fmt.Errorf("decode override patch: %w", err)
	}

	opts := jsonpatch.NewApplyOptions()
	opts.EnsurePathExistsOnAdd = true
	patched, err := patch.ApplyWithOptions(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("apply overrides: %w", err)
	}

	return wire.Decode(patched)
}

// pointerExists reports whether the JSON pointer resolves inside doc.
func pointerExists(doc any, pointer string) bool {
	cur := doc
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return false
			}
			cur = node[i]
		default:
			return false
		}
	}
	return true
}

func overrideOps(prefix string, headers map[string]any) []patchOp {
	if len(headers) == 0 {
		return nil
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	ops := make([]patchOp, 0, len(keys))
	for _, k := range keys {
		ops = append(ops, patchOp{
			Op:    "add",
			Path:  prefix + keyPathToPointer(k),
			Value: headers[k],
		})
	}
	return ops
}

// keyPathToPointer converts "a.b.c" to the JSON pointer "/a/b/c".
func keyPathToPointer(keyPath string) string {
	var b strings.Builder
	for _, seg := range strings.Split(keyPath, ".") {
		b.WriteByte('/')
		seg = strings.ReplaceAll(seg, "~", "~0")
		seg = strings.ReplaceAll(seg, "/", "~1")
		b.WriteString(seg)
	}
	return b.String()
}
