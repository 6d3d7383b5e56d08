// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AshBuk/whisper-server/internal/logger"
	yaml "gopkg.in/yaml.v2"
)

// discoverConfigFile looks for config.json or config.yaml beside the running
// executable, matching spec.md section 6's "config.json — auto-loaded if
// present beside the executable". Returns "" if neither exists.
func discoverConfigFile() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Dir(exe)
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// fileSource reads and flattens a config file into canonical keys. A
// missing or unreadable file is returned as an error; the resolver treats
// that as fatal for an explicit --config path and logs and skips it for an
// auto-discovered one.
func fileSource(path string, log logger.Logger) (source, error) {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("invalid config path: %s", path)
	}
	// #nosec G304 -- path is cleaned and either auto-discovered beside the
	// executable or supplied explicitly by the operator via --config.
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if strings.HasSuffix(clean, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s as JSON: %w", path, err)
		}
	} else {
		// yaml.v2 unmarshals maps as map[interface{}]interface{}; normalize
		// through an intermediate decode so the flattener only ever sees
		// map[string]interface{}.
		var generic map[interface{}]interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s as YAML: %w", path, err)
		}
		raw = stringifyKeys(generic)
	}

	flat := flatten("", raw)
	out := make(source, len(flat))
	for k, v := range flat {
		canon := rewriteKey(k, log)
		if canon == "" {
			continue
		}
		out[canon] = v
	}
	return out, nil
}

// stringifyKeys converts yaml.v2's map[interface{}]interface{} into
// map[string]interface{}, recursively.
func stringifyKeys(m map[interface{}]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		key := fmt.Sprintf("%v", k)
		if nested, ok := v.(map[interface{}]interface{}); ok {
			out[key] = stringifyKeys(nested)
		} else {
			out[key] = v
		}
	}
	return out
}

// flatten walks nested maps, joining keys with "_" so a nested
// {"log": {"level": "debug"}} file becomes the same "log_level" key as a
// flat file would, before rewriteKey maps it to the canonical "logLevel".
func flatten(prefix string, m map[string]interface{}) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			for fk, fv := range flatten(key, val) {
				out[fk] = fv
			}
		case map[interface{}]interface{}:
			for fk, fv := range flatten(key, stringifyKeys(val)) {
				out[fk] = fv
			}
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
	return out
}
