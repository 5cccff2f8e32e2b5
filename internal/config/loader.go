package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int // 0 when the format does not report positions (TOML)
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // config path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winbridge", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path (YAML, or TOML when it ends in .toml) together
// with its includes. A missing path yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	raw := RawConfig{}
	sources := map[string]Source{}
	var files []string

	if exists, err := pathExists(path); err != nil {
		return nil, err
	} else if exists {
		seen := make(map[string]struct{})
		var stack []string
		merged, mergedSources, mergedFiles, err := loadRawMerged(path, seen, stack)
		if err != nil {
			return nil, err
		}
		raw = merged
		sources = mergedSources
		files = mergedFiles
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

type includeRef struct {
	Value  string
	Source Source
}

func loadRawMerged(path string, seen map[string]struct{}, stack []string) (RawConfig, map[string]Source, []string, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, nil, nil, err
	}
	for _, existing := range stack {
		if existing == canon {
			return RawConfig{}, nil, nil, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(stack, " -> "), canon)
		}
	}
	if _, ok := seen[canon]; ok {
		// Already merged elsewhere; skip to avoid duplicates.
		return RawConfig{}, map[string]Source{}, nil, nil
	}
	seen[canon] = struct{}{}

	data, err := os.ReadFile(canon)
	if err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var (
		raw     RawConfig
		sources map[string]Source
		refs    []includeRef
	)
	if isTOML(canon) {
		raw, sources, err = decodeTOMLFile(data, canon)
		if err != nil {
			return RawConfig{}, nil, nil, err
		}
		for _, inc := range raw.Include {
			refs = append(refs, includeRef{Value: inc, Source: Source{Kind: SourceFile, File: canon}})
		}
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return RawConfig{}, nil, nil, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
		}
		if err := decodeStrictYAML(data, &raw); err != nil {
			return RawConfig{}, nil, nil, fmt.Errorf("%s: %w", canon, err)
		}
		sources = collectSources(&doc, canon)
		refs = collectIncludeRefs(&doc, canon)
	}

	merged := RawConfig{}
	mergedSources := map[string]Source{}
	var files []string

	for _, ref := range refs {
		paths, err := expandInclude(canon, ref.Value)
		if err != nil {
			return RawConfig{}, nil, nil, fmt.Errorf("%s:%d:%d: include %q: %w", ref.Source.File, ref.Source.Line, ref.Source.Column, ref.Value, err)
		}
		for _, incPath := range paths {
			incRaw, incSources, incFiles, err := loadRawMerged(incPath, seen, append(stack, canon))
			if err != nil {
				return RawConfig{}, nil, nil, err
			}
			merged = merged.merge(incRaw)
			for p, src := range incSources {
				mergedSources[p] = src
			}
			files = append(files, incFiles...)
		}
	}

	// Apply this file last (overrides includes).
	merged = merged.merge(raw)
	for p, src := range sources {
		mergedSources[p] = src
	}
	files = append(files, canon)

	return merged, mergedSources, files, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// decodeTOMLFile decodes TOML and rejects keys that map to no field.
func decodeTOMLFile(data []byte, file string) (RawConfig, map[string]Source, error) {
	var raw RawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return RawConfig{}, nil, fmt.Errorf("%s: failed to parse toml: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return RawConfig{}, nil, fmt.Errorf("%s: unknown field(s): %s", file, strings.Join(keys, ", "))
	}

	sources := make(map[string]Source)
	for _, key := range md.Keys() {
		sources[key.String()] = Source{Kind: SourceFile, File: file}
	}
	return raw, sources, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Best-effort; still use abs.
		return abs, nil
	}
	return real, nil
}

func expandInclude(baseFile string, include string) ([]string, error) {
	path, err := resolvePathRelativeToFile(baseFile, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml", ".toml":
			files = append(files, filepath.Join(path, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolvePathRelativeToFile(baseFile string, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(include, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if include == "~" {
			include = home
		} else if strings.HasPrefix(include, "~/") {
			include = filepath.Join(home, include[2:])
		}
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		path := keyNode.Value
		if prefix != "" {
			path = prefix + "." + keyNode.Value
		}
		out[path] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   valNode.Line,
			Column: valNode.Column,
		}
		collectSourcesRec(valNode, file, path, out)
	}
}

func collectIncludeRefs(doc *yaml.Node, file string) []includeRef {
	if doc == nil {
		return nil
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		if keyNode.Value != "include" {
			continue
		}

		switch valNode.Kind {
		case yaml.ScalarNode:
			return []includeRef{{
				Value:  valNode.Value,
				Source: Source{Kind: SourceFile, File: file, Line: valNode.Line, Column: valNode.Column},
			}}
		case yaml.SequenceNode:
			refs := make([]includeRef, 0, len(valNode.Content))
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					continue
				}
				refs = append(refs, includeRef{
					Value:  item.Value,
					Source: Source{Kind: SourceFile, File: file, Line: item.Line, Column: item.Column},
				})
			}
			return refs
		default:
			return nil
		}
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
