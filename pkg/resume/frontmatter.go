package resume

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// tomlFrontMatter matches a leading "+++" block as written by Zola.
	tomlFrontMatter = regexp.MustCompile(`^\+\+\+([\s\S]*?)\+\+\+\s*`)

	// yamlFrontMatter matches a leading "---" block as written by Hugo and Jekyll.
	yamlFrontMatter = regexp.MustCompile(`^---\r?\n([\s\S]*?)\r?\n---\s*`)
)

// Meta is the subset of front matter fields surfaced in logs.
type Meta struct {
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
}

// StripFrontMatter removes a leading front matter block from md and returns
// the trimmed body along with whatever metadata could be decoded from it.
// Documents without front matter are returned trimmed with a zero Meta.
func StripFrontMatter(md string) (string, Meta) {
	var meta Meta

	if m := tomlFrontMatter.FindStringSubmatchIndex(md); m != nil {
		_ = toml.Unmarshal([]byte(md[m[2]:m[3]]), &meta)
		return strings.TrimSpace(md[m[1]:]), meta
	}

	if m := yamlFrontMatter.FindStringSubmatchIndex(md); m != nil {
		_ = yaml.Unmarshal([]byte(md[m[2]:m[3]]), &meta)
		return strings.TrimSpace(md[m[1]:]), meta
	}

	return strings.TrimSpace(md), meta
}
