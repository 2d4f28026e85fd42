package skillsync

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// FrontMatter is the YAML header of a skill's SKILL.md.
type FrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SplitFrontMatter separates a leading `---` fenced YAML block from the
// markdown body. Leading blank lines of the body are dropped. When there is
// no complete block, body is the input unchanged and ok is false. A block
// that is not valid YAML is still stripped; meta is then nil.
func SplitFrontMatter(content string) (meta *FrontMatter, body string, ok bool) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterFence {
		return nil, content, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontMatterFence {
			continue
		}
		header := strings.Join(lines[1:i], "")
		body = strings.TrimLeft(strings.Join(lines[i+1:], ""), "\n")

		var fm FrontMatter
		if err := yaml.Unmarshal([]byte(header), &fm); err == nil {
			meta = &fm
		}
		return meta, body, true
	}

	return nil, content, false
}

// StripFrontMatter returns content without its YAML front matter block.
func StripFrontMatter(content string) string {
	_, body, _ := SplitFrontMatter(content)
	return body
}
