package captionquery

import "strings"

// AudioDescribedTag 是带音频描述字幕的系统标签。
const AudioDescribedTag = "audioDescribed"

const groupTagPrefix = "g:"

var disallowedTagChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "?", "")

// IsGroupTag 判断是否为 g:<name>:<color> 形式的分组标签。
func IsGroupTag(tag string) bool {
	return strings.HasPrefix(tag, groupTagPrefix)
}

// TagName 返回分组标签的名称，非分组标签返回空串。
func TagName(tag string) string {
	if !IsGroupTag(tag) {
		return ""
	}
	parts := strings.SplitN(tag, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// TagColor 返回分组标签的颜色部分。
func TagColor(tag string) string {
	parts := strings.SplitN(tag, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// GroupTag 组装分组标签。
func GroupTag(name, color string) string {
	return groupTagPrefix + name + ":" + color
}

// SanitizeTag 清洗分组标签：截断名称、去除 <>"'? 字符。
// 若 existing 中已有同名标签，直接返回已有标签以保持颜色稳定。非法标签返回空串。
func SanitizeTag(tag string, existing []string, maxNameLength int) string {
	if !IsGroupTag(tag) {
		return ""
	}
	name := TagName(tag)
	if name == "" {
		return ""
	}
	if maxNameLength > 0 {
		if runes := []rune(name); len(runes) > maxNameLength {
			name = string(runes[:maxNameLength])
		}
	}
	name = disallowedTagChars.Replace(name)
	if name == "" {
		return ""
	}
	for _, current := range existing {
		if TagName(current) == name {
			return current
		}
	}
	return GroupTag(name, TagColor(tag))
}

// MissingTags 返回 incoming 中名称不在 existing 里的分组标签，按出现顺序去重。
func MissingTags(existing, incoming []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		known[TagName(tag)] = struct{}{}
	}
	var missing []string
	for _, tag := range incoming {
		name := TagName(tag)
		if name == "" {
			continue
		}
		if _, ok := known[name]; ok {
			continue
		}
		known[name] = struct{}{}
		missing = append(missing, tag)
	}
	return missing
}

// TagNamePattern 构造匹配任一标签名的交替正则；names 超出 maxTags 时截断并返回 truncated=true。
func TagNamePattern(names []string, maxTags int) (pattern string, truncated bool) {
	if len(names) == 0 {
		return "", false
	}
	if maxTags > 0 && len(names) > maxTags {
		names = names[:maxTags]
		truncated = true
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, "^g:"+EscapeRegex(name)+":.*$")
	}
	return strings.Join(parts, "|"), truncated
}
