package captionquery

import "regexp"

var regexSpecial = regexp.MustCompile(`[#-.]|[[-^]|[?|{}]`)

// EscapeRegex 转义正则元字符，使输入在 PostgreSQL ARE 中按字面匹配。
func EscapeRegex(in string) string {
	return regexSpecial.ReplaceAllString(in, `\$0`)
}

// LanguageFamilyPattern 返回匹配基础语言及其地区变体的正则，如 ^en($|_+.*)。
func LanguageFamilyPattern(code string) string {
	return "^" + EscapeRegex(code) + "($|_+.*)"
}
