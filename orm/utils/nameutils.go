package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 按 Go 的命名习惯整体大写的缩写
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"uuid": "UUID",
	"sql":  "SQL",
	"http": "HTTP",
	"api":  "API",
	"ip":   "IP",
	"json": "JSON",
}

var title = cases.Title(language.Und)

// SnakeToCamel 将下划线命名转换为导出的驼峰命名，例如 user_id -> UserID
func SnakeToCamel(snake string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(snake, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	}) {
		if s, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(s)
			continue
		}
		b.WriteString(title.String(part))
	}
	return b.String()
}

// CamelToSnake 将驼峰式命名转换为下划线命名
func CamelToSnake(camelStr string) string {
	if camelStr == "" {
		return ""
	}

	var result strings.Builder
	runes := []rune(camelStr)
	for i, current := range runes {
		if !unicode.IsUpper(current) {
			result.WriteRune(current)
			continue
		}
		if i > 0 {
			prevLower := !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// HTTPServer -> http_server
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(unicode.ToLower(current))
	}
	return result.String()
}
