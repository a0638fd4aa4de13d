package language

import "strings"

// Code identifies one of the supported content languages.
type Code string

const (
	Indonesian Code = "id"
	English    Code = "en"
	Chinese    Code = "zh"
)

// supported holds the configured language set in canonical order.
// The first entry is the primary language: authors write in it and its slug
// is the canonical fallback for the others.
var supported = []Code{Indonesian, English, Chinese}

// Supported returns the ordered set of configured languages, primary first.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// Primary returns the default authoring language.
func Primary() Code {
	return supported[0]
}

// Secondary returns every supported language except the primary one.
func Secondary() []Code {
	out := make([]Code, 0, len(supported)-1)
	for _, code := range supported[1:] {
		out = append(out, code)
	}
	return out
}

// IsSupported reports whether code belongs to the configured set.
func IsSupported(code Code) bool {
	for _, candidate := range supported {
		if candidate == code {
			return true
		}
	}
	return false
}

// Normalize maps free-form language input ("EN", "zh-CN", "id_ID") onto a
// supported code. Unknown or empty input falls back to the primary language.
func Normalize(raw string) Code {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return Primary()
	}
	for _, code := range supported {
		if trimmed == string(code) || strings.HasPrefix(trimmed, string(code)+"-") || strings.HasPrefix(trimmed, string(code)+"_") {
			return code
		}
	}
	return Primary()
}

// DisplayName returns the English name used when instructing the translation
// provider about the target language.
func DisplayName(code Code) string {
	switch code {
	case Indonesian:
		return "Indonesian"
	case English:
		return "English"
	case Chinese:
		return "Simplified Chinese"
	default:
		return string(code)
	}
}
