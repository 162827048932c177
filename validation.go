package lars

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the maximum length for service names
const MaxNameLength = 64

// fallbackName is used when no usable name can be derived from a command
const fallbackName = "service"

// ValidateServiceName checks a service name against the registry charset:
// 1-64 characters, alphanumerics, underscores, and hyphens only. Names are
// validated before they reach the store, keeping shell metacharacters out of
// everything derived from them.
func ValidateServiceName(name string) error {
	if name == "" {
		return &NameLengthError{Length: 0}
	}
	if len(name) > MaxNameLength {
		return &NameLengthError{Length: len(name)}
	}
	for _, r := range name {
		if !isNameRune(r) {
			return ErrNameCharacters
		}
	}
	return nil
}

// ValidateNotEmpty rejects strings that are empty or all whitespace
func ValidateNotEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	return nil
}

// SanitizeForShell rejects null bytes and returns the input quoted for safe
// use in a shell command line
func SanitizeForShell(input string) (string, error) {
	if strings.ContainsRune(input, 0) {
		return "", ErrNullByte
	}
	return shellQuote(input), nil
}

// GenerateServiceName derives a default service name from a command line.
// Leading VAR=value assignments are skipped, the executable's basename is
// taken, npx/bunx/pnpx invocations use the package argument instead, and
// version suffixes (@latest, @1.0.0) and scope prefixes (@org/) are
// stripped. The result always passes ValidateServiceName.
func GenerateServiceName(command string) string {
	var words []string
	for _, word := range strings.Fields(command) {
		if isEnvAssignment(word) {
			continue
		}
		words = append(words, word)
	}

	if len(words) == 0 {
		return fallbackName
	}

	executable := words[0]
	if i := strings.LastIndexByte(executable, '/'); i >= 0 {
		executable = executable[i+1:]
	}
	if executable == "" {
		executable = fallbackName
	}

	nameSource := executable
	if executable == "npx" || executable == "bunx" || executable == "pnpx" {
		for _, word := range words[1:] {
			if !strings.HasPrefix(word, "-") {
				nameSource = word
				break
			}
		}
	}

	packageName := nameSource
	if i := strings.IndexByte(nameSource, '@'); i >= 0 {
		packageName = nameSource[:i]
	}
	if packageName == "" {
		// Scoped package like @org/tool: name is the part after the slash
		last := nameSource
		if i := strings.LastIndexByte(last, '/'); i >= 0 {
			last = last[i+1:]
		}
		if i := strings.IndexByte(last, '@'); i >= 0 {
			last = last[:i]
		}
		packageName = last
	}

	// The length cap is in bytes, matching ValidateServiceName
	var b strings.Builder
	for _, r := range packageName {
		if !isNameRune(r) {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > MaxNameLength {
			break
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return fallbackName
	}
	return b.String()
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// isEnvAssignment reports whether a word looks like a VAR=value prefix
func isEnvAssignment(word string) bool {
	eq := strings.IndexByte(word, '=')
	if eq <= 0 {
		return false
	}
	name := word[:eq]
	first := name[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

// shellQuote escapes a string for safe use in shell command lines
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}

	if !needsShellQuoting(s) {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// needsShellQuoting checks if a string contains characters that require shell quoting
func needsShellQuoting(s string) bool {
	// Characters that require quoting in shell
	const specialChars = " \t\n'\"\\$`!*?[](){}<>|&;~"

	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			return true
		}
	}
	return false
}
