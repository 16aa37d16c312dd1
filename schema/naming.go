package schema

import (
	"path"
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NamingStrategy controls how component schema names are derived from Go types.
type NamingStrategy int

const (
	// NamingTypeOnly uses just the type name.
	// Example: models.User -> User
	NamingTypeOnly NamingStrategy = iota

	// NamingPackageType uses "package.TypeName".
	// Example: models.User -> models.User
	NamingPackageType

	// NamingPascalCase uses "PackageTypeName".
	// Example: models.User -> ModelsUser
	NamingPascalCase

	// NamingSnakeCase uses "package_type_name".
	// Example: models.User -> models_user
	NamingSnakeCase

	// NamingFullPath uses the sanitized import path.
	// Example: models.User -> github.com_org_models_User
	NamingFullPath
)

// anonymousTypeName is the schema name used for anonymous struct types.
const anonymousTypeName = "AnonymousType"

// NameFunc derives a schema name from a type. It takes priority over the strategy.
type NameFunc func(t reflect.Type) string

// Case is a renaming rule for field names that have no explicit json name,
// mirroring the usual rename-all conventions.
type Case int

const (
	// CaseNone keeps the Go field name, matching encoding/json.
	CaseNone Case = iota
	// CaseCamel renders userName.
	CaseCamel
	// CasePascal renders UserName.
	CasePascal
	// CaseSnake renders user_name.
	CaseSnake
	// CaseScreamingSnake renders USER_NAME.
	CaseScreamingSnake
	// CaseKebab renders user-name.
	CaseKebab
	// CaseLower renders username.
	CaseLower
)

// Apply renames s according to c.
func (c Case) Apply(s string) string {
	if c == CaseNone || s == "" {
		return s
	}
	words := splitWords(s)
	lower := cases.Lower(language.Und)
	switch c {
	case CaseCamel:
		title := cases.Title(language.Und)
		for i, w := range words {
			if i == 0 {
				words[i] = lower.String(w)
			} else {
				words[i] = title.String(w)
			}
		}
		return strings.Join(words, "")
	case CasePascal:
		title := cases.Title(language.Und)
		for i, w := range words {
			words[i] = title.String(w)
		}
		return strings.Join(words, "")
	case CaseSnake:
		return lower.String(strings.Join(words, "_"))
	case CaseScreamingSnake:
		return cases.Upper(language.Und).String(strings.Join(words, "_"))
	case CaseKebab:
		return lower.String(strings.Join(words, "-"))
	case CaseLower:
		return lower.String(strings.Join(words, ""))
	default:
		return s
	}
}

// splitWords breaks an identifier into words at case changes, digits-to-letter
// boundaries and separators. Acronyms stay together: "HTTPServer" -> [HTTP Server].
func splitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := 0
	flush := func(end int) {
		if end > start {
			words = append(words, string(runes[start:end]))
		}
		start = end
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '_' || r == '-' || r == '.' || r == '/' || r == ' ' {
			flush(i)
			start = i + 1
			continue
		}
		if i == start {
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush(i)
		case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
		case unicode.IsDigit(prev) && unicode.IsLetter(r):
			flush(i)
		}
	}
	flush(len(runes))
	return words
}

// namer handles schema name generation.
type namer struct {
	strategy NamingStrategy
	fn       NameFunc
}

// name generates a schema name for the given type.
func (n *namer) name(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n.fn != nil {
		if name := n.fn(t); name != "" {
			return name
		}
	}
	typeName := sanitizeTypeName(t.Name())
	if typeName == "" {
		return anonymousTypeName
	}
	pkgPath := t.PkgPath()
	pkg := path.Base(pkgPath)

	switch n.strategy {
	case NamingPackageType:
		if pkgPath == "" {
			return typeName
		}
		return pkg + "." + typeName
	case NamingPascalCase:
		if pkgPath == "" {
			return typeName
		}
		return CasePascal.Apply(pkg) + typeName
	case NamingSnakeCase:
		if pkgPath == "" {
			return CaseSnake.Apply(typeName)
		}
		return CaseSnake.Apply(pkg) + "_" + CaseSnake.Apply(typeName)
	case NamingFullPath:
		return qualifiedName(t)
	default:
		return typeName
	}
}

// qualifiedName is the collision-free name used when two types share a name.
func qualifiedName(t reflect.Type) string {
	typeName := sanitizeTypeName(t.Name())
	if t.PkgPath() == "" {
		return typeName
	}
	return strings.ReplaceAll(t.PkgPath(), "/", "_") + "_" + typeName
}

// sanitizeTypeName flattens generic instantiations so names are valid in a $ref.
// Example: "Page[github.com/org/models.User]" -> "PageUser"
func sanitizeTypeName(name string) string {
	start := strings.Index(name, "[")
	if start == -1 {
		return name
	}
	base := name[:start]
	var sb strings.Builder
	sb.WriteString(base)
	for _, param := range extractGenericParams(name) {
		if idx := strings.LastIndex(stripGenericArgs(param), "."); idx != -1 {
			param = param[idx+1:]
		}
		sb.WriteString(sanitizeTypeName(strings.TrimLeft(param, "*[]")))
	}
	return sb.String()
}

// stripGenericArgs returns the part of a type name before its type arguments.
func stripGenericArgs(name string) string {
	if idx := strings.Index(name, "["); idx != -1 {
		return name[:idx]
	}
	return name
}

// extractGenericParams extracts type parameters from a generic type name.
// It handles nested generics by counting bracket depth.
// Example: "Map[string,int]" -> ["string", "int"]
// Example: "Response[List[User]]" -> ["List[User]"]
func extractGenericParams(name string) []string {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var params []string
	var current strings.Builder
	depth := 0
	for _, r := range name[start+1 : end] {
		switch r {
		case '[':
			depth++
			current.WriteRune(r)
		case ']':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		params = append(params, strings.TrimSpace(current.String()))
	}
	return params
}
