package builder

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/erraggy/oasgen/oas"
	"github.com/erraggy/oasgen/operation"
	"github.com/erraggy/oasgen/schema"
)

// BuilderOption configures a Builder instance.
// Options are applied when creating a new Builder with New().
type BuilderOption func(*builderConfig)

// Default document routes.
const (
	DefaultJSONRoute = "/openapi.json"
	DefaultYAMLRoute = "/openapi.yaml"
)

// builderConfig holds builder configuration applied via options.
type builderConfig struct {
	logger     oas.Logger
	pathPrefix string
	jsonRoute  string
	yamlRoute  string

	naming     schema.NamingStrategy
	nameFunc   schema.NameFunc
	fieldCase  schema.Case
	describer  schema.DescribeFunc
	funcDocs   func(handler string) string
	bodyPolicy operation.AmbiguousBodyPolicy
	strictPath bool
	adapter    operation.Adapter
}

// defaultBuilderConfig returns a new builderConfig with default values.
// Schemas are named by type name only and ambiguous bodies resolve silently
// to the last parameter.
func defaultBuilderConfig() *builderConfig {
	return &builderConfig{
		logger:     oas.NopLogger{},
		jsonRoute:  DefaultJSONRoute,
		yamlRoute:  DefaultYAMLRoute,
		naming:     schema.NamingTypeOnly,
		bodyPolicy: operation.BodyLastWins,
	}
}

var (
	prefixPattern = regexp.MustCompile(`^(/[^/{}\s]+)*$`)
	routePattern  = regexp.MustCompile(`^/[^{}\s]*$`)
)

// validate checks the option values that cannot be enforced by types.
func (cfg *builderConfig) validate() error {
	return validation.Errors{
		"pathPrefix": validation.Validate(cfg.pathPrefix,
			validation.Match(prefixPattern).Error("must be empty or start with / and have no trailing /")),
		"jsonRoute": validation.Validate(cfg.jsonRoute,
			validation.Required, validation.Match(routePattern).Error("must be an absolute path without placeholders")),
		"yamlRoute": validation.Validate(cfg.yamlRoute,
			validation.Required,
			validation.Match(routePattern).Error("must be an absolute path without placeholders"),
			validation.By(func(any) error {
				if cfg.yamlRoute == cfg.jsonRoute {
					return errors.New("must differ from the JSON route")
				}
				return nil
			})),
		"bodyPolicy": validation.Validate(cfg.bodyPolicy,
			validation.In(operation.BodyLastWins, operation.BodyWarn, operation.BodyError)),
		"fieldCase": validation.Validate(cfg.fieldCase,
			validation.Min(schema.CaseNone), validation.Max(schema.CaseLower)),
		"naming": validation.Validate(cfg.naming,
			validation.Min(schema.NamingTypeOnly), validation.Max(schema.NamingFullPath)),
	}.Filter()
}

// WithLogger sets the logger used during assembly and build.
// The default discards all output.
func WithLogger(l oas.Logger) BuilderOption {
	return func(cfg *builderConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithPathPrefix prepends prefix to every mounted path and to the document
// routes. The prefix must start with "/" and must not end with one.
//
// Example:
//
//	b := builder.New(c, builder.WithPathPrefix("/api/v1"))
//	b.Get("/pets", listPets) // documented as /api/v1/pets
func WithPathPrefix(prefix string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.pathPrefix = prefix
	}
}

// WithJSONRoute sets the route that serves the JSON document.
// Default: DefaultJSONRoute.
func WithJSONRoute(route string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.jsonRoute = route
	}
}

// WithYAMLRoute sets the route that serves the YAML document.
// Default: DefaultYAMLRoute.
func WithYAMLRoute(route string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.yamlRoute = route
	}
}

// WithSchemaNaming sets a built-in schema naming strategy.
// The default is schema.NamingTypeOnly which uses the bare type name.
//
// Available strategies:
//   - schema.NamingTypeOnly: "TypeName" (e.g., User)
//   - schema.NamingPackageType: "package.TypeName" (e.g., models.User)
//   - schema.NamingPascalCase: "PackageTypeName" (e.g., ModelsUser)
//   - schema.NamingSnakeCase: "package_type_name" (e.g., models_user)
//   - schema.NamingFullPath: "full_path_TypeName" (e.g., github.com_org_models_User)
//
// Setting a naming strategy clears any previously set naming function.
func WithSchemaNaming(strategy schema.NamingStrategy) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.naming = strategy
		cfg.nameFunc = nil
	}
}

// WithSchemaNameFunc sets a custom function deriving schema names from types.
// It takes priority over the naming strategy.
func WithSchemaNameFunc(fn schema.NameFunc) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.nameFunc = fn
	}
}

// WithFieldCase sets the rename rule for fields without an explicit json name.
func WithFieldCase(c schema.Case) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.fieldCase = c
	}
}

// WithDescriber sets the source of type and field descriptions, typically
// a loaded docs.Manifest.
func WithDescriber(fn schema.DescribeFunc) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.describer = fn
	}
}

// WithOperationDocs sets the source of handler doc comments, typically the
// FuncDoc method of a loaded docs.Manifest. An operation without an explicit
// summary takes the first sentence of its handler's comment; one without an
// explicit description takes the whole comment.
func WithOperationDocs(fn func(handler string) string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.funcDocs = fn
	}
}

// WithBodyPolicy sets what happens when a non-final handler parameter could
// carry the request body. Default: operation.BodyLastWins.
func WithBodyPolicy(p operation.AmbiguousBodyPolicy) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.bodyPolicy = p
	}
}

// WithStrictPathParams reports a mismatch between path placeholders and path
// parameters as an error.
func WithStrictPathParams(strict bool) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.strictPath = strict
	}
}

// WithAdapter sets the framework adapter that classifies handler parameters.
// Default: operation.StdlibAdapter.
func WithAdapter(a operation.Adapter) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.adapter = a
	}
}
