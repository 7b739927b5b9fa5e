package authz

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"fmt"

	"github.com/fatih/structs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"go.uber.org/zap"

	"github.com/openlabs-org/labops/auth"
)

var (
	//go:embed policy.rego
	authzPolicy string

	ErrUnauthorized = errors.New("the subject is not authorized for the requested action")
)

type RequestAuthorizer interface {
	Authorize(ctx context.Context, r *http.Request) error
	EvaluatePolicy(context.Context, map[string]interface{}) error
}

func NewRequestAuthorizer(logger *zap.SugaredLogger) (RequestAuthorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{
		"policy.rego": authzPolicy,
	})
	if err != nil {
		return nil, err
	}

	return &embeddedOpaAuthorizer{
		logger: logger,
		policy: compiler,
	}, nil
}

type embeddedOpaAuthorizer struct {
	logger *zap.SugaredLogger
	policy *ast.Compiler
}

func (e *embeddedOpaAuthorizer) Authorize(ctx context.Context, r *http.Request) error {
	in := map[string]interface{}{
		"path":   getSplitPath(r),
		"method": strings.ToUpper(r.Method),
	}

	if authData := auth.GetAuthData(ctx); authData != nil {
		authStruct := structs.New(*authData)
		authStruct.TagName = "structs"
		in["auth"] = authStruct.Map()
	}

	return e.EvaluatePolicy(ctx, in)
}

func (e *embeddedOpaAuthorizer) EvaluatePolicy(ctx context.Context, input map[string]interface{}) error {
	r := rego.New(
		rego.Package("http.authz.labops"),
		rego.Query("allow"),
		rego.Compiler(e.policy),
		rego.Input(input),
	)

	results, err := r.Eval(ctx)
	if err != nil {
		return fmt.Errorf("unable to evaluate authorization policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return fmt.Errorf("evaluating authorization policy returned no results")
	}

	val, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return fmt.Errorf("unexpected authorization result: %v", results[0].Expressions[0].Value)
	}

	e.logger.Debugw("authorization policy eval", zap.Any("input", input), zap.Bool("allow", val))

	if !val {
		return ErrUnauthorized
	}

	return nil
}

func getSplitPath(r *http.Request) []string {
	path := strings.Split(r.URL.Path, "/")
	if len(path) > 0 && path[0] == "" {
		path = path[1:]
	}
	return path
}

type AuthzMiddlewareOpts struct {
	Skipper middleware.Skipper
}

func NewAuthzMiddleware(authorizer RequestAuthorizer, opts AuthzMiddlewareOpts) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if opts.Skipper != nil && opts.Skipper(c) {
				return next(c)
			}

			if err := authorizer.Authorize(c.Request().Context(), c.Request()); err != nil {
				if errors.Is(err, ErrUnauthorized) {
					return echo.ErrForbidden
				}
				return err
			}

			return next(c)
		}
	}
}
