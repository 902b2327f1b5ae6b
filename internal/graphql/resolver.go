// Package graphql exposes the RajaOngkir operations as top-level GraphQL
// fields. Every field resolves to the upstream envelope as a JSON scalar.
package graphql

import (
	"bytes"
	"context"
	"errors"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	json "github.com/goccy/go-json"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolver is the root resolver for the GraphQL endpoint.
// It holds dependencies needed by all field resolvers.
type Resolver struct {
	Client  *rajaongkir.Client
	Logger  *otelzap.Logger
	Metrics *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(client *rajaongkir.Client, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Client:  client,
		Logger:  logger,
		Metrics: metrics,
	}
}

// Execute parses and runs one GraphQL request. Field failures are reported
// in the errors list; the remaining fields still resolve. Query fields run
// concurrently, mutation fields one after another, and the output keeps the
// selection order either way.
func (r *Resolver) Execute(ctx context.Context, params *gqlgen.RawParams) *gqlgen.Response {
	doc, parseErr := parser.ParseQuery(&ast.Source{Input: params.Query})
	if parseErr != nil {
		return errorResponse(toGQLError(parseErr))
	}
	if len(doc.Operations) == 0 {
		return errorResponse(gqlerror.Errorf("no operation provided"))
	}

	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		if params.OperationName == "" {
			return errorResponse(gqlerror.Errorf("operation name is required when the document has several operations"))
		}
		return errorResponse(gqlerror.Errorf("operation %q not found", params.OperationName))
	}
	if op.Operation == ast.Subscription {
		return errorResponse(gqlerror.Errorf("subscriptions are not supported"))
	}

	vars := withDefaults(op.VariableDefinitions, params.Variables)
	fields, errs := rootFields(doc, op)

	results := make([]fieldResult, len(fields))
	if op.Operation == ast.Mutation {
		for i, field := range fields {
			results[i] = r.resolve(ctx, op.Operation, field, vars)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, field := range fields {
			g.Go(func() error {
				results[i] = r.resolve(gctx, op.Operation, field, vars)
				return nil // field errors are reported per field
			})
		}
		g.Wait()
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, res := range results {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(res.key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(res.value)
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}
	buf.WriteByte('}')

	return &gqlgen.Response{
		Data:   buf.Bytes(),
		Errors: errs,
	}
}

// fieldResult is one resolved top-level field, already encoded.
type fieldResult struct {
	key   string
	value []byte
	err   *gqlerror.Error
}

func (r *Resolver) resolve(ctx context.Context, operation ast.Operation, field *ast.Field, vars map[string]any) fieldResult {
	key := field.Alias
	if key == "" {
		key = field.Name
	}
	res := fieldResult{key: key, value: []byte("null")}

	value, err := r.resolveField(ctx, operation, field, vars)
	if err != nil {
		res.err = toGQLError(err)
		res.err.Path = ast.Path{ast.PathName(key)}
		return res
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		res.err = &gqlerror.Error{Message: err.Error(), Path: ast.Path{ast.PathName(key)}}
		return res
	}
	res.value = encoded
	return res
}

// rootFields flattens the operation's selection set into its top-level
// fields. Inline fragments and fragment spreads on the root type are
// expanded; those on other types never apply and are skipped.
func rootFields(doc *ast.QueryDocument, op *ast.OperationDefinition) ([]*ast.Field, gqlerror.List) {
	rootType := "Query"
	if op.Operation == ast.Mutation {
		rootType = "Mutation"
	}

	var (
		fields []*ast.Field
		errs   gqlerror.List
	)
	visited := make(map[string]bool)

	var walk func(set ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				fields = append(fields, s)
			case *ast.InlineFragment:
				if s.TypeCondition == "" || s.TypeCondition == rootType {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if visited[s.Name] {
					continue
				}
				visited[s.Name] = true
				def := doc.Fragments.ForName(s.Name)
				if def == nil {
					errs = append(errs, gqlerror.Errorf("unknown fragment %q", s.Name))
					continue
				}
				if def.TypeCondition == rootType {
					walk(def.SelectionSet)
				}
			}
		}
	}
	walk(op.SelectionSet)
	return fields, errs
}

// withDefaults returns vars with the declared default of every variable the
// request left out.
func withDefaults(defs ast.VariableDefinitionList, vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars)+len(defs))
	for name, v := range vars {
		out[name] = v
	}
	for _, def := range defs {
		if _, ok := out[def.Variable]; ok || def.DefaultValue == nil {
			continue
		}
		if v, err := def.DefaultValue.Value(nil); err == nil {
			out[def.Variable] = v
		}
	}
	return out
}

func (r *Resolver) resolveField(ctx context.Context, operation ast.Operation, field *ast.Field, vars map[string]any) (any, error) {
	switch field.Name {
	case "__typename":
		if operation == ast.Mutation {
			return "Mutation", nil
		}
		return "Query", nil
	case "health":
		return "ok", nil
	case "accountTier":
		return string(r.Client.Tier()), nil
	}

	call, ok := fieldCalls[field.Name]
	if !ok {
		return nil, gqlerror.Errorf("unknown field %q", field.Name)
	}

	args := arguments{field: field, vars: vars}
	start := time.Now()
	resp, err := call(ctx, r.Client, args)
	if errors.Is(err, errInvalidArgument) {
		return nil, err
	}
	r.Metrics.ObserveCall(operationName(field.Name), start, resp, err)
	if err != nil {
		r.Logger.Ctx(ctx).Error("GraphQL field failed",
			zap.String("field", field.Name),
			zap.Error(err),
		)
		return nil, err
	}
	return resp.Data, nil
}

type fieldCall func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error)

var fieldCalls = map[string]fieldCall{
	"province": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		id, err := args.optional("id")
		if err != nil {
			return nil, err
		}
		return c.Province(ctx, id)
	},
	"city": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.CityRequest
		if err := args.collect(
			optionalArg("province", &req.ProvinceID),
			optionalArg("id", &req.CityID),
		); err != nil {
			return nil, err
		}
		return c.City(ctx, req)
	},
	"subdistrict": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.SubdistrictRequest
		if err := args.collect(
			requiredArg("city", &req.CityID),
			optionalArg("id", &req.SubdistrictID),
		); err != nil {
			return nil, err
		}
		return c.Subdistrict(ctx, req)
	},
	"cost": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.CostRequest
		var originType, destinationType string
		if err := args.collect(
			requiredArg("origin", &req.Origin),
			requiredArg("destination", &req.Destination),
			intArg("weight", &req.Weight),
			optionalArg("courier", &req.Courier),
			optionalArg("originType", &originType),
			optionalArg("destinationType", &destinationType),
		); err != nil {
			return nil, err
		}
		req.OriginType = rajaongkir.LocationType(originType)
		req.DestinationType = rajaongkir.LocationType(destinationType)
		return c.Cost(ctx, req)
	},
	"internationalOrigin": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.InternationalOriginRequest
		if err := args.collect(
			optionalArg("id", &req.CityID),
			optionalArg("province", &req.ProvinceID),
		); err != nil {
			return nil, err
		}
		return c.InternationalOrigin(ctx, req)
	},
	"internationalDestination": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		id, err := args.optional("id")
		if err != nil {
			return nil, err
		}
		return c.InternationalDestination(ctx, id)
	},
	"internationalCost": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.InternationalCostRequest
		if err := args.collect(
			requiredArg("origin", &req.Origin),
			requiredArg("destination", &req.Destination),
			intArg("weight", &req.Weight),
			optionalArg("courier", &req.Courier),
		); err != nil {
			return nil, err
		}
		return c.InternationalCost(ctx, req)
	},
	"waybill": func(ctx context.Context, c *rajaongkir.Client, args arguments) (*rajaongkir.Response, error) {
		var req rajaongkir.WaybillRequest
		if err := args.collect(
			requiredArg("waybill", &req.Waybill),
			requiredArg("courier", &req.Courier),
		); err != nil {
			return nil, err
		}
		return c.Waybill(ctx, req)
	},
}

// operationName maps a field onto the metric label the client uses.
func operationName(field string) string {
	switch field {
	case "internationalOrigin":
		return "international_origin"
	case "internationalDestination":
		return "international_destination"
	case "internationalCost":
		return "international_cost"
	}
	return field
}

func errorResponse(err *gqlerror.Error) *gqlgen.Response {
	return &gqlgen.Response{Errors: gqlerror.List{err}}
}

// toGQLError converts err into a GraphQL error, tagging client failures with
// an extensions code.
func toGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	out := &gqlerror.Error{Message: err.Error()}
	switch {
	case errors.Is(err, errInvalidArgument):
		out.Extensions = map[string]any{"code": "BAD_USER_INPUT"}
	case rajaongkir.IsTransportError(err):
		out.Extensions = map[string]any{"code": "UPSTREAM_UNAVAILABLE"}
	case rajaongkir.IsResponseFormatError(err):
		out.Extensions = map[string]any{"code": "UPSTREAM_BAD_RESPONSE"}
	}
	return out
}
