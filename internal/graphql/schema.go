package graphql

import (
	"errors"

	gql "github.com/graphql-go/graphql"

	"netcalc/internal/conversion"
	"netcalc/internal/netcalc"
	"netcalc/internal/support"
)

// NewSchema exposes the conversion service as queries convert, summary and
// validate, each taking family, separator and input.
func NewSchema(svc *conversion.Service) (gql.Schema, error) {
	summaryType := gql.NewObject(gql.ObjectConfig{
		Name: "Summary",
		Fields: gql.Fields{
			"family":    &gql.Field{Type: gql.NewNonNull(gql.String)},
			"tokens":    &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"blocks":    &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"addresses": &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	tokenErrorType := gql.NewObject(gql.ObjectConfig{
		Name: "TokenError",
		Fields: gql.Fields{
			"kind":     &gql.Field{Type: gql.NewNonNull(gql.String)},
			"token":    &gql.Field{Type: gql.NewNonNull(gql.String)},
			"position": &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"message":  &gql.Field{Type: gql.NewNonNull(gql.String)},
		},
	})

	conversionArgs := gql.FieldConfigArgument{
		"family":    &gql.ArgumentConfig{Type: gql.String, DefaultValue: "v4"},
		"separator": &gql.ArgumentConfig{Type: gql.String, DefaultValue: `\n`},
		"input":     &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	}

	queryType := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"convert": &gql.Field{
				Type: gql.NewNonNull(gql.String),
				Args: conversionArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return svc.Convert(p.Context, requestFromArgs(p.Args))
				},
			},
			"summary": &gql.Field{
				Type: gql.NewNonNull(summaryType),
				Args: conversionArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					summary, err := svc.Summarize(p.Context, requestFromArgs(p.Args))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"family":    summary.Family,
						"tokens":    summary.Tokens,
						"blocks":    summary.Blocks,
						"addresses": summary.Addresses,
					}, nil
				},
			},
			"validate": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(tokenErrorType))),
				Args: conversionArgs,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					err := svc.Validate(p.Context, requestFromArgs(p.Args))
					return buildTokenErrors(err)
				},
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: queryType})
}

func requestFromArgs(args map[string]interface{}) conversion.Request {
	req := conversion.Request{}
	if raw, ok := args["family"].(string); ok {
		req.Family = raw
	}
	if raw, ok := args["separator"].(string); ok {
		req.Separator = support.TranslateSeparator(raw)
	}
	if raw, ok := args["input"].(string); ok {
		req.Input = raw
	}
	return req
}

// buildTokenErrors lists per-token failures; anything that is not tied to a
// token is returned as a field error instead.
func buildTokenErrors(err error) ([]map[string]interface{}, error) {
	items := []map[string]interface{}{}
	if err == nil {
		return items, nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		var convErr *netcalc.ConversionError
		if !errors.As(e, &convErr) || convErr.Position == 0 {
			return nil, e
		}
		items = append(items, map[string]interface{}{
			"kind":     convErr.Kind(),
			"token":    convErr.Token,
			"position": convErr.Position,
			"message":  convErr.Error(),
		})
	}
	return items, nil
}
