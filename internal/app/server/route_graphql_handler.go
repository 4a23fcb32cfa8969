package server

import (
	"net/http"

	gqlhandler "github.com/graphql-go/handler"

	"netcalc/internal/conversion"
	gqlschema "netcalc/internal/graphql"
)

func newGraphQLHandler(svc *conversion.Service) (http.Handler, error) {
	schema, err := gqlschema.NewSchema(svc)
	if err != nil {
		return nil, err
	}

	base := gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: false,
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base.ContextHandler(r.Context(), w, r)
	}), nil
}
