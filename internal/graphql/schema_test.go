package graphql

import (
	"context"
	"testing"

	gql "github.com/graphql-go/graphql"

	"netcalc/internal/conversion"
)

func runQuery(t *testing.T, query string) *gql.Result {
	t.Helper()
	schema, err := NewSchema(conversion.NewService(conversion.Options{}))
	if err != nil {
		t.Fatalf("NewSchema returned error: %v", err)
	}
	return gql.Do(gql.Params{Schema: schema, RequestString: query, Context: context.Background()})
}

func TestConvertQuery(t *testing.T) {
	result := runQuery(t, `{ convert(family: "v4", separator: ",", input: "10.0.0.0/24,10.0.1.0/24,10.0.3.7") }`)
	if len(result.Errors) > 0 {
		t.Fatalf("query returned errors: %v", result.Errors)
	}

	data := result.Data.(map[string]interface{})
	if got := data["convert"]; got != "10.0.0.0/23,10.0.3.7/32" {
		t.Fatalf("convert returned %v, want 10.0.0.0/23,10.0.3.7/32", got)
	}
}

func TestConvertQueryDefaultsSeparator(t *testing.T) {
	result := runQuery(t, `{ convert(input: "10.0.0.1\n10.0.0.0") }`)
	if len(result.Errors) > 0 {
		t.Fatalf("query returned errors: %v", result.Errors)
	}

	data := result.Data.(map[string]interface{})
	if got := data["convert"]; got != "10.0.0.0/31" {
		t.Fatalf("convert returned %v, want 10.0.0.0/31", got)
	}
}

func TestConvertQueryReportsErrors(t *testing.T) {
	result := runQuery(t, `{ convert(family: "v4", input: "2001:db8::1") }`)
	if len(result.Errors) == 0 {
		t.Fatal("query returned no errors for a family mismatch")
	}
}

func TestSummaryQuery(t *testing.T) {
	result := runQuery(t, `{ summary(family: "v6", input: "::/127") { family tokens blocks addresses } }`)
	if len(result.Errors) > 0 {
		t.Fatalf("query returned errors: %v", result.Errors)
	}

	summary := result.Data.(map[string]interface{})["summary"].(map[string]interface{})
	if summary["family"] != "v6" || summary["blocks"] != 1 || summary["addresses"] != "2" {
		t.Fatalf("unexpected summary: %v", summary)
	}
}

func TestValidateQuery(t *testing.T) {
	result := runQuery(t, `{ validate(family: "v4", input: "10.0.0.0/8\nbogus\n10.0.0.0/64") { kind token position } }`)
	if len(result.Errors) > 0 {
		t.Fatalf("query returned errors: %v", result.Errors)
	}

	items := result.Data.(map[string]interface{})["validate"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("validate returned %d errors, want 2", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["kind"] != "InvalidSyntax" || first["token"] != "bogus" || first["position"] != 2 {
		t.Fatalf("unexpected first error: %v", first)
	}
}
