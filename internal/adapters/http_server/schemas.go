package httpserver

import (
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"

	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

type AnalyzeRequest struct {
	Reviews     []string `json:"reviews" jsonschema:"required,minItems=1,description=Review texts to classify"`
	ProductLink string   `json:"product_link,omitempty"`
}

type ShopifyRequest struct {
	StoreDomain    string `json:"store_domain" jsonschema:"required,description=Shop handle or myshopify domain"`
	AccessToken    string `json:"access_token" jsonschema:"required"`
	Limit          int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=10000,default=500"`
	ReviewApp      string `json:"review_app,omitempty" jsonschema:"enum=judge_me,enum=judge.me,enum=loox,enum=yotpo,enum=stamped"`
	ReviewAppToken string `json:"review_app_token,omitempty"`
}

func (r ShopifyRequest) criteria() domain.FetchCriteria {
	return domain.FetchCriteria{
		Source:         app.SourceShopify,
		StoreDomain:    r.StoreDomain,
		AccessToken:    r.AccessToken,
		ReviewApp:      r.ReviewApp,
		ReviewAppToken: r.ReviewAppToken,
		Limit:          r.Limit,
	}
}

type FeedRequest struct {
	FeedURL string `json:"feed_url" jsonschema:"required,format=uri"`
	Limit   int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=10000,default=500"`
}

func (r FeedRequest) criteria() domain.FetchCriteria {
	return domain.FetchCriteria{Source: app.SourceFeed, FeedURL: r.FeedURL, Limit: r.Limit}
}

var schemaTypes = map[string]any{
	"analyze": &AnalyzeRequest{},
	"shopify": &ShopifyRequest{},
	"feed":    &FeedRequest{},
	"ask":     &app.AskRequest{},
	"export":  &app.ExportRequest{},
}

// SchemaNames lists the request bodies a schema is published for.
func SchemaNames() []string {
	out := make([]string, 0, len(schemaTypes))
	for k := range schemaTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Schema reflects the JSON Schema of a request body by name.
func Schema(name string) (*jsonschema.Schema, bool) {
	v, ok := schemaTypes[name]
	if !ok {
		return nil, false
	}
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper:                     mapDomainTypes,
	}
	s := r.Reflect(v)
	s.Title = name
	return s, true
}

var (
	dateRangeType = reflect.TypeOf(domain.DateRange{})
	rawReviewType = reflect.TypeOf(domain.RawReview{})
)

// DateRange and RawReview marshal differently from their Go shape.
func mapDomainTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case dateRangeType:
		props := jsonschema.NewProperties()
		props.Set("start", &jsonschema.Schema{Type: "string", Format: "date"})
		props.Set("end", &jsonschema.Schema{Type: "string", Format: "date"})
		return &jsonschema.Schema{Type: "object", Properties: props, Required: []string{"start", "end"}}
	case rawReviewType:
		return &jsonschema.Schema{
			Type:        "object",
			Description: "Review record; body/text/content, rating/stars, created_at/date and product fields are recognised",
		}
	}
	return nil
}
