package capabilities

import (
	"context"

	"orquestra/pkg/errors"
)

// NewSearchNewsCapability searches recent web news via Tavily.
func NewSearchNewsCapability(deps Deps) Capability {
	def := mustDefinition(CapSearchNews)
	return New(def.Name, def.Description, func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		if !deps.HasNews() {
			return nil, errors.Wrapf(errors.ErrUnavailable, "%s: news search client not configured", CapSearchNews)
		}
		results, err := deps.News.Search(ctx, stringArg(args, "query", ""))
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": results}, nil
	})
}
